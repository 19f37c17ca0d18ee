package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dkarlovs/habitsync/internal/dbx"
	"github.com/dkarlovs/habitsync/internal/models"
)

const habitColumns = `id, name, description, category, icon,
	session_qty, session_unit, repeat_preset, period_qty, period_unit,
	notif_enabled, notif_mode, notif_message, notif_times_of_day, notif_week_days,
	notif_advance_min, notif_vibrate, scheduled, created_at, next_trigger`

const upsertHabitQuery = `INSERT INTO habits (` + habitColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		category = excluded.category,
		icon = excluded.icon,
		session_qty = excluded.session_qty,
		session_unit = excluded.session_unit,
		repeat_preset = excluded.repeat_preset,
		period_qty = excluded.period_qty,
		period_unit = excluded.period_unit,
		notif_enabled = excluded.notif_enabled,
		notif_mode = excluded.notif_mode,
		notif_message = excluded.notif_message,
		notif_times_of_day = excluded.notif_times_of_day,
		notif_week_days = excluded.notif_week_days,
		notif_advance_min = excluded.notif_advance_min,
		notif_vibrate = excluded.notif_vibrate,
		scheduled = excluded.scheduled,
		created_at = excluded.created_at,
		next_trigger = excluded.next_trigger`

// SQLiteHabitStore implements HabitStore on a SQLite database. Mutations and
// subscriptions are serialized by an internal mutex so every observer sees
// snapshots in mutation order.
type SQLiteHabitStore struct {
	db  *sql.DB
	mu  sync.Mutex
	hub *hub[[]models.Habit]
}

// NewSQLiteHabitStore returns a SQLiteHabitStore bound to db.
func NewSQLiteHabitStore(db *sql.DB) *SQLiteHabitStore {
	return &SQLiteHabitStore{db: db, hub: newHub[[]models.Habit]()}
}

func (s *SQLiteHabitStore) Observe(ctx context.Context) (<-chan []models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := queryHabits(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return s.hub.add(ctx, current), nil
}

func (s *SQLiteHabitStore) GetAll(ctx context.Context) ([]models.Habit, error) {
	return queryHabits(ctx, s.db)
}

func (s *SQLiteHabitStore) UpsertMany(ctx context.Context, habits []models.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range habits {
			if err := upsertHabit(ctx, tx, habits[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *SQLiteHabitStore) SyncAll(ctx context.Context, habits []models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		ids := make([]string, 0, len(habits))
		for i := range habits {
			if err := upsertHabit(ctx, tx, habits[i]); err != nil {
				return err
			}
			ids = append(ids, habits[i].ID)
		}
		return deleteRowsNotIn(ctx, tx, "habits", ids)
	})
	if err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *SQLiteHabitStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return nil
	}
	return s.publish(ctx)
}

func (s *SQLiteHabitStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM habits`); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}
	return s.publish(ctx)
}

// publish requeries the table and broadcasts the result. Callers hold s.mu.
func (s *SQLiteHabitStore) publish(ctx context.Context) error {
	rows, err := queryHabits(ctx, s.db)
	if err != nil {
		return err
	}
	s.hub.broadcast(rows)
	return nil
}

func upsertHabit(ctx context.Context, q dbx.DBTX, h models.Habit) error {
	times, err := encodeStrings(h.Notif.TimesOfDay)
	if err != nil {
		return err
	}
	days, err := encodeInts(h.Notif.WeekDays)
	if err != nil {
		return err
	}

	var trigger any
	if h.NextTrigger != nil {
		trigger = h.NextTrigger.UnixMilli()
	}

	_, err = q.ExecContext(ctx, upsertHabitQuery,
		h.ID, h.Name, h.Description, string(h.Category), h.Icon,
		h.SessionQty, h.SessionUnit, string(h.RepeatPreset), h.PeriodQty, h.PeriodUnit,
		h.Notif.Enabled, string(h.Notif.Mode), h.Notif.Message, times, days,
		h.Notif.AdvanceMin, h.Notif.Vibrate, h.Scheduled, h.CreatedAt.UnixMilli(), trigger)
	if err != nil {
		return fmt.Errorf("failed to upsert habit: %w", err)
	}
	return nil
}

// queryHabits lists all rows in insertion order, which upserts preserve.
func queryHabits(ctx context.Context, q dbx.DBTX) ([]models.Habit, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to select habits: %w", err)
	}
	defer rows.Close()

	var result []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanHabit(rows *sql.Rows) (models.Habit, error) {
	var (
		h         models.Habit
		times     string
		days      string
		createdMs int64
		triggerMs sql.NullInt64
	)
	err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Category, &h.Icon,
		&h.SessionQty, &h.SessionUnit, &h.RepeatPreset, &h.PeriodQty, &h.PeriodUnit,
		&h.Notif.Enabled, &h.Notif.Mode, &h.Notif.Message, &times, &days,
		&h.Notif.AdvanceMin, &h.Notif.Vibrate, &h.Scheduled, &createdMs, &triggerMs)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to scan habit: %w", err)
	}

	if h.Notif.TimesOfDay, err = decodeStrings(times); err != nil {
		return models.Habit{}, err
	}
	if h.Notif.WeekDays, err = decodeInts(days); err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt = time.UnixMilli(createdMs).UTC()
	if triggerMs.Valid {
		t := time.UnixMilli(triggerMs.Int64).UTC()
		h.NextTrigger = &t
	}
	return h, nil
}

// deleteRowsNotIn removes every row of table whose id is not in ids. An
// empty ids list empties the table.
func deleteRowsNotIn(ctx context.Context, q dbx.DBTX, table string, ids []string) error {
	if len(ids) == 0 {
		_, err := q.ExecContext(ctx, `DELETE FROM `+table)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id NOT IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to prune %s: %w", table, err)
	}
	return nil
}
