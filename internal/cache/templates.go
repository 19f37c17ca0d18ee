package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dkarlovs/habitsync/internal/dbx"
	"github.com/dkarlovs/habitsync/internal/models"
)

const templateColumns = `id, name, description, category, icon,
	session_qty, session_unit, repeat_preset, period_qty, period_unit,
	notif_enabled, notif_mode, notif_message, notif_times_of_day, notif_week_days,
	notif_advance_min, notif_vibrate, scheduled`

const upsertTemplateQuery = `INSERT INTO habit_templates (` + templateColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
		scheduled = excluded.scheduled`

// SQLiteTemplateStore implements TemplateStore on a SQLite database.
type SQLiteTemplateStore struct {
	db  *sql.DB
	mu  sync.Mutex
	hub *hub[[]models.HabitTemplate]
}

// NewSQLiteTemplateStore returns a SQLiteTemplateStore bound to db.
func NewSQLiteTemplateStore(db *sql.DB) *SQLiteTemplateStore {
	return &SQLiteTemplateStore{db: db, hub: newHub[[]models.HabitTemplate]()}
}

func (s *SQLiteTemplateStore) Observe(ctx context.Context) (<-chan []models.HabitTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := queryTemplates(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return s.hub.add(ctx, current), nil
}

func (s *SQLiteTemplateStore) GetAll(ctx context.Context) ([]models.HabitTemplate, error) {
	return queryTemplates(ctx, s.db)
}

func (s *SQLiteTemplateStore) UpsertMany(ctx context.Context, templates []models.HabitTemplate) error {
	if len(templates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range templates {
			if err := upsertTemplate(ctx, tx, templates[i]); err != nil {
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

func (s *SQLiteTemplateStore) SyncAll(ctx context.Context, templates []models.HabitTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		ids := make([]string, 0, len(templates))
		for i := range templates {
			if err := upsertTemplate(ctx, tx, templates[i]); err != nil {
				return err
			}
			ids = append(ids, templates[i].ID)
		}
		return deleteRowsNotIn(ctx, tx, "habit_templates", ids)
	})
	if err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *SQLiteTemplateStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM habit_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
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

func (s *SQLiteTemplateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM habit_templates`); err != nil {
		return fmt.Errorf("failed to clear templates: %w", err)
	}
	return s.publish(ctx)
}

func (s *SQLiteTemplateStore) publish(ctx context.Context) error {
	rows, err := queryTemplates(ctx, s.db)
	if err != nil {
		return err
	}
	s.hub.broadcast(rows)
	return nil
}

func upsertTemplate(ctx context.Context, q dbx.DBTX, t models.HabitTemplate) error {
	times, err := encodeStrings(t.Notif.TimesOfDay)
	if err != nil {
		return err
	}
	days, err := encodeInts(t.Notif.WeekDays)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, upsertTemplateQuery,
		t.ID, t.Name, t.Description, string(t.Category), t.Icon,
		t.SessionQty, t.SessionUnit, string(t.RepeatPreset), t.PeriodQty, t.PeriodUnit,
		t.Notif.Enabled, string(t.Notif.Mode), t.Notif.Message, times, days,
		t.Notif.AdvanceMin, t.Notif.Vibrate, t.Scheduled)
	if err != nil {
		return fmt.Errorf("failed to upsert template: %w", err)
	}
	return nil
}

// queryTemplates lists all rows grouped by category and alphabetical inside
// each category, the order the template picker presents them in.
func queryTemplates(ctx context.Context, q dbx.DBTX) ([]models.HabitTemplate, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+templateColumns+` FROM habit_templates ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select templates: %w", err)
	}
	defer rows.Close()

	var result []models.HabitTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanTemplate(rows *sql.Rows) (models.HabitTemplate, error) {
	var (
		t     models.HabitTemplate
		times string
		days  string
	)
	err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Icon,
		&t.SessionQty, &t.SessionUnit, &t.RepeatPreset, &t.PeriodQty, &t.PeriodUnit,
		&t.Notif.Enabled, &t.Notif.Mode, &t.Notif.Message, &times, &days,
		&t.Notif.AdvanceMin, &t.Notif.Vibrate, &t.Scheduled)
	if err != nil {
		return models.HabitTemplate{}, fmt.Errorf("failed to scan template: %w", err)
	}

	if t.Notif.TimesOfDay, err = decodeStrings(times); err != nil {
		return models.HabitTemplate{}, err
	}
	if t.Notif.WeekDays, err = decodeInts(days); err != nil {
		return models.HabitTemplate{}, err
	}
	return t, nil
}
