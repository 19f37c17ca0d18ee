package repo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dkarlovs/habitsync/internal/cache"
	"github.com/dkarlovs/habitsync/internal/common"
	"github.com/dkarlovs/habitsync/internal/convert"
	"github.com/dkarlovs/habitsync/internal/logging"
	"github.com/dkarlovs/habitsync/internal/models"
	"github.com/dkarlovs/habitsync/internal/remote"
)

// HabitRepository mirrors the authenticated user's habit collection and adds
// the write path on top of the read surface: every mutation goes to the
// remote first and is echoed into the local cache so observers update
// without waiting for the next snapshot.
type HabitRepository interface {
	// Observe streams the locally cached habit set, emitting immediately
	// with the current state and again after every cache change.
	Observe(ctx context.Context) (<-chan []models.Habit, error)

	// GetAll returns the currently cached set.
	GetAll(ctx context.Context) ([]models.Habit, error)

	// RefreshOnce fetches the remote collection once and mirrors it into the
	// cache. Failures propagate to the caller.
	RefreshOnce(ctx context.Context) error

	// RunSync applies every remote snapshot to the cache until ctx is
	// cancelled, resubscribing with backoff when the stream fails. It
	// returns common.ErrSyncRunning when a loop is already active, otherwise
	// it blocks until cancelled and returns ctx.Err().
	RunSync(ctx context.Context) error

	// Save persists a new habit: the remote assigns the identity, the
	// creation instant is stamped if absent, and the corrected copy is
	// cached and returned.
	Save(ctx context.Context, h models.Habit) (models.Habit, error)

	// Update merge-writes the full habit to the remote and refreshes the
	// cached row. The habit must carry its identity.
	Update(ctx context.Context, h models.Habit) error

	// Delete removes the habit remotely and from the cache.
	Delete(ctx context.Context, id string) error

	// LastRefresh reports when a refresh or snapshot last landed.
	LastRefresh(ctx context.Context) (time.Time, bool, error)

	// DroppedCount reports how many malformed documents have been dropped
	// since startup.
	DroppedCount() int64

	// Reset clears the cached habits and the sync bookkeeping.
	Reset(ctx context.Context) error
}

type habitRepository struct {
	remote  remote.ReadWriter
	store   cache.HabitStore
	meta    cache.MetadataStore
	logger  logging.Logger
	backoff Backoff

	running atomic.Bool
	dropped atomic.Int64
}

// NewHabitRepository wires a habit repository from its three tiers.
func NewHabitRepository(rem remote.ReadWriter, store cache.HabitStore, meta cache.MetadataStore, logger logging.Logger, backoff Backoff) HabitRepository {
	return &habitRepository{
		remote:  rem,
		store:   store,
		meta:    meta,
		logger:  logger.With("family", "habits"),
		backoff: backoff.orDefault(),
	}
}

func (r *habitRepository) Observe(ctx context.Context) (<-chan []models.Habit, error) {
	return r.store.Observe(ctx)
}

func (r *habitRepository) GetAll(ctx context.Context) ([]models.Habit, error) {
	return r.store.GetAll(ctx)
}

func (r *habitRepository) RefreshOnce(ctx context.Context) error {
	docs, err := r.remote.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("habit refresh failed: %w", err)
	}
	if err := r.apply(ctx, docs); err != nil {
		return fmt.Errorf("habit refresh failed: %w", err)
	}
	return nil
}

func (r *habitRepository) RunSync(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return common.ErrSyncRunning
	}
	defer r.running.Store(false)

	backoff := r.backoff.fresh()
	for {
		applied, err := r.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn(ctx, "habit stream terminated, restarting", "error", err)

		if applied > 0 {
			backoff = r.backoff.fresh()
		}
		wait, _ := backoff.Next()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *habitRepository) consume(ctx context.Context) (int, error) {
	docs, errs := r.remote.Observe(ctx)

	applied := 0
	for batch := range docs {
		if err := r.apply(ctx, batch); err != nil {
			r.logger.Error(ctx, "failed to apply habit snapshot", "error", err)
			continue
		}
		applied++
	}
	return applied, <-errs
}

func (r *habitRepository) apply(ctx context.Context, docs []remote.Document) error {
	habits := r.mapDocuments(ctx, docs)
	if err := r.store.SyncAll(ctx, habits); err != nil {
		return err
	}
	r.logger.Debug(ctx, "habit snapshot applied", "count", len(habits))
	return r.meta.SetTime(ctx, cache.KeyLastRefreshHabits, time.Now().UTC())
}

func (r *habitRepository) mapDocuments(ctx context.Context, docs []remote.Document) []models.Habit {
	habits := make([]models.Habit, 0, len(docs))
	for _, d := range docs {
		h, err := convert.HabitFromDocument(d.ID, d.Fields)
		if err != nil {
			r.dropped.Add(1)
			r.logger.Warn(ctx, "dropping malformed habit document", "id", d.ID, "error", err)
			continue
		}
		habits = append(habits, h)
	}
	return habits
}

func (r *habitRepository) Save(ctx context.Context, h models.Habit) (models.Habit, error) {
	if h.CreatedAt.IsZero() {
		// Millisecond precision matches the document encoding, so the copy
		// kept in memory equals a later remote read of the same habit.
		h.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	fields, err := convert.HabitToDocument(h)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit save failed: %w", err)
	}

	id, err := r.remote.Create(ctx, fields)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit save failed: %w", err)
	}
	h.ID = id

	if err := r.store.UpsertMany(ctx, []models.Habit{h}); err != nil {
		return models.Habit{}, fmt.Errorf("habit saved remotely but caching failed: %w", err)
	}
	return h, nil
}

func (r *habitRepository) Update(ctx context.Context, h models.Habit) error {
	if h.ID == "" {
		return ErrUnpersisted
	}

	fields, err := convert.HabitToDocument(h)
	if err != nil {
		return fmt.Errorf("habit update failed: %w", err)
	}

	if err := r.remote.MergeSet(ctx, h.ID, fields); err != nil {
		return fmt.Errorf("habit update failed: %w", err)
	}
	if err := r.store.UpsertMany(ctx, []models.Habit{h}); err != nil {
		return fmt.Errorf("habit updated remotely but caching failed: %w", err)
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrUnpersisted
	}

	if err := r.remote.Delete(ctx, id); err != nil {
		return fmt.Errorf("habit delete failed: %w", err)
	}
	if err := r.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("habit deleted remotely but cache cleanup failed: %w", err)
	}
	return nil
}

func (r *habitRepository) LastRefresh(ctx context.Context) (time.Time, bool, error) {
	return r.meta.GetTime(ctx, cache.KeyLastRefreshHabits)
}

func (r *habitRepository) DroppedCount() int64 {
	return r.dropped.Load()
}

func (r *habitRepository) Reset(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("habit reset failed: %w", err)
	}
	r.dropped.Store(0)
	return r.meta.Delete(ctx, cache.KeyLastRefreshHabits)
}
