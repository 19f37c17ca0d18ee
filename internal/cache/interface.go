package cache

import (
	"context"
	"time"

	"github.com/dkarlovs/habitsync/internal/models"
)

// HabitStore describes the operations of the local habit cache.
// Implementations are typically backed by a local SQLite database.
type HabitStore interface {
	// Observe returns a channel carrying the current habit set immediately
	// and a fresh snapshot after every mutation. The channel is closed when
	// ctx is cancelled.
	Observe(ctx context.Context) (<-chan []models.Habit, error)

	// GetAll returns every cached habit in insertion order.
	GetAll(ctx context.Context) ([]models.Habit, error)

	// UpsertMany inserts or replaces the given habits by id in one
	// transaction. Applying the same batch twice leaves the cache unchanged.
	UpsertMany(ctx context.Context, habits []models.Habit) error

	// SyncAll mirrors the cache to exactly the given set: habits are
	// upserted and rows absent from the batch are removed, in one
	// transaction.
	SyncAll(ctx context.Context, habits []models.Habit) error

	// DeleteByID removes a habit row if present. Deleting an absent id is
	// not an error.
	DeleteByID(ctx context.Context, id string) error

	// Clear removes all habit rows.
	Clear(ctx context.Context) error
}

// TemplateStore is the template counterpart of HabitStore. Rows are listed
// ordered by category and then name.
type TemplateStore interface {
	Observe(ctx context.Context) (<-chan []models.HabitTemplate, error)
	GetAll(ctx context.Context) ([]models.HabitTemplate, error)
	UpsertMany(ctx context.Context, templates []models.HabitTemplate) error
	SyncAll(ctx context.Context, templates []models.HabitTemplate) error
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// MetadataStore is a small key/value store for sync bookkeeping such as
// last-refresh stamps.
type MetadataStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) (map[string][]byte, error)

	// GetTime and SetTime read and write an instant stored as decimal epoch
	// milliseconds. GetTime reports ok=false when the key is absent.
	GetTime(ctx context.Context, key string) (t time.Time, ok bool, err error)
	SetTime(ctx context.Context, key string, t time.Time) error
}

// Keys the sync repositories use for their bookkeeping stamps.
const (
	KeyLastRefreshHabits    = "last_refresh_habits"
	KeyLastRefreshTemplates = "last_refresh_templates"
)
