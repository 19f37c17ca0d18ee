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

// TemplateRepository serves the shared habit template catalog as an
// observable local mirror of the remote collection. Templates are read-only
// on the client; there is no write path.
type TemplateRepository interface {
	// Observe streams the locally cached template set, emitting immediately
	// with the current state and again after every cache change.
	Observe(ctx context.Context) (<-chan []models.HabitTemplate, error)

	// GetAll returns the currently cached set.
	GetAll(ctx context.Context) ([]models.HabitTemplate, error)

	// RefreshOnce fetches the remote collection once and mirrors it into the
	// cache. Failures propagate to the caller.
	RefreshOnce(ctx context.Context) error

	// RunSync applies every remote snapshot to the cache until ctx is
	// cancelled, resubscribing with backoff when the stream fails. It
	// returns common.ErrSyncRunning when a loop is already active, otherwise
	// it blocks until cancelled and returns ctx.Err().
	RunSync(ctx context.Context) error

	// LastRefresh reports when a refresh or snapshot last landed.
	LastRefresh(ctx context.Context) (time.Time, bool, error)

	// DroppedCount reports how many malformed documents have been dropped
	// since startup.
	DroppedCount() int64

	// Reset clears the cached templates and the sync bookkeeping.
	Reset(ctx context.Context) error
}

type templateRepository struct {
	remote  remote.Reader
	store   cache.TemplateStore
	meta    cache.MetadataStore
	logger  logging.Logger
	backoff Backoff

	running atomic.Bool
	dropped atomic.Int64
}

// NewTemplateRepository wires a template repository from its three tiers.
func NewTemplateRepository(rem remote.Reader, store cache.TemplateStore, meta cache.MetadataStore, logger logging.Logger, backoff Backoff) TemplateRepository {
	return &templateRepository{
		remote:  rem,
		store:   store,
		meta:    meta,
		logger:  logger.With("family", "templates"),
		backoff: backoff.orDefault(),
	}
}

func (r *templateRepository) Observe(ctx context.Context) (<-chan []models.HabitTemplate, error) {
	return r.store.Observe(ctx)
}

func (r *templateRepository) GetAll(ctx context.Context) ([]models.HabitTemplate, error) {
	return r.store.GetAll(ctx)
}

func (r *templateRepository) RefreshOnce(ctx context.Context) error {
	docs, err := r.remote.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("template refresh failed: %w", err)
	}
	if err := r.apply(ctx, docs); err != nil {
		return fmt.Errorf("template refresh failed: %w", err)
	}
	return nil
}

func (r *templateRepository) RunSync(ctx context.Context) error {
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
		r.logger.Warn(ctx, "template stream terminated, restarting", "error", err)

		if applied > 0 {
			// The stream was healthy before dying; start the delays over.
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

// consume processes one stream subscription until it terminates, returning
// the number of snapshots applied and the terminal cause.
func (r *templateRepository) consume(ctx context.Context) (int, error) {
	docs, errs := r.remote.Observe(ctx)

	applied := 0
	for batch := range docs {
		if err := r.apply(ctx, batch); err != nil {
			// The cache missed this snapshot; the next one carries the full
			// state again.
			r.logger.Error(ctx, "failed to apply template snapshot", "error", err)
			continue
		}
		applied++
	}
	return applied, <-errs
}

// apply maps a raw snapshot and mirrors it into the cache.
func (r *templateRepository) apply(ctx context.Context, docs []remote.Document) error {
	templates := r.mapDocuments(ctx, docs)
	if err := r.store.SyncAll(ctx, templates); err != nil {
		return err
	}
	r.logger.Debug(ctx, "template snapshot applied", "count", len(templates))
	return r.meta.SetTime(ctx, cache.KeyLastRefreshTemplates, time.Now().UTC())
}

// mapDocuments converts raw documents fail-open: a malformed template is
// logged, counted and dropped, never surfaced to callers.
func (r *templateRepository) mapDocuments(ctx context.Context, docs []remote.Document) []models.HabitTemplate {
	templates := make([]models.HabitTemplate, 0, len(docs))
	for _, d := range docs {
		tpl, err := convert.TemplateFromDocument(d.ID, d.Fields)
		if err != nil {
			r.dropped.Add(1)
			r.logger.Warn(ctx, "dropping malformed template document", "id", d.ID, "error", err)
			continue
		}
		templates = append(templates, *tpl)
	}
	return templates
}

func (r *templateRepository) LastRefresh(ctx context.Context) (time.Time, bool, error) {
	return r.meta.GetTime(ctx, cache.KeyLastRefreshTemplates)
}

func (r *templateRepository) DroppedCount() int64 {
	return r.dropped.Load()
}

func (r *templateRepository) Reset(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("template reset failed: %w", err)
	}
	r.dropped.Store(0)
	return r.meta.Delete(ctx, cache.KeyLastRefreshTemplates)
}
