// Package app initializes and runs the habitsync daemon. It opens the local
// cache, connects to the remote document store, wires the repositories and
// the orchestration service, and supervises the continuous sync loops plus
// the status endpoint until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dkarlovs/habitsync/internal/alarm"
	"github.com/dkarlovs/habitsync/internal/cache"
	"github.com/dkarlovs/habitsync/internal/config"
	"github.com/dkarlovs/habitsync/internal/filex"
	"github.com/dkarlovs/habitsync/internal/handlers"
	"github.com/dkarlovs/habitsync/internal/logging"
	"github.com/dkarlovs/habitsync/internal/models"
	"github.com/dkarlovs/habitsync/internal/remote"
	"github.com/dkarlovs/habitsync/internal/repo"
	"github.com/dkarlovs/habitsync/internal/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	stores    *cache.Stores
	client    *firestore.Client
	templates repo.TemplateRepository
	habits    repo.HabitRepository
	scheduler *alarm.TimerScheduler
	service   services.HabitService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg)

	if err := filex.EnsureParentDir(cfg.CacheFile); err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}
	stores, err := cache.Open(ctx, cfg.CacheFile)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("firestore init error: %w", err)
	}

	backoff := repo.Backoff{Base: cfg.BackoffBase, Cap: cfg.BackoffCap}
	templates := repo.NewTemplateRepository(
		remote.NewCollection(client, cfg.TemplatesCollection),
		stores.Templates, stores.Metadata, logger, backoff)
	habits := repo.NewHabitRepository(
		remote.NewCollection(client, cfg.HabitsCollection()),
		stores.Habits, stores.Metadata, logger, backoff)

	scheduler := alarm.NewTimerScheduler(logger, func(h models.Habit) {
		logger.Info(context.Background(), "reminder due", "id", h.ID, "name", h.Name)
	})

	service := services.NewHabitService(habits, templates, scheduler, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		stores:    stores,
		client:    client,
		templates: templates,
		habits:    habits,
		scheduler: scheduler,
		service:   service,
	}, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, logging.NewRotatingWriter(cfg.LogFile))
	}
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
}

// Service exposes the habit orchestration surface.
func (app *App) Service() services.HabitService {
	return app.service
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the sync loops and the status endpoint and blocks until a
// termination signal arrives or a component fails fatally.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting habitsync", "user", app.config.UserID)

	app.initSignalHandler(cancelFunc)

	// Initial refresh is best-effort: starting offline serves cached data
	// until the continuous listeners connect.
	if err := app.templates.RefreshOnce(ctx); err != nil {
		app.logger.Warn(ctx, "initial template refresh failed", "error", err)
	}
	if err := app.habits.RefreshOnce(ctx); err != nil {
		app.logger.Warn(ctx, "initial habit refresh failed", "error", err)
	}

	app.armCachedReminders(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.templates.RunSync(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error(ctx, "template sync stopped", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.habits.RunSync(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error(ctx, "habit sync stopped", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startStatusServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "habitsync stopped")
}

// armCachedReminders restores reminders after a restart from whatever the
// cache holds. Habits whose trigger already passed are skipped rather than
// fired as a stale burst.
func (app *App) armCachedReminders(ctx context.Context) {
	habits, err := app.habits.GetAll(ctx)
	if err != nil {
		app.logger.Warn(ctx, "could not restore reminders", "error", err)
		return
	}

	armed := 0
	for _, h := range habits {
		if h.NextTrigger == nil || h.NextTrigger.Before(time.Now()) {
			continue
		}
		if err := app.scheduler.Schedule(ctx, h); err != nil {
			app.logger.Warn(ctx, "could not restore reminder", "id", h.ID, "error", err)
			continue
		}
		armed++
	}
	app.logger.Info(ctx, "reminders restored", "count", armed)
}

func (app *App) startStatusServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := handlers.NewStatusHandler(app.habits, app.templates, app.scheduler)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", h.Health)
	e.GET("/status", h.Status)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := e.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "status endpoint shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "status endpoint listening", "addr", app.config.StatusAddr)
	if err := e.Start(app.config.StatusAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "status endpoint failed", "error", err)
		cancelFunc()
	}
}

// Close releases the scheduler, the remote client and the local cache.
func (app *App) Close() {
	app.scheduler.Stop()
	if err := app.client.Close(); err != nil {
		app.logger.Error(context.Background(), "firestore close error", "error", err)
	}
	if err := app.stores.Close(); err != nil {
		app.logger.Error(context.Background(), "cache close error", "error", err)
	}
}
