// Package handlers contains the HTTP handlers of the daemon's status
// endpoint: a liveness probe and a JSON snapshot of the sync state.
package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkarlovs/habitsync/internal/repo"
)

// ReminderLister reports which habit reminders are currently armed.
type ReminderLister interface {
	Pending() []string
}

type StatusHandler struct {
	habits    repo.HabitRepository
	templates repo.TemplateRepository
	reminders ReminderLister
	started   time.Time
}

func NewStatusHandler(habits repo.HabitRepository, templates repo.TemplateRepository, reminders ReminderLister) *StatusHandler {
	return &StatusHandler{
		habits:    habits,
		templates: templates,
		reminders: reminders,
		started:   time.Now(),
	}
}

// familyStatus summarizes one synced entity family.
type familyStatus struct {
	Cached      int        `json:"cached"`
	Dropped     int64      `json:"dropped"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
}

type statusResponse struct {
	Uptime    string       `json:"uptime"`
	Habits    familyStatus `json:"habits"`
	Templates familyStatus `json:"templates"`
	Reminders []string     `json:"reminders"`
}

func (h *StatusHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StatusHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	resp := statusResponse{
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Reminders: h.reminders.Pending(),
	}

	habits, err := h.habits.GetAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp.Habits = familyStatus{Cached: len(habits), Dropped: h.habits.DroppedCount()}
	if at, ok, err := h.habits.LastRefresh(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	} else if ok {
		resp.Habits.LastRefresh = &at
	}

	templates, err := h.templates.GetAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp.Templates = familyStatus{Cached: len(templates), Dropped: h.templates.DroppedCount()}
	if at, ok, err := h.templates.LastRefresh(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	} else if ok {
		resp.Templates.LastRefresh = &at
	}

	return c.JSON(http.StatusOK, resp)
}
