// Package services holds the orchestration layer between callers and the
// synchronization tiers. The habit service couples the persistence path with
// the reminder scheduler so the two side effects always run in a fixed order.
package services

import (
	"context"
	"fmt"

	"github.com/dkarlovs/habitsync/internal/alarm"
	"github.com/dkarlovs/habitsync/internal/common"
	"github.com/dkarlovs/habitsync/internal/logging"
	"github.com/dkarlovs/habitsync/internal/models"
	"github.com/dkarlovs/habitsync/internal/repo"
)

// HabitService coordinates habit persistence with reminder scheduling.
//
// Persistence and scheduling are sequential, never transactional: when the
// scheduler fails after a successful persist the habit exists unscheduled,
// the error wraps common.ErrScheduleFailed, and Add still returns the
// persisted copy so the caller can retry scheduling alone.
type HabitService interface {
	// Add persists a draft habit and, when the persisted copy carries a
	// trigger instant, arms its reminder.
	Add(ctx context.Context, h models.Habit) (models.Habit, error)

	// AddFromTemplate builds a draft from a cached template and persists it
	// through Add. Returns common.ErrNotFound when the template is not
	// cached.
	AddFromTemplate(ctx context.Context, templateID string) (models.Habit, error)

	// Update persists the full replacement, cancels any existing reminder
	// for the id, and re-arms one when the trigger instant is set.
	Update(ctx context.Context, h models.Habit) error

	// Delete removes the habit from both storage tiers and cancels its
	// reminder.
	Delete(ctx context.Context, id string) error
}

type habitService struct {
	habits    repo.HabitRepository
	templates repo.TemplateRepository
	scheduler alarm.Scheduler
	logger    logging.Logger
}

// NewHabitService wires the orchestration service from its collaborators.
func NewHabitService(habits repo.HabitRepository, templates repo.TemplateRepository, scheduler alarm.Scheduler, logger logging.Logger) HabitService {
	return &habitService{habits: habits, templates: templates, scheduler: scheduler, logger: logger}
}

func (s *habitService) Add(ctx context.Context, h models.Habit) (models.Habit, error) {
	saved, err := s.habits.Save(ctx, h)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}

	if saved.NextTrigger == nil {
		return saved, nil
	}

	if err := s.scheduler.Schedule(ctx, saved); err != nil {
		s.logger.Error(ctx, "habit persisted but reminder not armed", "id", saved.ID, "error", err)
		return saved, fmt.Errorf("%w: %s", common.ErrScheduleFailed, err)
	}
	return saved, nil
}

func (s *habitService) AddFromTemplate(ctx context.Context, templateID string) (models.Habit, error) {
	templates, err := s.templates.GetAll(ctx)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load templates: %w", err)
	}

	for _, tpl := range templates {
		if tpl.ID == templateID {
			return s.Add(ctx, tpl.NewHabit())
		}
	}
	return models.Habit{}, fmt.Errorf("template %s: %w", templateID, common.ErrNotFound)
}

func (s *habitService) Update(ctx context.Context, h models.Habit) error {
	if err := s.habits.Update(ctx, h); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	// Cancel unconditionally before re-arming so no stale reminder survives
	// an edit, whatever the previous trigger was.
	if err := s.scheduler.Cancel(ctx, h.ID); err != nil {
		s.logger.Error(ctx, "habit updated but old reminder not cancelled", "id", h.ID, "error", err)
		return fmt.Errorf("%w: %s", common.ErrScheduleFailed, err)
	}

	if h.NextTrigger == nil {
		return nil
	}
	if err := s.scheduler.Schedule(ctx, h); err != nil {
		s.logger.Error(ctx, "habit updated but reminder not armed", "id", h.ID, "error", err)
		return fmt.Errorf("%w: %s", common.ErrScheduleFailed, err)
	}
	return nil
}

func (s *habitService) Delete(ctx context.Context, id string) error {
	if err := s.habits.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := s.scheduler.Cancel(ctx, id); err != nil {
		s.logger.Error(ctx, "habit deleted but reminder not cancelled", "id", id, "error", err)
		return fmt.Errorf("%w: %s", common.ErrScheduleFailed, err)
	}
	return nil
}
