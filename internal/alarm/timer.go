package alarm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkarlovs/habitsync/internal/logging"
	"github.com/dkarlovs/habitsync/internal/models"
)

// TimerScheduler keeps one timer per habit id and invokes the fire callback
// when a reminder goes off. Triggers already in the past fire immediately.
type TimerScheduler struct {
	logger logging.Logger
	fire   func(models.Habit)

	mu      sync.Mutex
	pending map[string]*reminder
}

// reminder is the registration token for one armed timer. A firing that lost
// a race against Cancel or a replacing Schedule finds the map pointing at a
// different token and drops itself.
type reminder struct {
	timer *time.Timer
}

var _ Scheduler = (*TimerScheduler)(nil)

// NewTimerScheduler returns a scheduler delivering reminders to fire. A nil
// fire callback discards them.
func NewTimerScheduler(logger logging.Logger, fire func(models.Habit)) *TimerScheduler {
	return &TimerScheduler{
		logger:  logger,
		fire:    fire,
		pending: make(map[string]*reminder),
	}
}

func (s *TimerScheduler) Schedule(ctx context.Context, h models.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("cannot schedule reminder for habit without id")
	}
	if h.NextTrigger == nil {
		return fmt.Errorf("habit %s has no trigger instant", h.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[h.ID]; ok {
		old.timer.Stop()
	}

	wait := time.Until(*h.NextTrigger)
	if wait < 0 {
		wait = 0
	}
	r := &reminder{}
	r.timer = time.AfterFunc(wait, func() { s.pop(h, r) })
	s.pending[h.ID] = r

	s.logger.Debug(ctx, "reminder armed", "id", h.ID, "at", h.NextTrigger)
	return nil
}

func (s *TimerScheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.pending[id]; ok {
		r.timer.Stop()
		delete(s.pending, id)
		s.logger.Debug(ctx, "reminder cancelled", "id", id)
	}
	return nil
}

// Pending returns the ids with an armed reminder, sorted.
func (s *TimerScheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels every armed reminder. Used on shutdown.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.pending {
		r.timer.Stop()
		delete(s.pending, id)
	}
}

// pop delivers a fired reminder unless its registration has been superseded.
func (s *TimerScheduler) pop(h models.Habit, r *reminder) {
	s.mu.Lock()
	if s.pending[h.ID] != r {
		s.mu.Unlock()
		return
	}
	delete(s.pending, h.ID)
	s.mu.Unlock()

	if s.fire != nil {
		s.fire(h)
	}
}
