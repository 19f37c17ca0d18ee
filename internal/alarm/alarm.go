// Package alarm abstracts exact-time reminder scheduling. The orchestration
// layer consumes the Scheduler interface; TimerScheduler is the in-process
// implementation the daemon runs with.
package alarm

import (
	"context"

	"github.com/dkarlovs/habitsync/internal/models"
)

// Scheduler registers and cancels exact-time reminders keyed by habit id.
type Scheduler interface {
	// Schedule arms a reminder for h.NextTrigger. Re-registering an id
	// replaces any prior registration for that id.
	Schedule(ctx context.Context, h models.Habit) error

	// Cancel removes any pending reminder for id. Cancelling an id without
	// a registration is a no-op, not an error.
	Cancel(ctx context.Context, id string) error
}
