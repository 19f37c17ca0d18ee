// Package common defines shared sentinel errors used across the storage,
// synchronization and orchestration layers. Callers match them with
// errors.Is.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("remote unavailable")

	// Synchronization errors.
	ErrSyncRunning = errors.New("continuous sync already running")

	// ErrScheduleFailed marks a reminder-scheduling failure that happened
	// after the habit itself was persisted. The habit exists but is
	// unscheduled; the operation is safe to retry.
	ErrScheduleFailed = errors.New("schedule failed after persist")
)
