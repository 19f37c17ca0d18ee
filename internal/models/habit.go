// Package models defines the domain entities of the habit tracker:
// habits owned by a single user, shared read-only habit templates, and the
// notification configuration embedded in both.
package models

import "time"

// Habit is a user-owned, mutable habit definition. It mirrors a remote
// document and a local cache row one-to-one.
type Habit struct {
	// ID is the remote document identifier. It is empty until the habit has
	// been persisted for the first time.
	ID string `json:"-"`

	// Name is the short display name. Required.
	Name string `json:"name"`

	// Description is free-form explanatory text.
	Description string `json:"description"`

	// Category classifies the habit; unknown values fall back to CategoryOther.
	Category Category `json:"category"`

	// Icon references a bundled icon asset by name.
	Icon string `json:"icon"`

	// SessionQty and SessionUnit describe a single session target,
	// e.g. 8 GLASSES or 30 MINUTES.
	SessionQty  int    `json:"sessionQty"`
	SessionUnit string `json:"sessionUnit"`

	// RepeatPreset selects the repetition rhythm.
	RepeatPreset RepeatPreset `json:"repeatPreset"`

	// PeriodQty and PeriodUnit describe the total tracked period.
	PeriodQty  int    `json:"periodQty"`
	PeriodUnit string `json:"periodUnit"`

	// Notif holds the embedded reminder configuration.
	Notif NotifConfig `json:"notif"`

	// Scheduled reports whether reminders are currently armed for this habit.
	Scheduled bool `json:"scheduled"`

	// CreatedAt is the creation instant. It travels across the storage
	// boundary as integer epoch milliseconds, never as a structured
	// timestamp, and is normalized to UTC on the way in.
	CreatedAt time.Time `json:"createdAt"`

	// NextTrigger is the next reminder instant, nil when no reminder is
	// pending. Same transport rules as CreatedAt.
	NextTrigger *time.Time `json:"nextTrigger"`
}
