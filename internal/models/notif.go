package models

import "strings"

// NotifMode selects how a reminder presents itself on the device.
type NotifMode string

const (
	NotifModeSilent  NotifMode = "SILENT"
	NotifModeSound   NotifMode = "SOUND"
	NotifModeVibrate NotifMode = "VIBRATE"
)

// ParseNotifMode maps a raw string onto a NotifMode. Unknown or empty values
// fall back to NotifModeSilent; the function never fails.
func ParseNotifMode(s string) NotifMode {
	switch NotifMode(strings.ToUpper(strings.TrimSpace(s))) {
	case NotifModeSound:
		return NotifModeSound
	case NotifModeVibrate:
		return NotifModeVibrate
	default:
		return NotifModeSilent
	}
}

// NotifConfig is the reminder configuration embedded in habits and templates.
// It is a value object: it has no identity and no lifecycle of its own.
type NotifConfig struct {
	Enabled bool      `json:"enabled"`
	Mode    NotifMode `json:"mode"`
	Message string    `json:"message"`

	// TimesOfDay holds "HH:MM" strings; treated as a set.
	TimesOfDay []string `json:"timesOfDay"`

	// WeekDays holds ISO weekday numbers (1=Monday … 7=Sunday); treated as a
	// set. An empty set means the reminder applies to no particular day.
	WeekDays []int `json:"daysOfWeek"`

	// AdvanceMin shifts the reminder this many minutes before the target time.
	AdvanceMin int `json:"advanceMin"`

	Vibrate bool `json:"vibrate"`
}
