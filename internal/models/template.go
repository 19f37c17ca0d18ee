package models

// HabitTemplate is a shared, remote-authoritative habit blueprint. Clients
// mirror templates read-only; they are never created, mutated or deleted
// locally.
type HabitTemplate struct {
	// ID is the remote document identifier.
	ID string `json:"-"`

	// Name is the mandatory display name. A template document without a name
	// is treated as absent by the mapping layer.
	Name string `json:"name"`

	Description string `json:"description"`

	// Category classifies the template; unknown values fall back to
	// CategoryOther.
	Category Category `json:"category"`

	Icon string `json:"icon"`

	SessionQty  int    `json:"sessionQty"`
	SessionUnit string `json:"sessionUnit"`

	RepeatPreset RepeatPreset `json:"repeatPreset"`

	PeriodQty  int    `json:"periodQty"`
	PeriodUnit string `json:"periodUnit"`

	Notif NotifConfig `json:"notif"`

	// Scheduled is the suggested initial reminder state when a habit is
	// created from this template.
	Scheduled bool `json:"scheduled"`
}

// NewHabit builds a draft Habit from the template. The returned habit has no
// identity and no creation instant yet; both are assigned on first persist.
func (t HabitTemplate) NewHabit() Habit {
	return Habit{
		Name:         t.Name,
		Description:  t.Description,
		Category:     t.Category,
		Icon:         t.Icon,
		SessionQty:   t.SessionQty,
		SessionUnit:  t.SessionUnit,
		RepeatPreset: t.RepeatPreset,
		PeriodQty:    t.PeriodQty,
		PeriodUnit:   t.PeriodUnit,
		Notif:        t.Notif,
		Scheduled:    t.Scheduled,
	}
}
