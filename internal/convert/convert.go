// Package convert maps domain entities to and from their remote document
// representation: a nested field map holding only primitive values (string,
// integer, float, bool, map, list, nil).
//
// The two instant fields of a habit are special-cased at this boundary: they
// always travel as integer epoch milliseconds, never as structured timestamp
// values, so documents stay diff-friendly across clients with different
// library versions. Everything else goes through generic JSON-shaped
// (de)serialization.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dkarlovs/habitsync/internal/models"
)

// ErrMissingName marks a template document without the mandatory name field.
var ErrMissingName = errors.New("document missing name")

// Remote field keys handled outside generic (de)serialization.
const (
	keyCreatedAt   = "createdAt"
	keyNextTrigger = "nextTrigger"
	keyNotif       = "notif"

	keyWeekDays       = "daysOfWeek"
	legacyKeyWeekDays = "weekDays"

	keyAdvanceMin       = "advanceMin"
	legacyKeyAdvanceMin = "advanceMinutes"
)

// HabitToDocument serializes h into its remote field map. The instant fields
// are overwritten with raw epoch-millisecond integers (nextTrigger with nil
// when no reminder is pending) after the generic pass.
func HabitToDocument(h models.Habit) (map[string]any, error) {
	fields, err := toFields(h)
	if err != nil {
		return nil, fmt.Errorf("serialize habit: %w", err)
	}

	fields[keyCreatedAt] = h.CreatedAt.UnixMilli()
	if h.NextTrigger != nil {
		fields[keyNextTrigger] = h.NextTrigger.UnixMilli()
	} else {
		fields[keyNextTrigger] = nil
	}
	return fields, nil
}

// HabitFromDocument rebuilds a habit from a raw remote field map. Identity
// and the two instants are taken from the id argument and the raw integer
// fields; when an instant is not present as an integer, whatever the generic
// pass decoded (or the zero value) stands.
func HabitFromDocument(id string, fields map[string]any) (models.Habit, error) {
	var h models.Habit
	if err := fromFields(prepareFields(fields), &h); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, err)
	}

	h.ID = id
	if ms, ok := epochMillis(fields[keyCreatedAt]); ok {
		h.CreatedAt = time.UnixMilli(ms).UTC()
	} else {
		h.CreatedAt = h.CreatedAt.UTC()
	}
	if ms, ok := epochMillis(fields[keyNextTrigger]); ok {
		tt := time.UnixMilli(ms).UTC()
		h.NextTrigger = &tt
	} else if h.NextTrigger != nil {
		tt := h.NextTrigger.UTC()
		h.NextTrigger = &tt
	}

	h.Category = models.ParseCategory(string(h.Category))
	h.Notif = normalizeNotif(h.Notif)
	return h, nil
}

// TemplateFromDocument rebuilds a template from a raw remote field map. A
// document without a usable name, or whose fields do not fit the template
// shape, yields an error; callers drop such documents instead of surfacing
// corrupt entities.
func TemplateFromDocument(id string, fields map[string]any) (*models.HabitTemplate, error) {
	var t models.HabitTemplate
	if err := fromFields(prepareFields(fields), &t); err != nil {
		return nil, fmt.Errorf("template %s: %w", id, err)
	}
	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("template %s: %w", id, ErrMissingName)
	}

	t.ID = id
	t.Category = models.ParseCategory(string(t.Category))
	t.Notif = normalizeNotif(t.Notif)
	return &t, nil
}

// toFields serializes v into a primitive tree via JSON. The intermediate
// encoding guarantees only store-safe value kinds survive.
func toFields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// fromFields decodes a primitive tree into out via JSON. Values the store
// SDK materializes as rich types (time.Time and friends) reduce to their
// JSON form first, so foreign documents still decode.
func fromFields(fields map[string]any, out any) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// prepareFields returns a copy of fields ready for generic decoding: legacy
// notification keys are folded onto their current names, and instant fields
// already present as raw integers are removed (they are applied out of band).
// The input map is never mutated.
func prepareFields(fields map[string]any) map[string]any {
	prepared := make(map[string]any, len(fields))
	for k, v := range fields {
		prepared[k] = v
	}

	if _, ok := epochMillis(prepared[keyCreatedAt]); ok {
		delete(prepared, keyCreatedAt)
	}
	if _, ok := epochMillis(prepared[keyNextTrigger]); ok {
		delete(prepared, keyNextTrigger)
	}

	notif, ok := prepared[keyNotif].(map[string]any)
	if !ok {
		return prepared
	}

	patched := make(map[string]any, len(notif))
	for k, v := range notif {
		patched[k] = v
	}
	if _, ok := patched[keyWeekDays]; !ok {
		if legacy, ok := patched[legacyKeyWeekDays]; ok {
			patched[keyWeekDays] = legacy
		}
	}
	if _, ok := patched[keyAdvanceMin]; !ok {
		if legacy, ok := patched[legacyKeyAdvanceMin]; ok {
			patched[keyAdvanceMin] = legacy
		}
	}
	delete(patched, legacyKeyWeekDays)
	delete(patched, legacyKeyAdvanceMin)
	prepared[keyNotif] = patched

	return prepared
}

// epochMillis reports whether v is an integer-shaped epoch-millisecond value
// and returns it as int64.
func epochMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		ms, err := n.Int64()
		return ms, err == nil
	default:
		return 0, false
	}
}

// normalizeNotif applies set semantics to the slice-valued fields and the
// lenient fallback to the mode enumeration.
func normalizeNotif(n models.NotifConfig) models.NotifConfig {
	n.Mode = models.ParseNotifMode(string(n.Mode))
	n.TimesOfDay = dedupeStrings(n.TimesOfDay)
	n.WeekDays = dedupeInts(n.WeekDays)
	return n
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func dedupeInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, d := range in {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
