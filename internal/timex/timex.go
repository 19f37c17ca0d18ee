// Package timex provides time helpers shared by configuration loading.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so JSON configs can spell intervals either as
// strings accepted by time.ParseDuration ("30s", "1m") or as raw integer
// nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("failed to parse duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("unsupported duration value %v", v)
	}
	return nil
}
