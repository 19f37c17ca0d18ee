package cache

import (
	"encoding/json"
	"fmt"
)

// Slice-valued notification fields are stored as JSON text columns. Empty
// sets are stored as "[]" and decode back to nil, matching the canonical
// entity form.

func encodeStrings(v []string) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode string column: %w", err)
	}
	return string(b), nil
}

func decodeStrings(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("failed to decode string column: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}

func encodeInts(v []int) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode int column: %w", err)
	}
	return string(b), nil
}

func decodeInts(s string) ([]int, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var v []int
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("failed to decode int column: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}
