package models

import "strings"

// Category is the closed habit classification enumeration.
type Category string

const (
	CategoryHealth       Category = "HEALTH"
	CategoryFitness      Category = "FITNESS"
	CategoryNutrition    Category = "NUTRITION"
	CategoryMindfulness  Category = "MINDFULNESS"
	CategoryProductivity Category = "PRODUCTIVITY"
	CategorySleep        Category = "SLEEP"
	CategorySocial       Category = "SOCIAL"
	CategoryOther        Category = "OTHER"
)

// ParseCategory maps a raw string onto a Category. Unknown or empty values
// fall back to CategoryOther; the function never fails.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryHealth, CategoryFitness, CategoryNutrition, CategoryMindfulness,
		CategoryProductivity, CategorySleep, CategorySocial, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

// RepeatPreset selects the repetition rhythm of a habit. The vocabulary is
// open; the constants below cover the presets the app ships with.
type RepeatPreset string

const (
	RepeatDaily    RepeatPreset = "DAILY"
	RepeatWeekdays RepeatPreset = "WEEKDAYS"
	RepeatWeekends RepeatPreset = "WEEKENDS"
	RepeatWeekly   RepeatPreset = "WEEKLY"
	RepeatCustom   RepeatPreset = "CUSTOM"
)
