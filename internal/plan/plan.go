package plan

import "time"

// MealType identifies one of the four slots in a day.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snack     MealType = "Snack"
)

// MealTypes lists the slots in display order. Every day record carries
// all four, so iteration over this slice covers a whole day.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// EntryField selects which half of a meal entry an edit targets.
type EntryField string

const (
	FieldItems EntryField = "items"
	FieldNotes EntryField = "notes"
)

// MealEntry holds the free-text content of one meal slot. Items is
// newline-delimited, one grocery-relevant line per row; Notes is
// unstructured (a recipe reference, prep reminders, anything).
type MealEntry struct {
	Items string `json:"items"`
	Notes string `json:"notes"`
}

// DayRecord is the plan for a single day. All four slots are always
// present; an untouched slot is the zero MealEntry, never missing.
type DayRecord struct {
	Breakfast MealEntry `json:"Breakfast"`
	Lunch     MealEntry `json:"Lunch"`
	Dinner    MealEntry `json:"Dinner"`
	Snack     MealEntry `json:"Snack"`
}

// Entry returns the slot for the given meal type.
func (d DayRecord) Entry(meal MealType) MealEntry {
	switch meal {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	default:
		return d.Snack
	}
}

func (d *DayRecord) setEntry(meal MealType, e MealEntry) {
	switch meal {
	case Breakfast:
		d.Breakfast = e
	case Lunch:
		d.Lunch = e
	case Dinner:
		d.Dinner = e
	case Snack:
		d.Snack = e
	}
}

// WeeklyPlan maps a date key (YYYY-MM-DD) to the day's record.
type WeeklyPlan map[string]DayRecord

// Clone returns a structurally independent copy of the plan. Day
// records contain only value types, so copying the map entries is a
// full deep copy.
func (p WeeklyPlan) Clone() WeeklyPlan {
	out := make(WeeklyPlan, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// dateKeyLayout is the canonical identity for a calendar day.
const dateKeyLayout = "2006-01-02"

// DateKey normalizes a time to its canonical YYYY-MM-DD key.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}
