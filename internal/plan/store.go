package plan

import (
	"sort"
	"strings"
)

// Store owns the live weekly plan. Reads never materialize entries;
// only a write inserts a day record into the map.
type Store struct {
	plan WeeklyPlan
}

// NewStore creates an empty plan store.
func NewStore() *Store {
	return &Store{plan: make(WeeklyPlan)}
}

// Restore replaces the live plan with a previously persisted one.
// A nil plan resets to empty.
func (s *Store) Restore(p WeeklyPlan) {
	if p == nil {
		p = make(WeeklyPlan)
	}
	s.plan = p
}

// Day returns the record stored under dateKey, or an all-empty default
// when the date was never written.
func (s *Store) Day(dateKey string) DayRecord {
	return s.plan[dateKey]
}

// SetMeal replaces a single (meal, field) leaf under dateKey, creating
// the day record on first write. Sibling fields, the other three
// slots, and every other day are untouched.
func (s *Store) SetMeal(dateKey string, meal MealType, field EntryField, value string) {
	day := s.plan[dateKey]
	entry := day.Entry(meal)
	if field == FieldNotes {
		entry.Notes = value
	} else {
		entry.Items = value
	}
	day.setEntry(meal, entry)
	s.plan[dateKey] = day
}

// Clear drops every day record.
func (s *Store) Clear() {
	s.plan = make(WeeklyPlan)
}

// Snapshot returns a deep copy of the live plan. Mutating the store
// afterwards does not affect the returned value.
func (s *Store) Snapshot() WeeklyPlan {
	return s.plan.Clone()
}

// DateKeys returns the written date keys in ascending order.
func (s *Store) DateKeys() []string {
	keys := make([]string, 0, len(s.plan))
	for k := range s.plan {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasContent reports whether any slot anywhere in the plan holds
// non-blank items or notes after trimming.
func (s *Store) HasContent() bool {
	return PlanHasContent(s.plan)
}

// PlanHasContent is the content check shared with archived snapshots.
func PlanHasContent(p WeeklyPlan) bool {
	for _, day := range p {
		for _, meal := range MealTypes {
			e := day.Entry(meal)
			if strings.TrimSpace(e.Items) != "" || strings.TrimSpace(e.Notes) != "" {
				return true
			}
		}
	}
	return false
}
