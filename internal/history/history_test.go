package history

import (
	"fmt"
	"testing"
	"time"

	"menu-planner/internal/plan"
)

func TestArchiveBound(t *testing.T) {
	log := NewLog()
	start := time.Date(2025, 4, 6, 0, 0, 0, 0, time.Local)

	for i := 0; i < 5; i++ {
		weekly := plan.WeeklyPlan{
			plan.DateKey(start.AddDate(0, 0, i*7)): {
				Dinner: plan.MealEntry{Items: fmt.Sprintf("week %d", i)},
			},
		}
		log.Archive(weekly, start.AddDate(0, 0, i*7), start.AddDate(0, 0, i*7+6))
	}

	entries := log.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("Expected %d entries, got %d", MaxEntries, len(entries))
	}

	// Most recent first; week 0 evicted.
	wantStart := start.AddDate(0, 0, 4*7).Format(time.RFC3339)
	if entries[0].StartDate != wantStart {
		t.Errorf("Expected newest entry first (%s), got %s", wantStart, entries[0].StartDate)
	}
	for _, e := range entries {
		if e.StartDate == start.Format(time.RFC3339) {
			t.Error("Oldest entry was not evicted")
		}
	}
}

func TestArchiveSnapshotIsDeep(t *testing.T) {
	log := NewLog()
	weekly := plan.WeeklyPlan{
		"2025-04-06": {Lunch: plan.MealEntry{Items: "soup"}},
	}

	start := time.Date(2025, 4, 6, 0, 0, 0, 0, time.Local)
	entry := log.Archive(weekly, start, start.AddDate(0, 0, 6))

	// Mutate the live plan after archiving.
	day := weekly["2025-04-06"]
	day.Lunch.Items = "salad"
	weekly["2025-04-06"] = day

	if entry.Plan["2025-04-06"].Lunch.Items != "soup" {
		t.Errorf("Archived snapshot changed with live plan: %+v", entry.Plan)
	}
}

func TestArchiveIDsUnique(t *testing.T) {
	log := NewLog()
	start := time.Date(2025, 4, 6, 0, 0, 0, 0, time.Local)

	a := log.Archive(plan.WeeklyPlan{}, start, start.AddDate(0, 0, 6))
	b := log.Archive(plan.WeeklyPlan{}, start, start.AddDate(0, 0, 6))
	if a.ID == b.ID {
		t.Errorf("Consecutive archive entries share id %s", a.ID)
	}
}

func TestRestoreReappliesBound(t *testing.T) {
	oversized := make([]Entry, 6)
	for i := range oversized {
		oversized[i] = Entry{ID: fmt.Sprintf("%d", i)}
	}

	log := NewLog()
	log.Restore(oversized)
	if len(log.Entries()) != MaxEntries {
		t.Errorf("Expected restore to truncate to %d, got %d", MaxEntries, len(log.Entries()))
	}
}
