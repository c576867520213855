package shopping

import (
	"testing"

	"menu-planner/internal/plan"
)

func weeklyFixture() plan.WeeklyPlan {
	return plan.WeeklyPlan{
		"2025-04-06": {
			Breakfast: plan.MealEntry{Items: "eggs\n  toast  \n\n"},
			Dinner:    plan.MealEntry{Items: "pasta", Notes: "family favorite"},
		},
		"2025-04-07": {
			Lunch: plan.MealEntry{Items: "pasta"},
		},
	}
}

func TestAggregateOrderAndIDs(t *testing.T) {
	checked := NewCheckedStore()
	manual := []ManualItem{{ID: "1700000000000", Text: "Olive oil"}}

	items := Aggregate(weeklyFixture(), manual, checked)

	want := []struct {
		id   string
		text string
	}{
		{"manual-1700000000000", "Olive oil"},
		{"meal-2025-04-06-Breakfast-eggs", "eggs"},
		{"meal-2025-04-06-Breakfast-toast", "toast"},
		{"meal-2025-04-06-Dinner-pasta", "pasta"},
		{"meal-2025-04-07-Lunch-pasta", "pasta"},
	}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d: %+v", len(want), len(items), items)
	}
	for i, w := range want {
		if items[i].ID != w.id {
			t.Errorf("Item %d: expected id '%s', got '%s'", i, w.id, items[i].ID)
		}
		if items[i].Text != w.text {
			t.Errorf("Item %d: expected text '%s', got '%s'", i, w.text, items[i].Text)
		}
	}
	if !items[0].IsManual || items[0].ManualID != "1700000000000" {
		t.Errorf("Manual item not flagged correctly: %+v", items[0])
	}
}

func TestAggregateDuplicatesStayDistinct(t *testing.T) {
	// "pasta" appears on two different days; each occurrence gets its
	// own identifier and is independently checkable.
	checked := NewCheckedStore()
	checked.Toggle("meal-2025-04-06-Dinner-pasta")

	items := Aggregate(weeklyFixture(), nil, checked)

	var checkedCount int
	for _, it := range items {
		if it.Text == "pasta" && it.Checked {
			checkedCount++
		}
	}
	if checkedCount != 1 {
		t.Errorf("Expected exactly one checked pasta occurrence, got %d", checkedCount)
	}
}

func TestAggregateStablePartition(t *testing.T) {
	weekly := plan.WeeklyPlan{
		"2025-04-06": {
			Breakfast: plan.MealEntry{Items: "A\nB\nC"},
		},
	}
	checked := NewCheckedStore()
	checked.Toggle(MealItemID("2025-04-06", plan.Breakfast, "B"))

	items := Aggregate(weekly, nil, checked)

	got := []string{items[0].Text, items[1].Text, items[2].Text}
	if got[0] != "A" || got[1] != "C" || got[2] != "B" {
		t.Errorf("Expected order [A C B], got %v", got)
	}
	if items[2].Checked != true {
		t.Error("Checked item lost its state during partition")
	}
}

func TestAggregateIDDeterminism(t *testing.T) {
	checked := NewCheckedStore()
	first := Aggregate(weeklyFixture(), nil, checked)

	// Unrelated store churn between runs must not change identifiers.
	checked.Toggle("manual-unrelated")
	second := Aggregate(weeklyFixture(), nil, checked)

	if len(first) != len(second) {
		t.Fatalf("Run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Item %d id changed between runs: '%s' vs '%s'", i, first[i].ID, second[i].ID)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	items := Aggregate(plan.WeeklyPlan{}, nil, NewCheckedStore())
	if len(items) != 0 {
		t.Errorf("Expected empty list, got %+v", items)
	}
}
