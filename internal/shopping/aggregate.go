package shopping

import (
	"fmt"
	"sort"
	"strings"

	"menu-planner/internal/plan"
)

// ListItem is one row of the derived shopping list.
type ListItem struct {
	// ID is stable across renders: it is derived from content and
	// location, never from a list index, so checked state survives
	// reordering and re-aggregation.
	ID       string
	Text     string
	IsManual bool
	// ManualID is the owning manual item's id when IsManual is set,
	// used for cascading removal.
	ManualID string
	Checked  bool
}

// MealItemID builds the identifier for a line extracted from a meal
// slot. Date and meal type are part of the key, so the same text on
// different days stays independently checkable.
func MealItemID(dateKey string, meal plan.MealType, line string) string {
	return fmt.Sprintf("meal-%s-%s-%s", dateKey, meal, line)
}

// ManualItemID builds the identifier for a manually added item. The
// fixed prefix keeps the manual namespace disjoint from meal-derived
// identifiers.
func ManualItemID(manualID string) string {
	return "manual-" + manualID
}

// Aggregate derives the shopping list from the weekly plan, the manual
// items, and the checked state. Manual items come first, then one
// entry per non-blank line of every meal slot across the whole plan
// (dates ascending, meals in slot order). The combined sequence is
// stably partitioned so unchecked entries precede checked ones.
// Nothing is cached; callers re-run this on every render.
func Aggregate(weekly plan.WeeklyPlan, manual []ManualItem, checked *CheckedStore) []ListItem {
	items := make([]ListItem, 0, len(manual))

	for _, m := range manual {
		id := ManualItemID(m.ID)
		items = append(items, ListItem{
			ID:       id,
			Text:     m.Text,
			IsManual: true,
			ManualID: m.ID,
			Checked:  checked.IsChecked(id),
		})
	}

	dateKeys := make([]string, 0, len(weekly))
	for k := range weekly {
		dateKeys = append(dateKeys, k)
	}
	sort.Strings(dateKeys)

	for _, dateKey := range dateKeys {
		day := weekly[dateKey]
		for _, meal := range plan.MealTypes {
			for _, raw := range strings.Split(day.Entry(meal).Items, "\n") {
				line := strings.TrimSpace(raw)
				if line == "" {
					continue
				}
				id := MealItemID(dateKey, meal, line)
				items = append(items, ListItem{
					ID:      id,
					Text:    line,
					Checked: checked.IsChecked(id),
				})
			}
		}
	}

	// Checked entries sink to the bottom; relative order within each
	// partition is preserved.
	sort.SliceStable(items, func(i, j int) bool {
		return !items[i].Checked && items[j].Checked
	})
	return items
}
