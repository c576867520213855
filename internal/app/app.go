// Package app owns the live application state and routes every
// mutation through the stores, persisting after each committed change.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"menu-planner/internal/grocer"
	"menu-planner/internal/history"
	"menu-planner/internal/plan"
	"menu-planner/internal/shopping"
	"menu-planner/internal/storage"
)

// App holds the four live stores, the visible calendar window, and the
// external grocery-list adapter. A single mutex serializes all access:
// webhook deliveries each arrive on their own goroutine, and the
// grocery generation runs off the handler, so the stores cannot rely
// on a single-goroutine event loop.
type App struct {
	mu      sync.Mutex
	state   *storage.StateStore
	plans   *plan.Store
	manual  *shopping.ManualStore
	checked *shopping.CheckedStore
	archive *history.Log
	grocer  *grocer.Adapter

	window []time.Time
}

// NewApp creates an App with empty stores and a window anchored at
// now, matching a fresh launch before Load has run.
func NewApp(state *storage.StateStore, grocerAdapter *grocer.Adapter, now time.Time) *App {
	return &App{
		state:   state,
		plans:   plan.NewStore(),
		manual:  shopping.NewManualStore(),
		checked: shopping.NewCheckedStore(),
		archive: history.NewLog(),
		grocer:  grocerAdapter,
		window:  plan.Window(now),
	}
}

// Load restores all four stores from persistence. Each key is loaded
// independently: a corrupt value is logged and that store starts
// empty, without blocking the other three.
func (a *App) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var weekly plan.WeeklyPlan
	if loadKey(ctx, a.state, storage.KeyWeeklyPlan, &weekly) {
		a.plans.Restore(weekly)
	}

	var manual []shopping.ManualItem
	if loadKey(ctx, a.state, storage.KeyManualItems, &manual) {
		a.manual.Restore(manual)
	}

	var checked map[string]bool
	if loadKey(ctx, a.state, storage.KeyCheckedItems, &checked) {
		a.checked.Restore(checked)
	}

	var entries []history.Entry
	if loadKey(ctx, a.state, storage.KeyHistory, &entries) {
		a.archive.Restore(entries)
	}

	return nil
}

// loadKey reads and decodes one state key. It returns false when the
// key is absent or corrupt, leaving the target untouched.
func loadKey(ctx context.Context, state *storage.StateStore, key string, target any) bool {
	raw, err := state.Get(ctx, key)
	if err != nil {
		log.Printf("Failed to load %s, starting empty: %v", key, err)
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		log.Printf("Failed to parse %s, starting empty: %v", key, err)
		return false
	}
	return true
}

// Window returns the visible seven-day window.
func (a *App) Window() []time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window
}

// Day returns the record for a date key, defaulting to all-empty.
func (a *App) Day(dateKey string) plan.DayRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.plans.Day(dateKey)
}

// SetMeal updates one (date, meal, field) leaf and persists the plan.
func (a *App) SetMeal(ctx context.Context, dateKey string, meal plan.MealType, field plan.EntryField, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plans.SetMeal(dateKey, meal, field, value)
	return a.persistBatch(ctx, storage.KeyWeeklyPlan)
}

// AddManualItem appends a manual shopping item and persists. Blank
// text is a silent no-op returning an empty id.
func (a *App) AddManualItem(ctx context.Context, text string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.manual.Add(text)
	if id == "" {
		return "", nil
	}
	return id, a.persistBatch(ctx, storage.KeyManualItems)
}

// RemoveManualItem deletes a manual item and cascades the removal to
// its derived checked-state entry. Both keys commit together.
func (a *App) RemoveManualItem(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.manual.Remove(id)
	a.checked.Remove(shopping.ManualItemID(id))
	return a.persistBatch(ctx, storage.KeyManualItems, storage.KeyCheckedItems)
}

// ToggleChecked flips an item's checked state and persists.
func (a *App) ToggleChecked(ctx context.Context, itemID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checked.Toggle(itemID)
	return a.persistBatch(ctx, storage.KeyCheckedItems)
}

// IsChecked reports the checked state for a shopping-list identifier.
func (a *App) IsChecked(itemID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checked.IsChecked(itemID)
}

// ManualItems returns a copy of the manual items in insertion order.
// Callers hold the slice outside the lock, so it must not alias the
// store's backing array.
func (a *App) ManualItems() []shopping.ManualItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	items := a.manual.Items()
	out := make([]shopping.ManualItem, len(items))
	copy(out, items)
	return out
}

// ShoppingList derives the current list from the plan, the manual
// items, and the checked state. Recomputed on every call.
func (a *App) ShoppingList() []shopping.ListItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return shopping.Aggregate(a.plans.Snapshot(), a.manual.Items(), a.checked)
}

// History returns a copy of the archived weeks, most recent first.
func (a *App) History() []history.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := a.archive.Entries()
	out := make([]history.Entry, len(entries))
	copy(out, entries)
	return out
}

// StartNewCycle archives the current week when it has content, clears
// the three live stores, and advances the window to the next Sunday
// relative to now. All four state keys commit in one transaction so
// no render can observe a half-cleared week.
func (a *App) StartNewCycle(ctx context.Context, now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.plans.HasContent() && len(a.window) > 0 {
		a.archive.Archive(a.plans.Snapshot(), a.window[0], a.window[len(a.window)-1])
	}

	a.plans.Clear()
	a.manual.Clear()
	a.checked.Clear()
	a.window = plan.Window(plan.NextCycleStart(now))

	return a.persistBatch(ctx,
		storage.KeyWeeklyPlan,
		storage.KeyManualItems,
		storage.KeyCheckedItems,
		storage.KeyHistory,
	)
}

// GenerateGroceryList asks the external service for a consolidated,
// categorized list. The plan snapshot is taken under the lock, then
// the long-running request proceeds without it, so edits made while
// the service is thinking neither block nor race. The result never
// feeds back into the stores, so a late or discarded response cannot
// corrupt state.
func (a *App) GenerateGroceryList(ctx context.Context) grocer.Result {
	a.mu.Lock()
	snapshot := a.plans.Snapshot()
	a.mu.Unlock()

	return a.grocer.Generate(ctx, snapshot)
}

// persistBatch serializes the named stores and writes them in a single
// transaction. Callers must hold the mutex.
func (a *App) persistBatch(ctx context.Context, keys ...string) error {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		raw, err := a.marshalKey(key)
		if err != nil {
			return err
		}
		values[key] = raw
	}
	if len(keys) == 1 {
		return a.state.Set(ctx, keys[0], values[keys[0]])
	}
	return a.state.SetAll(ctx, values)
}

func (a *App) marshalKey(key string) ([]byte, error) {
	var value any
	switch key {
	case storage.KeyWeeklyPlan:
		value = a.plans.Snapshot()
	case storage.KeyManualItems:
		items := a.manual.Items()
		if items == nil {
			items = []shopping.ManualItem{}
		}
		value = items
	case storage.KeyCheckedItems:
		value = a.checked.State()
	case storage.KeyHistory:
		entries := a.archive.Entries()
		if entries == nil {
			entries = []history.Entry{}
		}
		value = entries
	default:
		return nil, fmt.Errorf("unknown state key %s", key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return raw, nil
}
