package shopping

import (
	"strconv"
	"strings"
	"time"
)

// ManualItem is a freeform shopping item added outside the meal plan.
type ManualItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ManualStore keeps manually added items in insertion order.
type ManualStore struct {
	items  []ManualItem
	lastID int64
}

// NewManualStore creates an empty manual item store.
func NewManualStore() *ManualStore {
	return &ManualStore{}
}

// Restore replaces the item list with a previously persisted one and
// advances the id watermark past the highest restored id, so fresh ids
// cannot collide with items from before the restart.
func (s *ManualStore) Restore(items []ManualItem) {
	s.items = items
	for _, it := range items {
		if n, err := strconv.ParseInt(it.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
}

// Add appends a new item and returns its id. Blank-after-trim text is
// a silent no-op returning an empty id.
func (s *ManualStore) Add(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	id := s.freshID()
	s.items = append(s.items, ManualItem{ID: id, Text: text})
	return id
}

// freshID issues a millisecond-timestamp id. If the clock has not
// advanced past the previous id, the watermark is bumped instead, so
// ids never repeat within a process lifetime.
func (s *ManualStore) freshID() string {
	now := time.Now().UnixMilli()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return strconv.FormatInt(now, 10)
}

// Remove deletes the item with the given id; unknown ids are a no-op.
func (s *ManualStore) Remove(id string) {
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear drops all items.
func (s *ManualStore) Clear() {
	s.items = nil
}

// Items returns the live item list in insertion order.
func (s *ManualStore) Items() []ManualItem {
	return s.items
}
