package shopping

import "testing"

func TestManualStoreAdd(t *testing.T) {
	store := NewManualStore()

	id := store.Add("Milk")
	if id == "" {
		t.Fatal("Expected a non-empty id")
	}
	if len(store.Items()) != 1 || store.Items()[0].Text != "Milk" {
		t.Errorf("Expected one item 'Milk', got %+v", store.Items())
	}

	t.Run("BlankIsNoOp", func(t *testing.T) {
		if got := store.Add("   "); got != "" {
			t.Errorf("Expected empty id for blank text, got '%s'", got)
		}
		if len(store.Items()) != 1 {
			t.Errorf("Blank add mutated the store: %+v", store.Items())
		}
	})
}

func TestManualStoreFreshIDsNeverRepeat(t *testing.T) {
	store := NewManualStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.Add("item")
		if seen[id] {
			t.Fatalf("Duplicate id issued: %s", id)
		}
		seen[id] = true
	}
}

func TestManualStoreRemove(t *testing.T) {
	store := NewManualStore()
	a := store.Add("Bread")
	b := store.Add("Butter")

	store.Remove(a)
	items := store.Items()
	if len(items) != 1 || items[0].ID != b {
		t.Errorf("Expected only '%s' left, got %+v", b, items)
	}

	// Unknown id is a no-op, not an error.
	store.Remove("no-such-id")
	if len(store.Items()) != 1 {
		t.Errorf("Remove of unknown id mutated the store: %+v", store.Items())
	}
}

func TestManualStoreRestoreAdvancesWatermark(t *testing.T) {
	store := NewManualStore()
	store.Restore([]ManualItem{{ID: "99999999999999", Text: "old"}})

	id := store.Add("new")
	if id == "99999999999999" {
		t.Error("Fresh id collided with a restored id")
	}
	if len(store.Items()) != 2 {
		t.Errorf("Expected 2 items after restore+add, got %d", len(store.Items()))
	}
}
