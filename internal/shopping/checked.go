package shopping

// CheckedStore tracks which shopping-list identifiers are checked off.
// The map only ever holds true: presence means checked, absence means
// unchecked. Entries for identifiers whose underlying items have gone
// away are harmless and simply never looked up again.
type CheckedStore struct {
	checked map[string]bool
}

// NewCheckedStore creates an empty checked-state store.
func NewCheckedStore() *CheckedStore {
	return &CheckedStore{checked: make(map[string]bool)}
}

// Restore replaces the checked set with a previously persisted one,
// dropping any stored false values.
func (s *CheckedStore) Restore(state map[string]bool) {
	s.checked = make(map[string]bool, len(state))
	for id, v := range state {
		if v {
			s.checked[id] = true
		}
	}
}

// Toggle flips the checked state for an identifier. Checking sets the
// entry; unchecking deletes it.
func (s *CheckedStore) Toggle(id string) {
	if s.checked[id] {
		delete(s.checked, id)
	} else {
		s.checked[id] = true
	}
}

// IsChecked reports whether an identifier is checked off.
func (s *CheckedStore) IsChecked(id string) bool {
	return s.checked[id]
}

// Remove unchecks an identifier outright, used when a manual item is
// deleted and its derived identifier must not linger.
func (s *CheckedStore) Remove(id string) {
	delete(s.checked, id)
}

// Clear drops all checked state.
func (s *CheckedStore) Clear() {
	s.checked = make(map[string]bool)
}

// State returns the live sparse map for persistence.
func (s *CheckedStore) State() map[string]bool {
	return s.checked
}
