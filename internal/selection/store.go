// Package selection holds the shared selection and mode state written by UI
// controls and the picker and read by the camera controllers.
package selection

import "sync"

// State is a snapshot of the store.
type State struct {
	// SelectedID is the selected entity, empty when nothing is selected.
	SelectedID string
	FlightMode bool
}

// HasSelection reports whether an entity is selected.
func (s State) HasSelection() bool {
	return s.SelectedID != ""
}

// Store is the single shared selection instance. Writes are last-writer-wins.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates an empty store: nothing selected, flight mode off.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Select sets the selected entity. An empty id clears the selection.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedID = id
}

// Clear drops the selection.
func (s *Store) Clear() {
	s.Select("")
}

// SetFlightMode turns flight mode on or off.
func (s *Store) SetFlightMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FlightMode = on
}

// ToggleFlightMode flips flight mode and returns the new value.
func (s *Store) ToggleFlightMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FlightMode = !s.state.FlightMode
	return s.state.FlightMode
}
