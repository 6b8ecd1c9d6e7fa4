package scene

import (
	"fmt"
	"sync"
)

// Source is the read side of the entity registry polled once per frame.
type Source interface {
	// Entities returns a snapshot of the active entities in insertion order.
	Entities() []*Entity
	// Entity looks up a single entity by id.
	Entity(id string) (*Entity, bool)
}

// Registry is an in-memory entity registry. Entities may be added and
// removed between frames; readers receive snapshots.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Entity
	order []string
}

var _ Source = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Entity),
	}
}

// Add registers an entity. IDs must be unique and non-empty.
func (r *Registry) Add(e *Entity) error {
	if e == nil || e.ID == "" {
		return fmt.Errorf("entity id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; exists {
		return fmt.Errorf("entity %q already registered", e.ID)
	}
	r.byID[e.ID] = e
	r.order = append(r.order, e.ID)
	return nil
}

// Remove drops an entity. Returns false if it was not registered.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Entity looks up an entity by id.
func (r *Registry) Entity(id string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

// Entities returns the registered entities in insertion order.
func (r *Registry) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Entity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Nth returns the n-th entity of kind k in insertion order, counting from 0.
func Nth(src Source, k Kind, n int) (*Entity, bool) {
	if n < 0 {
		return nil, false
	}
	for _, e := range src.Entities() {
		if e.Kind != k {
			continue
		}
		if n == 0 {
			return e, true
		}
		n--
	}
	return nil, false
}
