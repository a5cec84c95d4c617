// Package store implements the named key-value stores that persist
// application state under <data>/stores.
package store

import (
	"sort"
	"sync"
)

// Store is one named state store. Clear empties the in-memory view; Save
// persists the current view to disk. The two are independently failable so
// the reset path can report them separately.
type Store interface {
	Name() string
	Clear()
	Save() error
}

// Registry maps store names to open stores.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]Store)}
}

func (r *Registry) Register(s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[s.Name()] = s
}

func (r *Registry) Get(name string) (Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[name]
	return s, ok
}

// Names returns registered store names, sorted for stable iteration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
