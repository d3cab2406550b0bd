package source

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available catalogs, keyed by provenance tag
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog
}

// NewRegistry creates a new catalog registry
func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[string]Catalog),
	}
}

// Register adds a catalog to the registry
func (r *Registry) Register(catalog Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[catalog.ID()] = catalog
}

// Get retrieves a catalog by provenance tag
func (r *Registry) Get(id string) (Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog, ok := r.catalogs[id]
	if !ok {
		return nil, fmt.Errorf("catalog not found: %s", id)
	}
	return catalog, nil
}

// List returns all registered catalogs sorted by ID
func (r *Registry) List() []Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalogs := make([]Catalog, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		catalogs = append(catalogs, c)
	}
	sort.Slice(catalogs, func(i, j int) bool {
		return catalogs[i].ID() < catalogs[j].ID()
	})
	return catalogs
}
