package app

import (
	"sync"

	"github.com/etudehq/etude/internal/score"
)

// Registry maps document ids to open apps. Hosts embedding several
// editors pass the registry around explicitly; there is no package
// global.
type Registry struct {
	mu   sync.Mutex
	apps map[string]*App
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{apps: make(map[string]*App)}
}

// Add registers an app, generating an id when none is given, and
// returns the id.
func (r *Registry) Add(id string, a *App) string {
	if id == "" {
		id = score.NewID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[id] = a
	return id
}

// Get returns the app for the id.
func (r *Registry) Get(id string) (*App, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	return a, ok
}

// Remove drops the id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, id)
}

// IDs lists the registered ids.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.apps))
	for id := range r.apps {
		ids = append(ids, id)
	}
	return ids
}
