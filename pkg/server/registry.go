package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/store"
)

// Entry is a registered grid.
type Entry struct {
	Definition *grid.Definition
	Source     store.Source
}

// Registry holds the grids the server can render. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	base    export.Options
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		logger:  slog.Default().With("component", "registry"),
	}
}

// Load replaces the registered grids and export options with those of cfg.
// Nothing changes when any grid is invalid.
func (r *Registry) Load(cfg *config.Config) error {
	entries := make(map[string]*Entry, len(cfg.Grids))
	var errs []error
	for i := range cfg.Grids {
		g := &cfg.Grids[i]
		if _, dup := entries[g.ID]; dup {
			errs = append(errs, fmt.Errorf("grid %q: duplicate id", g.ID))
			continue
		}
		def := cfg.Definition(g)
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		source := g.Source()
		if err := source.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("grid %q: %w", g.ID, err))
			continue
		}
		entries[g.ID] = &Entry{Definition: def, Source: source}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.base = cfg.Export.ExportOptions()
	r.mu.Unlock()

	r.logger.Info("grids loaded", "count", len(entries))
	return nil
}

// Get returns the grid with the given id.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Count returns the number of registered grids.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the registered grid IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExportOptions returns the process-wide export options.
func (r *Registry) ExportOptions() export.Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.base
}
