// Package registry keeps track of declared generic constructs so a hosting
// checker (or the CLI) can address them by stable id across specialization
// steps. Constructs themselves are immutable; the registry only grows.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/typaram/internal/typaram"
	"github.com/funvibe/typaram/internal/typesystem"
)

// Registry is a read-mostly store of validated constructs. Safe for
// concurrent use: lookups take a read lock, declarations a write lock.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*typaram.Construct
	byName map[string]uuid.UUID
	oracle typesystem.Oracle
}

// New creates an empty registry. oracle may be nil.
func New(oracle typesystem.Oracle) *Registry {
	return &Registry{
		byID:   make(map[uuid.UUID]*typaram.Construct),
		byName: make(map[string]uuid.UUID),
		oracle: oracle,
	}
}

// Declare validates a parameter list and registers the resulting construct
// under a fresh id. Declaring a name twice is an error.
func (r *Registry) Declare(name string, params []*typaram.TypeParameter) (uuid.UUID, *typaram.Construct, error) {
	decls, err := typaram.Validate(params, r.oracle)
	if err != nil {
		return uuid.Nil, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return uuid.Nil, nil, fmt.Errorf("construct %s is already declared", name)
	}
	id := uuid.New()
	c := typaram.NewConstruct(name, decls)
	r.byID[id] = c
	r.byName[name] = id
	return id, c, nil
}

// Specialize fixes a prefix of an existing construct's open parameters and
// registers the derived construct under a fresh id and the given name.
func (r *Registry) Specialize(base uuid.UUID, name string, args []typesystem.Type) (uuid.UUID, *typaram.Construct, error) {
	r.mu.RLock()
	parent, ok := r.byID[base]
	r.mu.RUnlock()
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("unknown construct id %s", base)
	}

	derived, err := parent.Specialize(name, args)
	if err != nil {
		return uuid.Nil, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return uuid.Nil, nil, fmt.Errorf("construct %s is already declared", name)
	}
	id := uuid.New()
	r.byID[id] = derived
	r.byName[name] = id
	return id, derived, nil
}

// Lookup returns the construct registered under id.
func (r *Registry) Lookup(id uuid.UUID) (*typaram.Construct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// LookupName returns the construct registered under name, with its id.
func (r *Registry) LookupName(name string) (uuid.UUID, *typaram.Construct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return uuid.Nil, nil, false
	}
	return id, r.byID[id], true
}

// Len returns the number of registered constructs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
