// Package registry holds the compiler backends known to a compile request and classifies
// targets by the backends that apply to them.
package registry

import (
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

// Group is the work one backend receives for a build target.
type Group struct {
	Backend   ports.Backend
	FieldSets []domain.FieldSet
}

// Registry is an ordered, immutable list of backends.
type Registry struct {
	backends []ports.Backend
	byName   map[string]ports.Backend
}

// New creates a Registry. Backends keep the given order; names must be unique.
func New(backends ...ports.Backend) (*Registry, error) {
	r := &Registry{
		backends: make([]ports.Backend, 0, len(backends)),
		byName:   make(map[string]ports.Backend, len(backends)),
	}
	for _, b := range backends {
		name := b.Name()
		if _, ok := r.byName[name]; ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateBackend, name), "backend", name)
		}
		r.byName[name] = b
		r.backends = append(r.backends, b)
	}
	return r, nil
}

// Lookup returns the backend registered under name.
func (r *Registry) Lookup(name string) (ports.Backend, error) {
	b, ok := r.byName[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownBackend, name), "backend", name)
	}
	return b, nil
}

// Applicable returns the backends whose predicate matches target, in registration order.
func (r *Registry) Applicable(target *domain.Target) []ports.Backend {
	var out []ports.Backend
	for _, b := range r.backends {
		if b.Applicable(target) {
			out = append(out, b)
		}
	}
	return out
}

// Classify groups targets by applicable backend.
//
// Every (target, backend) pair whose predicate matches contributes the backend's field set for
// the target; equal field sets collapse into one. Groups follow registration order and only
// backends with at least one field set appear. Targets no backend applies to are dropped.
func (r *Registry) Classify(targets []*domain.Target) []Group {
	sets := make([]domain.FieldSets, len(r.backends))
	for _, t := range targets {
		for i, b := range r.backends {
			if b.Applicable(t) {
				sets[i].Add(b.Extract(t))
			}
		}
	}

	var groups []Group
	for i, b := range r.backends {
		if sets[i].Len() == 0 {
			continue
		}
		groups = append(groups, Group{Backend: b, FieldSets: sets[i].All()})
	}
	return groups
}
