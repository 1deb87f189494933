// Package targets resolves build target identifiers against a loaded workspace.
package targets

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TargetResolver = (*Resolver)(nil)

// Resolver implements ports.TargetResolver over a domain.Workspace.
type Resolver struct {
	workspace *domain.Workspace
	inputs    ports.InputResolver
}

// NewResolver creates a Resolver for ws. Source patterns are expanded with inputs.
func NewResolver(ws *domain.Workspace, inputs ports.InputResolver) *Resolver {
	return &Resolver{workspace: ws, inputs: inputs}
}

// Resolve returns the build target named by id.
func (r *Resolver) Resolve(ctx context.Context, id domain.BuildTargetIdentifier) (*domain.BuildTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bt, ok := r.workspace.BuildTarget(id)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, id.URI), "target", id.URI)
	}
	return bt, nil
}

// Targets returns the concrete targets of bt with source patterns expanded to workspace files.
// The workspace targets are not modified.
func (r *Resolver) Targets(ctx context.Context, bt *domain.BuildTarget) ([]*domain.Target, error) {
	out := make([]*domain.Target, 0, len(bt.Addresses))
	for _, addr := range bt.Addresses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, ok := r.workspace.Target(addr)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, addr.String()), "address", addr.String())
		}

		sources, err := r.expandSources(t)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to expand sources"), "address", addr.String())
		}

		out = append(out, &domain.Target{
			Address:      t.Address,
			Kind:         t.Kind,
			Sources:      sources,
			Dependencies: slices.Clone(t.Dependencies),
			Attributes:   maps.Clone(t.Attributes),
		})
	}
	return out, nil
}

func (r *Resolver) expandSources(t *domain.Target) ([]domain.InternedString, error) {
	if len(t.Sources) == 0 {
		return nil, nil
	}
	patterns := make([]string, len(t.Sources))
	for i, s := range t.Sources {
		patterns[i] = s.String()
	}
	files, err := r.inputs.ResolveInputs(patterns, r.workspace.Root)
	if err != nil {
		return nil, err
	}
	return domain.NewInternedStrings(files), nil
}
