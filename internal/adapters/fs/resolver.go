package fs

import (
	"path/filepath"
	"slices"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver with filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands root-relative patterns into the sorted, de-duplicated set of matching
// paths, relative to root and slash separated. A pattern matching nothing is an error.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, input := range inputs {
		if filepath.IsAbs(input) || !filepath.IsLocal(filepath.Clean(input)) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, "pattern escapes the workspace"), "pattern", input)
		}
		pattern := filepath.Join(root, input)

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", input)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, input), "pattern", input)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", match)
			}
			unique[filepath.ToSlash(rel)] = struct{}{}
		}
	}

	result := make([]string, 0, len(unique))
	for p := range unique {
		result = append(result, p)
	}
	slices.Sort(result)
	return result, nil
}
