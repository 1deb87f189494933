// Package config provides the configuration loader for bsp.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a bsp.yaml file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds bsp.yaml in cwd or one of its parents and builds the workspace it describes.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	path, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	file, err := readAndUnmarshalYAML[Bspfile](path)
	if err != nil {
		return nil, err
	}

	ws, err := buildWorkspace(filepath.Dir(path), file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid configuration"), "config", path)
	}

	l.warnUnusedBackends(ws)
	return ws, nil
}

// findConfiguration searches upwards from cwd for the configuration file.
func findConfiguration(cwd string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "reached filesystem root"), "cwd", cwd)
		}
		dir = parent
	}
}

func readAndUnmarshalYAML[T any](path string) (*T, error) {
	//nolint:gosec // path is discovered from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrConfigReadFailed, zerr.With(err, "path", path))
	}

	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", path))
	}
	return &out, nil
}

func buildWorkspace(root string, file *Bspfile) (*domain.Workspace, error) {
	if file.Version == "" {
		return nil, domain.ErrMissingVersion
	}

	ws := domain.NewWorkspace(root)
	if file.Output != "" {
		if !filepath.IsLocal(file.Output) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOutputPath, "output must be workspace relative"),
				"output", file.Output)
		}
		ws.OutputPrefix = filepath.Clean(file.Output)
	}

	for _, name := range slices.Sorted(maps.Keys(file.Backends)) {
		spec, err := buildBackend(name, file.Backends[name])
		if err != nil {
			return nil, err
		}
		ws.Backends = append(ws.Backends, spec)
	}

	for addr, dto := range file.Targets {
		if dto.Kind == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTarget, "missing kind"), "target", addr)
		}
		for _, dep := range dto.Dependencies {
			if _, ok := file.Targets[dep]; !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidTarget, "unknown dependency"),
					"target", addr), "dependency", dep)
			}
		}
		address := domain.NewInternedString(addr)
		ws.Targets[address] = &domain.Target{
			Address:      address,
			Kind:         domain.NewInternedString(dto.Kind),
			Sources:      canonicalizeStrings(dto.Sources),
			Dependencies: canonicalizeStrings(dto.Dependencies),
			Attributes:   maps.Clone(dto.Attributes),
		}
	}

	for uri, dto := range file.BuildTargets {
		if len(dto.Targets) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTarget, "build target has no targets"), "build_target", uri)
		}
		for _, addr := range dto.Targets {
			if _, ok := file.Targets[addr]; !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrTargetNotFound, addr),
					"build_target", uri), "target", addr)
			}
		}
		name := dto.DisplayName
		if name == "" {
			name = uri
		}
		id := domain.BuildTargetIdentifier{URI: uri}
		ws.BuildTargets[id] = &domain.BuildTarget{
			ID:          id,
			DisplayName: name,
			Addresses:   canonicalizeStrings(dto.Targets),
		}
	}

	return ws, nil
}

func buildBackend(name string, dto BackendDTO) (domain.BackendSpec, error) {
	if len(dto.Kinds) == 0 {
		return domain.BackendSpec{}, zerr.With(zerr.Wrap(domain.ErrInvalidBackend, "missing kinds"), "backend", name)
	}
	if len(dto.Cmd) == 0 {
		return domain.BackendSpec{}, zerr.With(zerr.Wrap(domain.ErrInvalidBackend, "missing cmd"), "backend", name)
	}
	return domain.BackendSpec{
		Name:        name,
		Kinds:       canonicalizeStrings(dto.Kinds),
		Command:     slices.Clone(dto.Cmd),
		Environment: maps.Clone(dto.Environment),
	}, nil
}

// warnUnusedBackends reports backends whose kinds match no declared target.
func (l *Loader) warnUnusedBackends(ws *domain.Workspace) {
	kinds := make(map[domain.InternedString]struct{}, len(ws.Targets))
	for _, t := range ws.Targets {
		kinds[t.Kind] = struct{}{}
	}
	for _, b := range ws.Backends {
		used := slices.ContainsFunc(b.Kinds, func(k domain.InternedString) bool {
			_, ok := kinds[k]
			return ok
		})
		if !used {
			l.Logger.Warn(fmt.Sprintf("backend %q matches no declared target", b.Name))
		}
	}
}

func canonicalizeStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}

	sorted := slices.Clone(strs)
	slices.Sort(sorted)
	return domain.NewInternedStrings(slices.Compact(sorted))
}
