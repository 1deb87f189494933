package domain

import (
	"maps"
	"slices"
	"strings"
)

// BackendSpec declares a command backend: the target kinds it applies to and the compiler to run.
type BackendSpec struct {
	Name        string
	Kinds       []InternedString
	Command     []string
	Environment map[string]string
}

// Workspace is the loaded build configuration.
type Workspace struct {
	// Root is the absolute directory containing the configuration file.
	Root string
	// OutputPrefix is the workspace-relative directory compile outputs are written under.
	OutputPrefix string
	// Backends are ordered by name.
	Backends     []BackendSpec
	Targets      map[InternedString]*Target
	BuildTargets map[BuildTargetIdentifier]*BuildTarget
}

// NewWorkspace creates an empty Workspace rooted at root.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		Root:         root,
		OutputPrefix: DefaultOutputPath(),
		Targets:      make(map[InternedString]*Target),
		BuildTargets: make(map[BuildTargetIdentifier]*BuildTarget),
	}
}

// Target returns the concrete target at address.
func (w *Workspace) Target(address InternedString) (*Target, bool) {
	t, ok := w.Targets[address]
	return t, ok
}

// BuildTarget returns the build target named by id.
// A concrete target address is addressable as a build target of its own.
func (w *Workspace) BuildTarget(id BuildTargetIdentifier) (*BuildTarget, bool) {
	if bt, ok := w.BuildTargets[id]; ok {
		return bt, true
	}
	addr := NewInternedString(id.URI)
	if _, ok := w.Targets[addr]; ok {
		return &BuildTarget{ID: id, DisplayName: id.URI, Addresses: []InternedString{addr}}, true
	}
	return nil, false
}

// BuildTargetIDs returns the declared build target identifiers in lexical order.
func (w *Workspace) BuildTargetIDs() []BuildTargetIdentifier {
	ids := slices.Collect(maps.Keys(w.BuildTargets))
	slices.SortFunc(ids, func(a, b BuildTargetIdentifier) int {
		return strings.Compare(a.URI, b.URI)
	})
	return ids
}
