package shell

import (
	"go.trai.ch/bsp/internal/adapters/fs"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
)

// Factory creates the command backends declared by a workspace.
type Factory struct {
	walker *fs.Walker
	logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(walker *fs.Walker, logger ports.Logger) *Factory {
	return &Factory{walker: walker, logger: logger}
}

// Backends returns one backend per declared backend spec, in workspace order.
func (f *Factory) Backends(ws *domain.Workspace, blobs ports.BlobStore) []ports.Backend {
	backends := make([]ports.Backend, 0, len(ws.Backends))
	for _, spec := range ws.Backends {
		backends = append(backends, NewBackend(spec, ws.Root, blobs, f.walker, f.logger))
	}
	return backends
}
