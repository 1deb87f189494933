package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bsp/internal/adapters/fs"
	"go.trai.ch/bsp/internal/adapters/logger"
	"go.trai.ch/bsp/internal/core/ports"
)

// NodeID is the unique identifier for the command backend factory Graft node.
const NodeID graft.ID = "adapter.shell"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.WalkerNodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(walker, log), nil
		},
	})
}
