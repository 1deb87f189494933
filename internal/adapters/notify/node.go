package notify

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bsp/internal/adapters/logger"
	"go.trai.ch/bsp/internal/core/ports"
)

// LogNodeID is the unique identifier for the log notifier Graft node.
const LogNodeID graft.ID = "adapter.notify.log"

func init() {
	graft.Register(graft.Node[*Log]{
		ID:        LogNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Log, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLog(log), nil
		},
	})
}
