package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bsp/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/notify"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bsp/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.ResolverNodeID,
			shell.NodeID,
			telemetry.TracerNodeID,
			notify.LogNodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	inputs, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	backends, err := graft.Dep[*shell.Factory](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := graft.Dep[*notify.Log](ctx)
	if err != nil {
		return nil, err
	}

	progress, err := graft.Dep[*progrock.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*metrics.PrometheusRecorder](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, inputs, backends, tracer, notifier, progress, recorder), nil
}
