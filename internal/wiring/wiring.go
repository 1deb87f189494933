// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bsp/internal/adapters/config"
	_ "go.trai.ch/bsp/internal/adapters/fs"
	_ "go.trai.ch/bsp/internal/adapters/logger"
	_ "go.trai.ch/bsp/internal/adapters/metrics"
	_ "go.trai.ch/bsp/internal/adapters/notify"
	_ "go.trai.ch/bsp/internal/adapters/shell"
	_ "go.trai.ch/bsp/internal/adapters/telemetry"
	_ "go.trai.ch/bsp/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/bsp/internal/app"
)
