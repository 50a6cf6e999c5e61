// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/zyphar/internal/adapters/config"
	_ "go.trai.ch/zyphar/internal/adapters/logger"
	_ "go.trai.ch/zyphar/internal/adapters/rtl"
	_ "go.trai.ch/zyphar/internal/adapters/telemetry"
	// Register engine nodes.
	_ "go.trai.ch/zyphar/internal/engine/cache"
	_ "go.trai.ch/zyphar/internal/engine/depgraph"
	_ "go.trai.ch/zyphar/internal/engine/driver"
	_ "go.trai.ch/zyphar/internal/engine/monitor"
	// Register the app node.
	_ "go.trai.ch/zyphar/internal/app"
)
