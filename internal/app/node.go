package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/zyphar/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/zyphar/internal/adapters/rtl"       //nolint:depguard // Wired in app layer
	"go.trai.ch/zyphar/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/zyphar/internal/core/ports"
	"go.trai.ch/zyphar/internal/engine/cache"
	"go.trai.ch/zyphar/internal/engine/depgraph"
	"go.trai.ch/zyphar/internal/engine/driver"
	"go.trai.ch/zyphar/internal/engine/monitor"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			rtl.DesignNodeID,
			rtl.FrontendNodeID,
			cache.NodeID,
			depgraph.NodeID,
			monitor.NodeID,
			driver.NodeID,
		},
		Run: runAppNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	design, err := graft.Dep[ports.Design](ctx)
	if err != nil {
		return nil, err
	}
	frontend, err := graft.Dep[ports.TextFrontend](ctx)
	if err != nil {
		return nil, err
	}
	c, err := graft.Dep[*cache.Cache](ctx)
	if err != nil {
		return nil, err
	}
	g, err := graft.Dep[*depgraph.Graph](ctx)
	if err != nil {
		return nil, err
	}
	mon, err := graft.Dep[*monitor.Monitor](ctx)
	if err != nil {
		return nil, err
	}
	drv, err := graft.Dep[*driver.Driver](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, log, tel, design, frontend, c, g, mon, drv), nil
}
