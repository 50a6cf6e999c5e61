package driver

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/logger"
	"go.trai.ch/zyphar/internal/adapters/rtl"
	"go.trai.ch/zyphar/internal/adapters/telemetry"
	"go.trai.ch/zyphar/internal/core/ports"
	"go.trai.ch/zyphar/internal/engine/cache"
	"go.trai.ch/zyphar/internal/engine/depgraph"
)

// NodeID is the unique identifier for the driver Graft node.
const NodeID graft.ID = "engine.driver"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.NodeID,
			depgraph.NodeID,
			rtl.RunnerNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Driver, error) {
			c, err := graft.Dep[*cache.Cache](ctx)
			if err != nil {
				return nil, err
			}
			g, err := graft.Dep[*depgraph.Graph](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.PassRunner](ctx)
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
			return New(c, g, runner, log, tel), nil
		},
	})
}
