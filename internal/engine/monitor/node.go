package monitor

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/logger"
	"go.trai.ch/zyphar/internal/core/ports"
)

// NodeID is the unique identifier for the change monitor Graft node.
const NodeID graft.ID = "engine.monitor"

func init() {
	graft.Register(graft.Node[*Monitor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Monitor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
