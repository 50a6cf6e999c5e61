package depgraph

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/logger"
	"go.trai.ch/zyphar/internal/core/ports"
)

// NodeID is the unique identifier for the dependency graph Graft node.
const NodeID graft.ID = "engine.depgraph"

func init() {
	graft.Register(graft.Node[*Graph]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Graph, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
