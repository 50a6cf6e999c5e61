package cache

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/config"
	"go.trai.ch/zyphar/internal/adapters/logger"
	"go.trai.ch/zyphar/internal/adapters/rtl"
	"go.trai.ch/zyphar/internal/core/ports"
)

// NodeID is the unique identifier for the cache Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			rtl.BackendNodeID,
			rtl.FrontendNodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			backend, err := graft.Dep[ports.TextBackend](ctx)
			if err != nil {
				return nil, err
			}
			frontend, err := graft.Dep[ports.TextFrontend](ctx)
			if err != nil {
				return nil, err
			}

			return New(Config{
				Dir:          cfg.Cache.Dir,
				MaxEntries:   cfg.Cache.MaxEntries,
				MaxSizeBytes: cfg.Cache.MaxSizeBytes,
				MaxAge:       cfg.Cache.MaxAge,
			}, backend, frontend, log), nil
		},
	})
}
