package rtl

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/internal/adapters/logger"
	"go.trai.ch/zyphar/internal/core/ports"
)

// Node identifiers for the reference IR Graft nodes.
const (
	DesignNodeID   graft.ID = "adapter.rtl.design"
	BackendNodeID  graft.ID = "adapter.rtl.backend"
	FrontendNodeID graft.ID = "adapter.rtl.frontend"
	RunnerNodeID   graft.ID = "adapter.rtl.runner"
)

func init() {
	graft.Register(graft.Node[ports.Design]{
		ID:        DesignNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Design, error) {
			return NewDesign(), nil
		},
	})

	graft.Register(graft.Node[ports.TextBackend]{
		ID:        BackendNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.TextBackend, error) {
			return NewBackend(), nil
		},
	})

	graft.Register(graft.Node[ports.TextFrontend]{
		ID:        FrontendNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.TextFrontend, error) {
			return NewFrontend(), nil
		},
	})

	graft.Register(graft.Node[ports.PassRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PassRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})
}
