package telemetry

import (
	"context"
	"io"

	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.Telemetry = (*NoOp)(nil)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a no-op recorder.
func NewNoOp() *NoOp { return &NoOp{} }

// Record returns a no-op vertex.
func (n *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer  { return io.Discard }
func (noopVertex) Cached()            {}
func (noopVertex) Complete(err error) {}
