package ports

import (
	"context"
	"io"
)

// Telemetry records progress of driver phases and per-module work.
type Telemetry interface {
	// Record starts a new vertex for a unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the vertex's output stream.
	Stdout() io.Writer

	// Cached marks the vertex as satisfied from cache.
	Cached()

	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
}
