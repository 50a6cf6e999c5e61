// Package app implements the application layer: the context object that
// owns the session design and the cache, graph, monitor, and driver
// components, plus the watch loop.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/adapters/config"
	"go.trai.ch/zyphar/internal/core/ports"
	"go.trai.ch/zyphar/internal/engine/cache"
	"go.trai.ch/zyphar/internal/engine/depgraph"
	"go.trai.ch/zyphar/internal/engine/driver"
	"go.trai.ch/zyphar/internal/engine/monitor"
)

// App holds the session design and every component operating on it. It is
// constructed once at startup and threaded through the CLI commands, which
// keeps the cache, graph, and monitor testable in isolation.
type App struct {
	Config    *config.Config
	Logger    ports.Logger
	Telemetry ports.Telemetry

	Design   ports.Design
	Frontend ports.TextFrontend

	Cache   *cache.Cache
	Graph   *depgraph.Graph
	Monitor *monitor.Monitor
	Driver  *driver.Driver

	// CacheDir optionally overrides the configured cache directory.
	CacheDir string

	// Out receives user-facing command output and watch-mode JSON events.
	Out io.Writer
}

// New assembles an App from its components.
func New(
	cfg *config.Config,
	log ports.Logger,
	tel ports.Telemetry,
	design ports.Design,
	frontend ports.TextFrontend,
	c *cache.Cache,
	g *depgraph.Graph,
	mon *monitor.Monitor,
	drv *driver.Driver,
) *App {
	return &App{
		Config:    cfg,
		Logger:    log,
		Telemetry: tel,
		Design:    design,
		Frontend:  frontend,
		Cache:     c,
		Graph:     g,
		Monitor:   mon,
		Driver:    drv,
		Out:       os.Stdout,
	}
}

// LoadDesigns parses the given textual IR files into the session design.
func (a *App) LoadDesigns(paths []string) error {
	for _, path := range paths {
		if err := a.Frontend.Call(a.Design, "rtlil", path); err != nil {
			return zerr.Wrap(err, "failed to load design file")
		}
	}
	return nil
}

// EnsureCache initializes the cache if it is not yet, honoring the
// directory override. Returns false when initialization failed.
func (a *App) EnsureCache() bool {
	if a.Cache.Initialized() {
		return true
	}
	return a.Cache.Init(a.CacheDir)
}

// Synth runs one incremental synthesis round over the session design.
func (a *App) Synth(ctx context.Context, opts driver.Options) (*driver.Result, error) {
	a.EnsureCache()
	return a.Driver.Synth(ctx, a.Design, opts)
}

// Close persists a dirty cache and shuts down telemetry. Errors are
// swallowed; a failed save must never abort shutdown.
func (a *App) Close() {
	a.Cache.CloseAndSave()
	if err := a.Telemetry.Close(); err != nil {
		a.Logger.Warn(fmt.Sprintf("failed to close telemetry: %v", err))
	}
}
