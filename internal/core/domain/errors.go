package domain

import "go.trai.ch/zerr"

var (
	// ErrKeySeparator is returned when a module name or pass sequence tag
	// contains the key separator character.
	ErrKeySeparator = zerr.New("key part contains separator")

	// ErrCacheNotInitialized is returned when a cache operation runs before
	// a successful init.
	ErrCacheNotInitialized = zerr.New("cache not initialized")

	// ErrGraphNotBuilt is returned when a graph query runs before the graph
	// was built or loaded.
	ErrGraphNotBuilt = zerr.New("dependency graph not built")

	// ErrModuleNotFound is returned when a named module is absent from the
	// design.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrHierarchyFailed is returned when the external hierarchy pass fails.
	// It is the only error the incremental driver escalates.
	ErrHierarchyFailed = zerr.New("hierarchy pass failed")

	// ErrUnknownPass is returned by the pass runner for an unrecognized
	// command.
	ErrUnknownPass = zerr.New("unknown pass")

	// ErrMonitorNotAttached is returned when a monitor query requires an
	// attached design.
	ErrMonitorNotAttached = zerr.New("change monitor not attached")
)
