// Package ports defines the core interfaces for the application, most
// importantly the contract with the host IR of the surrounding synthesis
// toolchain.
package ports

// Design is the host IR's top-level container of modules. Implementations
// own a set of observers and notify them, in attach order, of every
// structural mutation.
type Design interface {
	// Modules returns the design's modules in a stable order.
	Modules() []Module

	// Module returns the named module, or nil if absent.
	Module(name string) Module

	// Add inserts a module into the design and notifies observers.
	Add(m Module)

	// Remove detaches the named module, notifies observers, and returns
	// the detached module so callers can re-add it. Returns nil if absent.
	Remove(name string) Module

	// ScratchpadGet reads a key from the design's per-session key/value
	// store. Absent keys read as the empty string.
	ScratchpadGet(key string) string

	// ScratchpadSet writes a key to the design's scratchpad.
	ScratchpadSet(key, value string)

	// AttachObserver registers an observer for mutation callbacks.
	AttachObserver(o Observer)

	// DetachObserver removes a previously attached observer.
	DetachObserver(o Observer)
}

// Module is one unit of hardware description: cells, wires, ports, and a
// connection list, with a cached 64-bit content hash over all of them.
type Module interface {
	// Name returns the module's identifier.
	Name() string

	// Cells returns the module's cell instances in a stable order.
	Cells() []Cell

	// CellCount returns the number of cells.
	CellCount() int

	// WireCount returns the number of wires.
	WireCount() int

	// ContentHash returns the 64-bit digest of the module's structural
	// content. The hash is cached until explicitly invalidated.
	ContentHash() uint64

	// InvalidateContentHash drops the cached hash so the next ContentHash
	// call recomputes it.
	InvalidateContentHash()

	// ContentMatches reports whether the module's content hash equals h.
	ContentMatches(h uint64) bool

	// Clone produces a deep copy detached from any design.
	Clone() Module
}

// Cell is an instantiation inside a module of either a primitive (type
// beginning with "$") or another module (type equal to that module's name).
type Cell interface {
	Name() string
	Type() string
}

// Observer receives design mutation callbacks. The change monitor is the
// single implementation in this repository.
type Observer interface {
	// ModuleAdded fires after a module is inserted into the design.
	ModuleAdded(m Module)

	// ModuleDeleted fires after a module is removed from the design.
	ModuleDeleted(m Module)

	// CellConnected fires when a cell port is reconnected.
	CellConnected(m Module, cell Cell, port string)

	// ModuleConnected fires when a single connection is added to a
	// module's connection list.
	ModuleConnected(m Module)

	// ModuleConnectionsChanged fires when a module's connection list is
	// replaced wholesale.
	ModuleConnectionsChanged(m Module)

	// Blackout fires when a module's contents are wholesale rewritten.
	Blackout(m Module)
}
