// Package monitor implements the change monitor: an observer attached to
// the design that reconciles add/delete/connect/blackout events into three
// disjoint sets of added, deleted, and modified modules.
package monitor

import (
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.Observer = (*Monitor)(nil)

// Monitor tracks design mutations between resets. The added, deleted, and
// modified sets stay disjoint at every observable point:
//   - adding a module deleted earlier in the window is a logical
//     modification, not an add;
//   - deleting a module added earlier in the window is transient and
//     leaves no trace;
//   - a just-added module is never also marked modified.
type Monitor struct {
	log    ports.Logger
	design ports.Design

	added    map[string]struct{}
	deleted  map[string]struct{}
	modified map[string]struct{}

	originalHashes map[string]uint64
}

// New creates a detached monitor.
func New(log ports.Logger) *Monitor {
	return &Monitor{
		log:            log,
		added:          make(map[string]struct{}),
		deleted:        make(map[string]struct{}),
		modified:       make(map[string]struct{}),
		originalHashes: make(map[string]uint64),
	}
}

// Attach installs the monitor as an observer on the design, snapshots
// every module's content hash, and resets the change sets. Attaching while
// already attached detaches first.
func (m *Monitor) Attach(design ports.Design) {
	if m.design != nil {
		m.Detach()
	}

	m.design = design
	design.AttachObserver(m)
	m.Reset()

	m.log.Info(fmt.Sprintf("change monitor attached to design (%d modules)", len(m.originalHashes)))
}

// Detach removes the monitor from the design and drops the hash snapshot.
func (m *Monitor) Detach() {
	if m.design != nil {
		m.design.DetachObserver(m)
		m.design = nil
	}
	m.originalHashes = make(map[string]uint64)
}

// Attached reports whether the monitor currently observes a design.
func (m *Monitor) Attached() bool { return m.design != nil }

// Reset clears all three change sets and re-snapshots content hashes if
// attached.
func (m *Monitor) Reset() {
	m.added = make(map[string]struct{})
	m.deleted = make(map[string]struct{})
	m.modified = make(map[string]struct{})

	if m.design != nil {
		m.originalHashes = make(map[string]uint64)
		for _, mod := range m.design.Modules() {
			m.originalHashes[mod.Name()] = mod.ContentHash()
		}
	}
}

// HasChanges reports whether any change was observed since the last reset.
func (m *Monitor) HasChanges() bool {
	return len(m.added) > 0 || len(m.deleted) > 0 || len(m.modified) > 0
}

// Added returns the added module names, sorted.
func (m *Monitor) Added() []string { return sortedSet(m.added) }

// Deleted returns the deleted module names, sorted.
func (m *Monitor) Deleted() []string { return sortedSet(m.deleted) }

// Modified returns the modified module names, sorted.
func (m *Monitor) Modified() []string { return sortedSet(m.modified) }

// DirtyModules returns added plus modified modules. Deleted modules are
// not dirty; they are gone.
func (m *Monitor) DirtyModules() []string {
	dirty := make(map[string]struct{}, len(m.added)+len(m.modified))
	for name := range m.added {
		dirty[name] = struct{}{}
	}
	for name := range m.modified {
		dirty[name] = struct{}{}
	}
	return sortedSet(dirty)
}

// IsDirty reports whether the named module was added or modified.
func (m *Monitor) IsDirty(name string) bool {
	if _, ok := m.added[name]; ok {
		return true
	}
	_, ok := m.modified[name]
	return ok
}

// OriginalHash returns the content hash snapshot taken at attach/reset
// time for the named module.
func (m *Monitor) OriginalHash(name string) (uint64, bool) {
	h, ok := m.originalHashes[name]
	return h, ok
}

// ModuleAdded implements ports.Observer. A module re-created after a
// deletion in the same window counts as modified.
func (m *Monitor) ModuleAdded(mod ports.Module) {
	name := mod.Name()
	if _, wasDeleted := m.deleted[name]; wasDeleted {
		delete(m.deleted, name)
		m.modified[name] = struct{}{}
		return
	}
	m.added[name] = struct{}{}
}

// ModuleDeleted implements ports.Observer. A module created and destroyed
// within one window is transient and leaves no trace.
func (m *Monitor) ModuleDeleted(mod ports.Module) {
	name := mod.Name()
	if _, wasAdded := m.added[name]; wasAdded {
		delete(m.added, name)
		return
	}
	m.deleted[name] = struct{}{}
	delete(m.modified, name)
}

// CellConnected implements ports.Observer.
func (m *Monitor) CellConnected(mod ports.Module, _ ports.Cell, _ string) {
	m.markModified(mod)
}

// ModuleConnected implements ports.Observer.
func (m *Monitor) ModuleConnected(mod ports.Module) {
	m.markModified(mod)
}

// ModuleConnectionsChanged implements ports.Observer.
func (m *Monitor) ModuleConnectionsChanged(mod ports.Module) {
	m.markModified(mod)
}

// Blackout implements ports.Observer.
func (m *Monitor) Blackout(mod ports.Module) {
	m.markModified(mod)
}

// markModified records the module as modified unless it is still in the
// added set, and invalidates its cached content hash. The invalidation is
// load-bearing: the driver keys the cache on ContentHash, and a stale
// cached hash would make a modified module look unchanged.
func (m *Monitor) markModified(mod ports.Module) {
	name := mod.Name()
	if _, isAdded := m.added[name]; !isAdded {
		m.modified[name] = struct{}{}
	}
	mod.InvalidateContentHash()
}

// Summary formats the change sets for logging, one module per line.
func (m *Monitor) Summary() string {
	if !m.HasChanges() {
		return "no changes detected"
	}

	var b strings.Builder
	for _, name := range m.Added() {
		fmt.Fprintf(&b, "  + %s\n", name)
	}
	for _, name := range m.Deleted() {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	for _, name := range m.Modified() {
		fmt.Fprintf(&b, "  ~ %s\n", name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
