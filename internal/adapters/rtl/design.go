// Package rtl implements an in-memory reference host IR: designs, modules,
// cells, a textual IR codec, and a pass runner. The incremental engine only
// depends on the ports contracts, so a real toolchain can substitute its own
// IR; this one exists so the engine is runnable and testable end to end.
package rtl

import (
	"sort"

	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.Design = (*Design)(nil)

// Design is the in-memory module container with observer dispatch and a
// string scratchpad.
type Design struct {
	modules    map[string]*Module
	scratchpad map[string]string
	observers  []ports.Observer
}

// NewDesign creates an empty design.
func NewDesign() *Design {
	return &Design{
		modules:    make(map[string]*Module),
		scratchpad: make(map[string]string),
	}
}

// Modules returns the design's modules sorted by name.
func (d *Design) Modules() []ports.Module {
	names := make([]string, 0, len(d.modules))
	for name := range d.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	mods := make([]ports.Module, len(names))
	for i, name := range names {
		mods[i] = d.modules[name]
	}
	return mods
}

// Module returns the named module, or nil if absent.
func (d *Design) Module(name string) ports.Module {
	if m, ok := d.modules[name]; ok {
		return m
	}
	return nil
}

// Add inserts a module and notifies observers. An existing module of the
// same name is replaced silently; callers that care remove it first.
func (d *Design) Add(m ports.Module) {
	mod, ok := m.(*Module)
	if !ok {
		mod = fromPort(m)
	}
	mod.design = d
	d.modules[mod.Name()] = mod

	for _, o := range d.observers {
		o.ModuleAdded(mod)
	}
}

// Remove detaches the named module, notifies observers, and returns the
// detached module. Returns nil if the module is absent.
func (d *Design) Remove(name string) ports.Module {
	mod, ok := d.modules[name]
	if !ok {
		return nil
	}
	delete(d.modules, name)
	mod.design = nil

	for _, o := range d.observers {
		o.ModuleDeleted(mod)
	}
	return mod
}

// ScratchpadGet reads a scratchpad key; absent keys read as "".
func (d *Design) ScratchpadGet(key string) string {
	return d.scratchpad[key]
}

// ScratchpadSet writes a scratchpad key.
func (d *Design) ScratchpadSet(key, value string) {
	d.scratchpad[key] = value
}

// AttachObserver registers an observer. Attaching the same observer twice
// is a no-op.
func (d *Design) AttachObserver(o ports.Observer) {
	for _, existing := range d.observers {
		if existing == o {
			return
		}
	}
	d.observers = append(d.observers, o)
}

// DetachObserver removes a previously attached observer.
func (d *Design) DetachObserver(o ports.Observer) {
	for i, existing := range d.observers {
		if existing == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// fromPort deep-copies a foreign ports.Module implementation into the rtl
// representation. Only the contract-visible structure survives.
func fromPort(m ports.Module) *Module {
	mod := NewModule(m.Name())
	for _, c := range m.Cells() {
		mod.AddCell(c.Type(), c.Name())
	}
	return mod
}
