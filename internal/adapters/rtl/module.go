package rtl

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.Module = (*Module)(nil)

// Wire is a named signal of a given width.
type Wire struct {
	Name  string
	Width int
}

// Port is a module-level port.
type Port struct {
	Name      string
	Direction string
}

// Cell is an instantiation of a primitive ("$..." type) or of another
// module. Connections map cell ports to signal names.
type Cell struct {
	typ   string
	name  string
	conns map[string]string
}

// Name returns the cell's instance name.
func (c *Cell) Name() string { return c.name }

// Type returns the cell's type identifier.
func (c *Cell) Type() string { return c.typ }

// Connection returns the signal connected to the given cell port.
func (c *Cell) Connection(port string) string { return c.conns[port] }

// SetConn sets a port connection without notifying observers. It is meant
// for module construction; reconnecting a cell inside a live design goes
// through Module.SetCellConn.
func (c *Cell) SetConn(port, signal string) { c.conns[port] = signal }

// Module is the in-memory module representation. The content hash over
// cells, wires, ports, and connections is cached; connection-level mutators
// notify observers and leave invalidation to them, mirroring the host IR
// contract where the change monitor owns hash invalidation.
type Module struct {
	name  string
	cells []*Cell
	wires []Wire
	ports []Port
	conns [][2]string

	design *Design

	hash      uint64
	hashValid bool
}

// NewModule creates an empty module detached from any design.
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module identifier.
func (m *Module) Name() string { return m.name }

// Cells returns the module's cells sorted by instance name.
func (m *Module) Cells() []ports.Cell {
	sorted := make([]*Cell, len(m.cells))
	copy(sorted, m.cells)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	cells := make([]ports.Cell, len(sorted))
	for i, c := range sorted {
		cells[i] = c
	}
	return cells
}

// CellCount returns the number of cells.
func (m *Module) CellCount() int { return len(m.cells) }

// WireCount returns the number of wires.
func (m *Module) WireCount() int { return len(m.wires) }

// AddWire adds a wire and invalidates the cached hash.
func (m *Module) AddWire(name string, width int) {
	m.wires = append(m.wires, Wire{Name: name, Width: width})
	m.hashValid = false
}

// AddPort adds a module port and invalidates the cached hash.
func (m *Module) AddPort(name, direction string) {
	m.ports = append(m.ports, Port{Name: name, Direction: direction})
	m.hashValid = false
}

// AddCell adds a cell and invalidates the cached hash.
func (m *Module) AddCell(typ, name string) *Cell {
	c := &Cell{typ: typ, name: name, conns: make(map[string]string)}
	m.cells = append(m.cells, c)
	m.hashValid = false
	return c
}

// SetCellConn reconnects a cell port to a signal and notifies observers.
// The cached hash is left to the observer to invalidate.
func (m *Module) SetCellConn(cell *Cell, port, signal string) {
	cell.conns[port] = signal
	m.notify(func(o ports.Observer) { o.CellConnected(m, cell, port) })
}

// Connect appends a connection to the module's connection list and
// notifies observers.
func (m *Module) Connect(a, b string) {
	m.conns = append(m.conns, [2]string{a, b})
	m.notify(func(o ports.Observer) { o.ModuleConnected(m) })
}

// SetConnections replaces the whole connection list and notifies observers.
func (m *Module) SetConnections(conns [][2]string) {
	m.conns = conns
	m.notify(func(o ports.Observer) { o.ModuleConnectionsChanged(m) })
}

// Blackout wipes the module's contents for a wholesale rewrite and
// notifies observers.
func (m *Module) Blackout() {
	m.cells = nil
	m.wires = nil
	m.conns = nil
	m.hashValid = false
	m.notify(func(o ports.Observer) { o.Blackout(m) })
}

func (m *Module) notify(fn func(ports.Observer)) {
	if m.design == nil {
		return
	}
	for _, o := range m.design.observers {
		fn(o)
	}
}

// ContentHash returns the cached 64-bit structural digest, recomputing it
// if it was invalidated.
func (m *Module) ContentHash() uint64 {
	if m.hashValid {
		return m.hash
	}

	d := xxhash.New()
	_, _ = d.WriteString(m.name)
	_, _ = d.Write([]byte{0})

	for _, w := range sortedWires(m.wires) {
		_, _ = d.WriteString(fmt.Sprintf("wire %d %s", w.Width, w.Name))
		_, _ = d.Write([]byte{0})
	}
	for _, p := range sortedPorts(m.ports) {
		_, _ = d.WriteString(fmt.Sprintf("port %s %s", p.Direction, p.Name))
		_, _ = d.Write([]byte{0})
	}
	for _, c := range sortedCells(m.cells) {
		_, _ = d.WriteString(fmt.Sprintf("cell %s %s", c.typ, c.name))
		_, _ = d.Write([]byte{0})
		for _, port := range sortedKeys(c.conns) {
			_, _ = d.WriteString(fmt.Sprintf("conn %s %s", port, c.conns[port]))
			_, _ = d.Write([]byte{0})
		}
	}
	for _, conn := range m.conns {
		_, _ = d.WriteString(fmt.Sprintf("connect %s %s", conn[0], conn[1]))
		_, _ = d.Write([]byte{0})
	}

	m.hash = d.Sum64()
	m.hashValid = true
	return m.hash
}

// InvalidateContentHash drops the cached hash so the next ContentHash call
// recomputes it.
func (m *Module) InvalidateContentHash() {
	m.hashValid = false
}

// ContentMatches reports whether the module's content hash equals h.
func (m *Module) ContentMatches(h uint64) bool {
	return m.ContentHash() == h
}

// Clone produces a deep copy detached from any design.
func (m *Module) Clone() ports.Module {
	clone := &Module{
		name:      m.name,
		wires:     append([]Wire(nil), m.wires...),
		ports:     append([]Port(nil), m.ports...),
		conns:     append([][2]string(nil), m.conns...),
		hash:      m.hash,
		hashValid: m.hashValid,
	}
	clone.cells = make([]*Cell, len(m.cells))
	for i, c := range m.cells {
		conns := make(map[string]string, len(c.conns))
		for k, v := range c.conns {
			conns[k] = v
		}
		clone.cells[i] = &Cell{typ: c.typ, name: c.name, conns: conns}
	}
	return clone
}

func sortedWires(ws []Wire) []Wire {
	out := append([]Wire(nil), ws...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedPorts(ps []Port) []Port {
	out := append([]Port(nil), ps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedCells(cs []*Cell) []*Cell {
	out := append([]*Cell(nil), cs...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
