package rtl

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/ports"
)

var (
	_ ports.TextBackend  = (*Backend)(nil)
	_ ports.TextFrontend = (*Frontend)(nil)
)

// Backend dumps a module to the line-based textual IR.
type Backend struct{}

// NewBackend creates a text backend.
func NewBackend() *Backend { return &Backend{} }

// DumpModule serializes a single module. The dump is deterministic: wires,
// ports, and cells are emitted in name order, the connection list in its
// own order.
func (b *Backend) DumpModule(m ports.Module) ([]byte, error) {
	if m == nil {
		return nil, zerr.New("cannot dump nil module")
	}
	mod, ok := m.(*Module)
	if !ok {
		return nil, zerr.With(zerr.New("module is not an rtl module"), "module", m.Name())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "module %s\n", mod.name)
	for _, w := range sortedWires(mod.wires) {
		fmt.Fprintf(&buf, "  wire %d %s\n", w.Width, w.Name)
	}
	for _, p := range sortedPorts(mod.ports) {
		fmt.Fprintf(&buf, "  port %s %s\n", p.Direction, p.Name)
	}
	for _, c := range sortedCells(mod.cells) {
		fmt.Fprintf(&buf, "  cell %s %s\n", c.typ, c.name)
		for _, port := range sortedKeys(c.conns) {
			fmt.Fprintf(&buf, "    conn %s %s\n", port, c.conns[port])
		}
	}
	for _, conn := range mod.conns {
		fmt.Fprintf(&buf, "  connect %s %s\n", conn[0], conn[1])
	}
	buf.WriteString("end\n")
	return buf.Bytes(), nil
}

// Frontend parses the textual IR back into a design.
type Frontend struct{}

// NewFrontend creates a text frontend.
func NewFrontend() *Frontend { return &Frontend{} }

// Call parses the file at path into the design. Modules already present
// under a parsed name are replaced. Only the "rtlil" format is understood.
func (f *Frontend) Call(design ports.Design, format, path string) error {
	if format != "rtlil" {
		return zerr.With(zerr.New("unsupported frontend format"), "format", format)
	}

	file, err := os.Open(path) //nolint:gosec // path is a cache-owned temp file or user input
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open IR file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	var (
		mods    []*Module
		current *Module
		cell    *Cell
		lineno  int
	)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "autoidx":
			// Header emitted for frontend compatibility, carries no content.
		case "module":
			if len(fields) != 2 {
				return parseError(path, lineno, "malformed module line")
			}
			current = NewModule(fields[1])
			cell = nil
		case "wire":
			if current == nil || len(fields) != 3 {
				return parseError(path, lineno, "malformed wire line")
			}
			width, err := strconv.Atoi(fields[1])
			if err != nil {
				return parseError(path, lineno, "malformed wire width")
			}
			current.AddWire(fields[2], width)
		case "port":
			if current == nil || len(fields) != 3 {
				return parseError(path, lineno, "malformed port line")
			}
			current.AddPort(fields[2], fields[1])
		case "cell":
			if current == nil || len(fields) != 3 {
				return parseError(path, lineno, "malformed cell line")
			}
			cell = current.AddCell(fields[1], fields[2])
		case "conn":
			if cell == nil || len(fields) != 3 {
				return parseError(path, lineno, "conn outside cell")
			}
			cell.conns[fields[1]] = fields[2]
		case "connect":
			if current == nil || len(fields) != 3 {
				return parseError(path, lineno, "malformed connect line")
			}
			current.conns = append(current.conns, [2]string{fields[1], fields[2]})
		case "end":
			if current == nil {
				return parseError(path, lineno, "end without module")
			}
			mods = append(mods, current)
			current = nil
			cell = nil
		default:
			return parseError(path, lineno, "unrecognized directive "+fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read IR file"), "path", path)
	}
	if current != nil {
		return zerr.With(zerr.New("unterminated module"), "module", current.name)
	}
	if len(mods) == 0 {
		return zerr.With(zerr.New("no modules in IR file"), "path", path)
	}

	for _, mod := range mods {
		if design.Module(mod.name) != nil {
			design.Remove(mod.name)
		}
		design.Add(mod)
	}
	return nil
}

func parseError(path string, line int, msg string) error {
	return zerr.With(zerr.With(zerr.New(msg), "path", path), "line", line)
}
