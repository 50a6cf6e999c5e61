package rtl

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/domain"
	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.PassRunner = (*Runner)(nil)

// Runner is the reference pass runner. It implements hierarchy resolution
// for real; the synthesis body passes (proc, opt, techmap) are recorded and
// validated but perform no rewriting, since the actual transformations
// belong to the surrounding toolchain. The driver's orderings, selections,
// and cache interactions are fully observable through it.
type Runner struct {
	log   ports.Logger
	calls []string
}

// NewRunner creates a pass runner.
func NewRunner(log ports.Logger) *Runner {
	return &Runner{log: log}
}

// SupportsSelection reports that this runner honors per-command module
// selections.
func (r *Runner) SupportsSelection() bool { return true }

// Calls returns every command executed so far, in order.
func (r *Runner) Calls() []string {
	return append([]string(nil), r.calls...)
}

// Call executes a single pass command.
func (r *Runner) Call(design ports.Design, command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return zerr.New("empty pass command")
	}
	r.calls = append(r.calls, command)

	switch fields[0] {
	case "hierarchy":
		return r.hierarchy(design, fields[1:])
	case "proc", "opt", "techmap":
		return r.bodyPass(design, fields[0], fields[1:])
	default:
		return zerr.With(domain.ErrUnknownPass, "pass", fields[0])
	}
}

// hierarchy verifies that every non-primitive cell type resolves to a
// module in the design and, when a top module is given, prunes modules
// unreachable from it.
func (r *Runner) hierarchy(design ports.Design, args []string) error {
	var check bool
	var top string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-check":
			check = true
		case "-top":
			if i+1 >= len(args) {
				return zerr.New("hierarchy: -top requires a module name")
			}
			i++
			top = args[i]
		default:
			return zerr.With(zerr.New("hierarchy: unknown option"), "option", args[i])
		}
	}

	known := make(map[string]bool)
	for _, mod := range design.Modules() {
		known[mod.Name()] = true
	}

	if check {
		for _, mod := range design.Modules() {
			for _, cell := range mod.Cells() {
				if strings.HasPrefix(cell.Type(), "$") {
					continue
				}
				if !known[cell.Type()] {
					return zerr.With(zerr.With(zerr.New("hierarchy: cell type is not a module"),
						"module", mod.Name()), "cell_type", cell.Type())
				}
			}
		}
	}

	if top == "" {
		return nil
	}
	if !known[top] {
		return zerr.With(domain.ErrModuleNotFound, "module", top)
	}

	// Prune modules unreachable from the top.
	reachable := map[string]bool{top: true}
	queue := []string{top}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		mod := design.Module(name)
		if mod == nil {
			continue
		}
		for _, cell := range mod.Cells() {
			typ := cell.Type()
			if strings.HasPrefix(typ, "$") || !known[typ] || reachable[typ] {
				continue
			}
			reachable[typ] = true
			queue = append(queue, typ)
		}
	}
	for _, mod := range design.Modules() {
		if !reachable[mod.Name()] {
			r.log.Info(fmt.Sprintf("hierarchy: removing unused module %s", mod.Name()))
			design.Remove(mod.Name())
		}
	}
	return nil
}

// bodyPass validates a proc/opt/techmap invocation and its selection.
func (r *Runner) bodyPass(design ports.Design, name string, args []string) error {
	var selection []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			// Options like -full configure the real pass; nothing to do here.
			continue
		}
		selection = append(selection, arg)
	}

	for _, mod := range selection {
		if design.Module(mod) == nil {
			r.log.Warn(fmt.Sprintf("%s: selected module %s not in design", name, mod))
		}
	}

	scope := "all modules"
	if len(selection) > 0 {
		scope = strings.Join(selection, " ")
	}
	r.log.Info(fmt.Sprintf("pass %s: %s", name, scope))
	return nil
}
