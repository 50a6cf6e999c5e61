// Package depgraph tracks module instantiation relationships: which module
// instantiates which, in both directions, with transitive closures,
// topological ordering, and a JSON codec for reuse between runs.
package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zyphar/internal/core/ports"
)

// ScratchpadKey is the design scratchpad key holding the serialized graph
// between runs within a design session.
const ScratchpadKey = "zyphar.deps.json"

// Graph holds the two inverse adjacency maps. For every edge u->v in
// instantiates, the edge v->u is present in instantiatedBy, and every key
// of either map appears in all. Cycles are representable; the ordering
// routines tolerate them.
type Graph struct {
	instantiates   map[string]map[string]struct{}
	instantiatedBy map[string]map[string]struct{}
	all            map[string]struct{}
	valid          bool
	log            ports.Logger
}

// New creates an empty, invalid graph.
func New(log ports.Logger) *Graph {
	g := &Graph{log: log}
	g.Clear()
	return g
}

// Clear drops all dependency information and marks the graph invalid.
func (g *Graph) Clear() {
	g.instantiates = make(map[string]map[string]struct{})
	g.instantiatedBy = make(map[string]map[string]struct{})
	g.all = make(map[string]struct{})
	g.valid = false
}

// Valid reports whether the graph has been built or loaded.
func (g *Graph) Valid() bool { return g.valid }

// ModuleCount returns the number of known modules.
func (g *Graph) ModuleCount() int { return len(g.all) }

// Modules returns all known module names, sorted.
func (g *Graph) Modules() []string {
	return sortedSet(g.all)
}

// Build populates the graph from the design. A cell whose type begins with
// "$" is a primitive and contributes no edge; a cell whose type names no
// module in the design is skipped likewise.
func (g *Graph) Build(design ports.Design) {
	g.Clear()

	for _, mod := range design.Modules() {
		g.addModule(mod.Name())
	}

	for _, mod := range design.Modules() {
		for _, cell := range mod.Cells() {
			typ := cell.Type()
			if strings.HasPrefix(typ, "$") {
				continue
			}
			if _, known := g.all[typ]; !known {
				continue
			}
			g.addEdge(mod.Name(), typ)
		}
	}

	g.valid = true
}

func (g *Graph) addModule(name string) {
	g.all[name] = struct{}{}
	if g.instantiates[name] == nil {
		g.instantiates[name] = make(map[string]struct{})
	}
	if g.instantiatedBy[name] == nil {
		g.instantiatedBy[name] = make(map[string]struct{})
	}
}

func (g *Graph) addEdge(parent, child string) {
	g.instantiates[parent][child] = struct{}{}
	g.instantiatedBy[child][parent] = struct{}{}
}

// DirectDependencies returns the modules the given module instantiates.
func (g *Graph) DirectDependencies(name string) []string {
	return sortedSet(g.instantiates[name])
}

// DirectDependents returns the modules that instantiate the given module.
func (g *Graph) DirectDependents(name string) []string {
	return sortedSet(g.instantiatedBy[name])
}

// AllDependencies returns every module transitively instantiated by the
// given module, exclusive of the module itself.
func (g *Graph) AllDependencies(name string) map[string]struct{} {
	return g.collectTransitive(g.instantiates, name)
}

// AllDependents returns every module that transitively instantiates the
// given module, exclusive of the module itself.
func (g *Graph) AllDependents(name string) map[string]struct{} {
	return g.collectTransitive(g.instantiatedBy, name)
}

// collectTransitive walks the adjacency map breadth-first from start with
// an explicit queue; the graph may contain cycles.
func (g *Graph) collectTransitive(adj map[string]map[string]struct{}, start string) map[string]struct{} {
	result := make(map[string]struct{})
	queue := make([]string, 0, len(adj[start]))

	for next := range adj[start] {
		result[next] = struct{}{}
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range adj[current] {
			if _, seen := result[next]; !seen {
				result[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return result
}

// AffectedModules returns the changed set plus every transitive dependent
// of a changed module. A module that instantiates a changed module may be
// affected by cross-module optimizations even when its own content is
// unchanged.
func (g *Graph) AffectedModules(changed []string) map[string]struct{} {
	affected := make(map[string]struct{}, len(changed))
	for _, name := range changed {
		affected[name] = struct{}{}
		for dep := range g.AllDependents(name) {
			affected[dep] = struct{}{}
		}
	}
	return affected
}

// DependentsMap exports the instantiated-by relation as name -> direct
// dependents, for conservative cache invalidation.
func (g *Graph) DependentsMap() map[string][]string {
	out := make(map[string][]string, len(g.instantiatedBy))
	for name, deps := range g.instantiatedBy {
		out[name] = sortedSet(deps)
	}
	return out
}

// TopologicalOrder returns the modules with every module's dependencies
// preceding it. The walk is an iterative DFS with three-color marking; a
// back edge is reported as a warning naming the module and skipped, so a
// cyclic graph still yields a complete sequence in partial order.
func (g *Graph) TopologicalOrder() []string {
	const (
		unvisited = iota
		onStack
		done
	)

	color := make(map[string]int, len(g.all))
	order := make([]string, 0, len(g.all))

	type frame struct {
		name string
		deps []string
		next int
	}

	for _, root := range g.Modules() {
		if color[root] != unvisited {
			continue
		}

		stack := []frame{{name: root, deps: g.DirectDependencies(root)}}
		color[root] = onStack

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++

				switch color[dep] {
				case unvisited:
					if _, known := g.all[dep]; !known {
						continue
					}
					color[dep] = onStack
					stack = append(stack, frame{name: dep, deps: g.DirectDependencies(dep)})
				case onStack:
					g.log.Warn(fmt.Sprintf("circular dependency detected involving module %s", dep))
				}
				continue
			}

			color[top.name] = done
			order = append(order, top.name)
			stack = stack[:len(stack)-1]
		}
	}

	return order
}

// ReverseTopologicalOrder returns the topological order with dependents
// before dependencies.
func (g *Graph) ReverseTopologicalOrder() []string {
	order := g.TopologicalOrder()
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
