package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"go.trai.ch/zyphar/internal/core/domain"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	var (
		doBuild  bool
		doShow   bool
		doJSON   bool
		doOrder  bool
		doStore  bool
		doLoad   bool
		affected string
	)

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Build and query the module dependency graph",
		Long: `Build and query the module dependency graph for incremental synthesis.

Without flags, the graph is built from the session design and displayed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !doBuild && !doShow && !doJSON && !doOrder && !doStore && !doLoad && affected == "" {
				doBuild = true
				doShow = true
			}

			if doLoad {
				if c.app.Graph.LoadScratchpad(c.app.Design) {
					fmt.Fprintf(c.app.Out, "loaded graph with %d modules from scratchpad\n", c.app.Graph.ModuleCount())
				} else {
					c.app.Logger.Warn("no dependency graph found in scratchpad")
				}
			}

			if doBuild {
				c.app.Graph.Build(c.app.Design)
				fmt.Fprintf(c.app.Out, "built graph with %d modules\n", c.app.Graph.ModuleCount())
			}

			if !c.app.Graph.Valid() {
				return domain.ErrGraphNotBuilt
			}

			if doShow {
				c.printGraph()
			}

			if doJSON {
				data, err := c.app.Graph.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.app.Out, string(data))
			}

			if doOrder {
				fmt.Fprintln(c.app.Out, "synthesis order (dependencies first):")
				for i, name := range c.app.Graph.TopologicalOrder() {
					fmt.Fprintf(c.app.Out, "  %d. %s\n", i+1, name)
				}
			}

			if affected != "" {
				c.printAffected(affected)
			}

			if doStore {
				if err := c.app.Graph.StoreScratchpad(c.app.Design); err != nil {
					return err
				}
				fmt.Fprintln(c.app.Out, "stored dependency graph in scratchpad")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&doBuild, "build", false, "Build the dependency graph from the session design")
	cmd.Flags().BoolVar(&doShow, "show", false, "Display the dependency graph")
	cmd.Flags().BoolVar(&doJSON, "json", false, "Output the dependency graph as JSON")
	cmd.Flags().BoolVar(&doOrder, "order", false, "Show the topological synthesis order")
	cmd.Flags().BoolVar(&doStore, "store", false, "Store the graph in the design scratchpad")
	cmd.Flags().BoolVar(&doLoad, "load", false, "Load the graph from the design scratchpad")
	cmd.Flags().StringVar(&affected, "affected", "", "Show all modules affected if the given module changes")

	return cmd
}

func (c *CLI) printGraph() {
	fmt.Fprintln(c.app.Out, "=== dependency graph ===")
	for _, name := range c.app.Graph.Modules() {
		fmt.Fprintf(c.app.Out, "module %s\n", name)
		fmt.Fprintf(c.app.Out, "  instantiates:    %s\n", orNone(c.app.Graph.DirectDependencies(name)))
		fmt.Fprintf(c.app.Out, "  instantiated by: %s\n", orNone(c.app.Graph.DirectDependents(name)))
	}
	fmt.Fprintf(c.app.Out, "topological order: %s\n", strings.Join(c.app.Graph.TopologicalOrder(), " -> "))
}

func (c *CLI) printAffected(name string) {
	affected := c.app.Graph.AffectedModules([]string{name})
	fmt.Fprintf(c.app.Out, "modules affected if %s changes:\n", name)
	for _, mod := range sortedNames(affected) {
		marker := ""
		if mod == name {
			marker = " (changed)"
		}
		fmt.Fprintf(c.app.Out, "  - %s%s\n", mod, marker)
	}
	fmt.Fprintf(c.app.Out, "total: %d modules need re-synthesis\n", len(affected))
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, " ")
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
