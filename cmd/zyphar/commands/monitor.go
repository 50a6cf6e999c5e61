package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newMonitorCmd() *cobra.Command {
	var (
		doAttach bool
		doDetach bool
		doStatus bool
		doReset  bool
		doDirty  bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Manage change tracking for incremental synthesis",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !doAttach && !doDetach && !doStatus && !doReset && !doDirty {
				doStatus = true
			}

			if doAttach {
				c.app.Monitor.Attach(c.app.Design)
			}

			if doReset {
				c.app.Monitor.Reset()
				fmt.Fprintln(c.app.Out, "change tracking reset")
			}

			if doDirty {
				dirty := c.app.Monitor.DirtyModules()
				if len(dirty) == 0 {
					fmt.Fprintln(c.app.Out, "no dirty modules")
				} else {
					fmt.Fprintf(c.app.Out, "dirty modules: %s\n", strings.Join(dirty, " "))
				}
			}

			if doStatus {
				c.printMonitorStatus()
			}

			if doDetach {
				c.app.Monitor.Detach()
				fmt.Fprintln(c.app.Out, "change monitor detached")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&doAttach, "attach", false, "Attach the monitor to the session design")
	cmd.Flags().BoolVar(&doDetach, "detach", false, "Detach the monitor from the design")
	cmd.Flags().BoolVar(&doStatus, "status", false, "Show change tracking status")
	cmd.Flags().BoolVar(&doReset, "reset", false, "Clear tracked changes and re-snapshot hashes")
	cmd.Flags().BoolVar(&doDirty, "dirty", false, "List modules that need re-synthesis")

	return cmd
}

func (c *CLI) printMonitorStatus() {
	if !c.app.Monitor.Attached() {
		fmt.Fprintln(c.app.Out, "change monitor not attached")
		return
	}
	fmt.Fprintln(c.app.Out, "change monitor attached")
	fmt.Fprintf(c.app.Out, "  added:    %d\n", len(c.app.Monitor.Added()))
	fmt.Fprintf(c.app.Out, "  deleted:  %d\n", len(c.app.Monitor.Deleted()))
	fmt.Fprintf(c.app.Out, "  modified: %d\n", len(c.app.Monitor.Modified()))
	if c.app.Monitor.HasChanges() {
		fmt.Fprintln(c.app.Out, c.app.Monitor.Summary())
	}
}
