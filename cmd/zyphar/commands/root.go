// Package commands implements the CLI commands for the zyphar tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"go.trai.ch/zyphar/internal/app"
)

// CLI represents the command line interface for zyphar.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "zyphar",
		Short:         "Incremental re-synthesis accelerator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringArrayP("design", "d", nil, "Textual IR file loaded into the session design (repeatable)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Override the cache directory")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		dir, err := cmd.Flags().GetString("cache-dir")
		if err != nil {
			return err
		}
		a.CacheDir = dir

		designs, err := cmd.Flags().GetStringArray("design")
		if err != nil {
			return err
		}
		return a.LoadDesigns(designs)
	}

	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newDepsCmd())
	rootCmd.AddCommand(c.newMonitorCmd())
	rootCmd.AddCommand(c.newSynthCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used by main and tests.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
