package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/zyphar/internal/engine/driver"
)

func (c *CLI) newSynthCmd() *cobra.Command {
	var opts driver.Options

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Run incremental synthesis with module-level caching",
		Long: `Run incremental synthesis over the session design. Only modules whose
content changed since the last run are re-synthesized; the rest are
restored from the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Synth(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Top, "top", "", "Top module for hierarchy resolution")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "Force full synthesis, ignoring the cache")
	cmd.Flags().BoolVar(&opts.NoCache, "nocache", false, "Do not update the cache with results")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Show cache statistics at the end of the run")
	cmd.Flags().BoolVar(&opts.SkipHierarchy, "nohierarchy", false, "Assume the design is already hierarchy-resolved")
	cmd.Flags().BoolVar(&opts.Conservative, "conservative", false, "Also re-synthesize transitive dependents of changed modules")

	return cmd
}
