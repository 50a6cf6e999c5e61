package commands

import (
	"time"

	"github.com/spf13/cobra"

	"go.trai.ch/zyphar/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var (
		top    string
		pollMS int
		port   int
		once   bool
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "watch [flags] <files...>",
		Short: "Watch source files and re-synthesize on change",
		Long: `Watch textual IR source files and run an incremental synthesis round
whenever one of them changes. A JSON event is written to stdout after
each completed round. Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Top:    top,
				Poll:   time.Duration(pollMS) * time.Millisecond,
				Port:   port,
				Once:   once,
				Notify: notify,
				Files:  args,
			})
		},
	}

	cmd.Flags().StringVar(&top, "top", "", "Top module for hierarchy resolution")
	cmd.Flags().IntVar(&pollMS, "poll", 0, "Polling interval in milliseconds (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "Streaming port for real-time updates (not implemented)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single round and exit")
	cmd.Flags().BoolVar(&notify, "notify", false, "Use file system notifications instead of polling")

	return cmd
}
