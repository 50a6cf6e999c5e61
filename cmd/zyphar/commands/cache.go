package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/domain"
)

//nolint:cyclop // The command mirrors the flag surface of the cache, one action per flag
func (c *CLI) newCacheCmd() *cobra.Command {
	var (
		doInit     bool
		doStatus   bool
		doList     bool
		doClear    bool
		doSave     bool
		doEvict    bool
		invalidate string
		store      string
		restore    string
		seq        string
		maxEntries int
		maxSizeMB  int64
		maxAgeDays int
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the module cache for incremental synthesis",
		Long: `Manage the module cache for incremental synthesis.

Without flags, the cache is initialized (honoring --cache-dir) and its
status is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			anyAction := doInit || doStatus || doList || doClear || doSave || doEvict ||
				invalidate != "" || store != "" || restore != ""
			if !anyAction {
				doInit = true
				doStatus = true
			}

			if doInit {
				if c.app.Cache.Initialized() {
					fmt.Fprintf(c.app.Out, "cache already initialized at %s\n", c.app.Cache.Dir())
				} else if !c.app.EnsureCache() {
					return zerr.New("cache initialization failed")
				}
			}

			if !c.app.Cache.Initialized() {
				return zerr.Wrap(domain.ErrCacheNotInitialized, "use --init first")
			}

			if cmd.Flags().Changed("max-entries") {
				c.app.Cache.SetMaxEntries(maxEntries)
			}
			if cmd.Flags().Changed("max-size") {
				c.app.Cache.SetMaxSizeBytes(maxSizeMB << 20)
			}
			if cmd.Flags().Changed("max-age") {
				c.app.Cache.SetMaxAge(time.Duration(maxAgeDays) * 24 * time.Hour)
			}

			if doEvict {
				before := c.app.Cache.EntryCount()
				c.app.Cache.EvictIfNeeded()
				fmt.Fprintf(c.app.Out, "eviction complete: %d -> %d entries\n", before, c.app.Cache.EntryCount())
			}

			if doClear {
				c.app.Cache.Clear()
				fmt.Fprintln(c.app.Out, "cache cleared")
			}

			if invalidate != "" {
				c.app.Cache.Invalidate(invalidate)
			}

			if store != "" {
				mod := c.app.Design.Module(store)
				if mod == nil {
					return zerr.With(domain.ErrModuleNotFound, "module", store)
				}
				if !c.app.Cache.Put(store, mod.ContentHash(), seq, mod) {
					return zerr.With(zerr.New("failed to store module in cache"), "module", store)
				}
			}

			if restore != "" {
				mod := c.app.Design.Module(restore)
				if mod == nil {
					return zerr.Wrap(
						zerr.With(domain.ErrModuleNotFound, "module", restore),
						"module not in design, cannot determine hash for lookup")
				}
				if c.app.Cache.Restore(restore, mod.ContentHash(), seq, c.app.Design) {
					fmt.Fprintf(c.app.Out, "restored module %s from cache\n", restore)
				} else {
					fmt.Fprintf(c.app.Out, "module %s not found in cache\n", restore)
				}
			}

			if doSave {
				if err := c.app.Cache.SaveToDisk(); err != nil {
					return err
				}
			}

			if doStatus {
				c.printCacheStatus()
			}

			if doList {
				c.printCacheEntries()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&doInit, "init", false, "Initialize the cache (directory from --cache-dir or the default)")
	cmd.Flags().BoolVar(&doStatus, "status", false, "Show cache statistics")
	cmd.Flags().BoolVar(&doList, "list", false, "List all cached entries")
	cmd.Flags().BoolVar(&doClear, "clear", false, "Clear all cached entries")
	cmd.Flags().BoolVar(&doSave, "save", false, "Save the cache to disk")
	cmd.Flags().BoolVar(&doEvict, "evict", false, "Force eviction based on current limits")
	cmd.Flags().StringVar(&invalidate, "invalidate", "", "Invalidate all cached versions of a module")
	cmd.Flags().StringVar(&store, "store", "", "Store the current state of a module in the cache")
	cmd.Flags().StringVar(&restore, "restore", "", "Restore a module from the cache if available")
	cmd.Flags().StringVar(&seq, "seq", "", "Pass sequence tag for --store and --restore")
	cmd.Flags().IntVar(&maxEntries, "max-entries", 1000, "Maximum number of cache entries")
	cmd.Flags().Int64Var(&maxSizeMB, "max-size", 500, "Maximum cache size in megabytes")
	cmd.Flags().IntVar(&maxAgeDays, "max-age", 30, "Maximum cache entry age in days (0 disables)")

	return cmd
}

func (c *CLI) printCacheStatus() {
	fmt.Fprintln(c.app.Out, "=== cache statistics ===")
	fmt.Fprintf(c.app.Out, "  directory:  %s\n", c.app.Cache.Dir())
	fmt.Fprintf(c.app.Out, "  entries:    %d\n", c.app.Cache.EntryCount())
	fmt.Fprintf(c.app.Out, "  total size: %d bytes\n", c.app.Cache.TotalBodyBytes())
	fmt.Fprintf(c.app.Out, "  hits:       %d\n", c.app.Cache.HitCount())
	fmt.Fprintf(c.app.Out, "  misses:     %d\n", c.app.Cache.MissCount())
	fmt.Fprintf(c.app.Out, "  hit rate:   %.1f%%\n", c.app.Cache.HitRate())
}

func (c *CLI) printCacheEntries() {
	fmt.Fprintln(c.app.Out, "=== cache entries ===")
	for _, entry := range c.app.Cache.Entries() {
		fmt.Fprintf(c.app.Out, "  %s\n", entry.ModuleName)
		fmt.Fprintf(c.app.Out, "    hash: 0x%016x\n", entry.ContentHash)
		fmt.Fprintf(c.app.Out, "    pass: %s\n", entry.PassSequence)
		fmt.Fprintf(c.app.Out, "    hits: %d\n", entry.HitCount)
		fmt.Fprintf(c.app.Out, "    size: %d bytes\n", entry.BodySize())
	}
}
