// Package driver orchestrates an incremental synthesis run: hierarchy
// resolution, per-module content hashing, cache partitioning, optional
// conservative invalidation, cache restores, scoped synthesis of the
// misses, and write-back of fresh artifacts.
package driver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/domain"
	"go.trai.ch/zyphar/internal/core/ports"
	"go.trai.ch/zyphar/internal/engine/cache"
	"go.trai.ch/zyphar/internal/engine/depgraph"
)

// synthPasses is the pipeline run on cache misses, in order.
var synthPasses = []string{"proc", "opt -full", "techmap", "opt -full"}

// Options are the per-run driver flags.
type Options struct {
	// Top optionally names the top module for hierarchy resolution.
	Top string
	// Full forces re-synthesis of every module regardless of the cache.
	Full bool
	// NoCache skips write-back and the end-of-run save.
	NoCache bool
	// Stats emits cache statistics at the end of the run.
	Stats bool
	// SkipHierarchy assumes the design is already hierarchy-resolved.
	SkipHierarchy bool
	// Conservative widens the miss set with every transitive dependent of
	// a miss, guarding against cross-module optimizations.
	Conservative bool
}

// Result summarizes one run.
type Result struct {
	FromCache   []string
	Synthesized []string
	Hashes      map[string]uint64
	Duration    time.Duration
}

// Driver wires the cache, graph, and pass runner into the incremental
// synthesis loop.
type Driver struct {
	cache  *cache.Cache
	graph  *depgraph.Graph
	runner ports.PassRunner
	log    ports.Logger
	tel    ports.Telemetry
	now    func() time.Time
}

// New creates a driver.
func New(c *cache.Cache, g *depgraph.Graph, runner ports.PassRunner, log ports.Logger, tel ports.Telemetry) *Driver {
	return &Driver{
		cache:  c,
		graph:  g,
		runner: runner,
		log:    log,
		tel:    tel,
		now:    time.Now,
	}
}

// Synth runs one incremental synthesis round over the design. The only
// hard error is a failing hierarchy pass; every other failure degrades to
// a warning and a wider miss set.
func (d *Driver) Synth(ctx context.Context, design ports.Design, opts Options) (*Result, error) {
	start := d.now()

	if !d.cache.Initialized() && !d.cache.Init("") {
		d.log.Warn("cache unavailable, running without it")
		opts.NoCache = true
	}

	if !opts.SkipHierarchy {
		if err := d.resolveHierarchy(ctx, design, opts.Top); err != nil {
			return nil, err
		}
	}

	d.phase("analyzing module dependencies")
	d.graph.Build(design)
	d.log.Info(fmt.Sprintf("found %d modules", d.graph.ModuleCount()))

	d.phase("computing input content hashes")
	hashes := make(map[string]uint64)
	for _, mod := range design.Modules() {
		hashes[mod.Name()] = mod.ContentHash()
	}

	d.phase("determining modules to synthesize")
	fromCache, toSynthesize := d.partition(design, hashes, opts.Full)

	if opts.Conservative && len(toSynthesize) > 0 {
		d.widenConservatively(hashes, fromCache, toSynthesize)
	}

	d.phase("restoring cached modules")
	d.restoreHits(ctx, design, hashes, fromCache, toSynthesize)

	d.phase("running synthesis")
	if err := d.synthesize(ctx, design, sortedSet(toSynthesize)); err != nil {
		return nil, err
	}

	if !opts.NoCache {
		d.phase("updating cache")
		d.writeBack(design, hashes, toSynthesize)
		if err := d.cache.SaveToDisk(); err != nil {
			d.log.Warn(fmt.Sprintf("failed to persist cache: %v", err))
		}
	}

	result := &Result{
		FromCache:   sortedSet(fromCache),
		Synthesized: sortedSet(toSynthesize),
		Hashes:      hashes,
		Duration:    d.now().Sub(start),
	}

	d.log.Info(fmt.Sprintf("incremental synthesis complete: %d synthesized, %d from cache in %s",
		len(result.Synthesized), len(result.FromCache), result.Duration.Round(time.Millisecond)))
	if opts.Stats {
		d.logStats()
	}
	return result, nil
}

// resolveHierarchy invokes the external hierarchy pass. Its failure is the
// one error the driver escalates.
func (d *Driver) resolveHierarchy(ctx context.Context, design ports.Design, top string) error {
	d.phase("resolving hierarchy")
	_, v := d.tel.Record(ctx, "hierarchy")

	cmd := "hierarchy -check"
	if top != "" {
		cmd += " -top " + top
	}
	err := d.runner.Call(design, cmd)
	v.Complete(err)
	if err != nil {
		return zerr.Wrap(err, domain.ErrHierarchyFailed.Error())
	}
	return nil
}

// partition splits the design's modules into cache hits and misses keyed
// on each module's pre-synthesis content hash.
func (d *Driver) partition(design ports.Design, hashes map[string]uint64, full bool) (hits, misses map[string]struct{}) {
	hits = make(map[string]struct{})
	misses = make(map[string]struct{})

	for _, mod := range design.Modules() {
		name := mod.Name()
		if full {
			misses[name] = struct{}{}
			continue
		}
		if d.cache.Has(name, hashes[name], domain.PassPostHierarchy) {
			hits[name] = struct{}{}
			d.log.Info(fmt.Sprintf("  [CACHED]  %s (hash 0x%016x)", name, hashes[name]))
		} else {
			misses[name] = struct{}{}
			d.log.Info(fmt.Sprintf("  [SYNTH]   %s (hash 0x%016x)", name, hashes[name]))
		}
	}
	if full {
		d.log.Info("full synthesis requested, ignoring cache")
	}
	return hits, misses
}

// widenConservatively moves every transitive dependent of a miss from the
// hit set into the miss set and invalidates its cache entries. A dependent
// may be affected by cross-module optimizations even when its own hash is
// unchanged.
func (d *Driver) widenConservatively(hashes map[string]uint64, hits, misses map[string]struct{}) {
	affected := d.graph.AffectedModules(sortedSet(misses))
	dependents := d.graph.DependentsMap()

	var widened []string
	for name := range affected {
		if _, isHit := hits[name]; !isHit {
			continue
		}
		delete(hits, name)
		misses[name] = struct{}{}
		widened = append(widened, name)
	}
	sort.Strings(widened)

	for _, name := range widened {
		d.log.Info(fmt.Sprintf("  [AFFECTED] %s (hash 0x%016x, dependency re-synthesized)", name, hashes[name]))
	}
	if len(widened) > 0 {
		d.cache.InvalidateAffected(widened, dependents)
	}
}

// restoreHits replaces each hit module's pre-synthesis body with the
// cached post-synthesis artifact. A failed restore re-adds the detached
// module and demotes it to the miss set.
func (d *Driver) restoreHits(ctx context.Context, design ports.Design, hashes map[string]uint64, hits, misses map[string]struct{}) {
	for _, name := range sortedSet(hits) {
		_, v := d.tel.Record(ctx, "restore "+name)

		detached := design.Remove(name)
		if d.cache.Restore(name, hashes[name], domain.PassPostHierarchy, design) {
			v.Cached()
			v.Complete(nil)
			continue
		}

		// The pre-synthesis module is still in hand, so a failed restore
		// falls back to re-synthesis instead of losing the module.
		if detached != nil {
			design.Add(detached)
		}
		d.log.Warn(fmt.Sprintf("restore failed for %s, re-synthesizing", name))
		delete(hits, name)
		misses[name] = struct{}{}
		v.Complete(zerr.With(zerr.New("restore failed"), "module", name))
	}
}

// synthesize runs the pass pipeline scoped to the miss set. An empty miss
// set skips synthesis entirely.
func (d *Driver) synthesize(ctx context.Context, design ports.Design, misses []string) error {
	if len(misses) == 0 {
		d.log.Info("no modules need synthesis, all cached")
		return nil
	}

	selection := ""
	if d.runner.SupportsSelection() {
		selection = " " + strings.Join(misses, " ")
	} else {
		d.log.Warn("pass runner does not honor selections, running global synthesis")
	}

	for _, pass := range synthPasses {
		_, v := d.tel.Record(ctx, pass)
		err := d.runner.Call(design, pass+selection)
		v.Complete(err)
		if err != nil {
			d.log.Warn(fmt.Sprintf("pass %q failed: %v", pass, err))
		}
	}
	return nil
}

// writeBack stores the post-synthesis body of every miss under its
// pre-synthesis hash, so the next run's lookup (which hashes the
// pre-synthesis module) finds the same key.
func (d *Driver) writeBack(design ports.Design, hashes map[string]uint64, misses map[string]struct{}) {
	for _, name := range sortedSet(misses) {
		mod := design.Module(name)
		if mod == nil {
			d.log.Warn(fmt.Sprintf("module %s disappeared during synthesis, not cached", name))
			continue
		}
		d.cache.Put(name, hashes[name], domain.PassPostHierarchy, mod)
	}
}

func (d *Driver) phase(title string) {
	d.log.Info("=== " + title + " ===")
}

func (d *Driver) logStats() {
	d.log.Info(fmt.Sprintf("cache statistics: %d entries, %d hits, %d misses, %.1f%% hit rate",
		d.cache.EntryCount(), d.cache.HitCount(), d.cache.MissCount(), d.cache.HitRate()))
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
