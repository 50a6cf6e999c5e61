package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/zyphar/internal/adapters/watcher"
	"go.trai.ch/zyphar/internal/engine/driver"
)

// failureThreshold is the number of consecutive failed rounds after which
// the watch loop escalates its logging.
const failureThreshold = 5

// WatchOptions configure the watch loop.
type WatchOptions struct {
	// Top optionally names the top module.
	Top string
	// Poll is the mtime polling interval; zero uses the configured one.
	Poll time.Duration
	// Debounce is the stability re-check window; zero uses the configured one.
	Debounce time.Duration
	// Port reserves a streaming endpoint; accepted but not implemented.
	Port int
	// Once runs a single round and exits.
	Once bool
	// Notify switches change detection from mtime polling to fsnotify.
	Notify bool
	// Files are the source files to watch and read.
	Files []string
}

// watchEvent is the JSON object emitted to Out after each synthesis round.
type watchEvent struct {
	Event        string        `json:"event"`
	TimeMS       int64         `json:"time_ms"`
	ChangedFiles []string      `json:"changed_files"`
	Modules      []watchModule `json:"modules"`
}

type watchModule struct {
	Name  string `json:"name"`
	Cells int    `json:"cells"`
	Wires int    `json:"wires"`
}

// Watch reads the given files, runs an initial synthesis round, then
// re-runs a round whenever the files change, until ctx is cancelled. The
// loop never interrupts an in-flight round; cancellation is honored
// between rounds.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if len(opts.Files) == 0 {
		return zerr.New("no files specified to watch")
	}
	if opts.Poll <= 0 {
		opts.Poll = a.Config.Watch.Poll
	}
	if opts.Debounce <= 0 {
		opts.Debounce = a.Config.Watch.Debounce
	}
	if opts.Port > 0 {
		a.Logger.Warn(fmt.Sprintf("streaming port %d requested but not implemented, events go to stdout", opts.Port))
	}

	a.EnsureCache()

	poller := watcher.NewPoller(opts.Files, a.Logger)
	for _, file := range opts.Files {
		a.Logger.Info(fmt.Sprintf("watching %s (mtime %d)", file, poller.Mtime(file).Unix()))
	}

	a.Logger.Info("reading initial design")
	a.reloadDesign(opts.Files)
	if _, err := a.watchRound(ctx, opts, opts.Files); err != nil {
		a.Logger.Error(err)
	}

	if opts.Once {
		a.Logger.Info("one-shot mode, exiting")
		return nil
	}

	if opts.Notify {
		return a.watchNotify(ctx, opts, poller)
	}
	return a.watchPoll(ctx, opts, poller)
}

// watchPoll is the mtime-polling loop.
func (a *App) watchPoll(ctx context.Context, opts WatchOptions, poller *watcher.Poller) error {
	ticker := time.NewTicker(opts.Poll)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			a.Logger.Info("watch mode stopped")
			return nil
		case <-ticker.C:
		}

		changed := poller.Poll()
		if len(changed) == 0 {
			continue
		}

		// Debounce: a file still being written moves again during the
		// window; wait for its mtime to hold still before acting.
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(opts.Debounce):
			}
			if poller.Stable(changed) {
				break
			}
		}

		a.runRound(ctx, opts, changed, &failures)
	}
}

// watchNotify is the fsnotify-driven loop. Events arrive pre-debounced
// from the watcher adapter.
func (a *App) watchNotify(ctx context.Context, opts WatchOptions, poller *watcher.Poller) error {
	notify, err := watcher.NewNotify(opts.Files, opts.Debounce, a.Logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return notify.Stop()
	})
	g.Go(func() error {
		batches, err := notify.Start(ctx)
		if err != nil {
			return err
		}
		failures := 0
		for {
			select {
			case <-ctx.Done():
				a.Logger.Info("watch mode stopped")
				return nil
			case changed := <-batches:
				poller.Stable(changed)
				a.runRound(ctx, opts, changed, &failures)
			}
		}
	})
	return g.Wait()
}

// runRound executes one reload+synthesis round, counting consecutive
// failures. A failing round is logged and the loop continues.
func (a *App) runRound(ctx context.Context, opts WatchOptions, changed []string, failures *int) {
	for _, file := range changed {
		a.Logger.Info("file changed: " + file)
	}

	a.Logger.Info("reloading design")
	a.reloadDesign(opts.Files)

	event, err := a.watchRound(ctx, opts, changed)
	if err != nil {
		*failures++
		a.Logger.Error(zerr.Wrap(err, "synthesis round failed"))
		if *failures >= failureThreshold {
			a.Logger.Error(zerr.With(zerr.New("watch loop keeps failing"), "consecutive_failures", *failures))
		}
		return
	}
	*failures = 0

	a.Logger.Info(fmt.Sprintf("incremental synthesis completed in %d ms", event.TimeMS))
}

// reloadDesign clears the session design and re-reads every watched file.
// A missing file is tolerated with a warning.
func (a *App) reloadDesign(files []string) {
	for _, mod := range a.Design.Modules() {
		a.Design.Remove(mod.Name())
	}
	for _, file := range files {
		if err := a.Frontend.Call(a.Design, "rtlil", file); err != nil {
			a.Logger.Warn(fmt.Sprintf("failed to read %s: %v", file, err))
		}
	}
}

// watchRound invokes the incremental driver and emits the JSON completion
// event to Out.
func (a *App) watchRound(ctx context.Context, opts WatchOptions, changed []string) (*watchEvent, error) {
	result, err := a.Driver.Synth(ctx, a.Design, driver.Options{Top: opts.Top})
	if err != nil {
		return nil, err
	}

	event := &watchEvent{
		Event:        "synthesis_complete",
		TimeMS:       result.Duration.Milliseconds(),
		ChangedFiles: changed,
	}
	for _, mod := range a.Design.Modules() {
		event.Modules = append(event.Modules, watchModule{
			Name:  mod.Name(),
			Cells: mod.CellCount(),
			Wires: mod.WireCount(),
		})
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode watch event")
	}
	fmt.Fprintln(a.Out, string(data))
	return event, nil
}
