package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/ports"
)

var _ ports.FileWatcher = (*Notify)(nil)

// Notify is the event-driven alternative to the poller, built on fsnotify.
// Raw events are funneled through a debouncer so a burst of writes to the
// same file yields one batch.
type Notify struct {
	files    []string
	window   time.Duration
	log      ports.Logger
	fs       *fsnotify.Watcher
	batches  chan []string
	debounce *Debouncer
}

// NewNotify creates an fsnotify-backed watcher over the given files with
// the given debounce window.
func NewNotify(files []string, window time.Duration, log ports.Logger) (*Notify, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create fsnotify watcher")
	}

	n := &Notify{
		files:   append([]string(nil), files...),
		window:  window,
		log:     log,
		fs:      fs,
		batches: make(chan []string, 16),
	}
	n.debounce = NewDebouncer(window, func(paths []string) {
		n.batches <- paths
	})
	return n, nil
}

// Start registers the watched files and begins delivering debounced
// batches until ctx is cancelled.
func (n *Notify) Start(ctx context.Context) (<-chan []string, error) {
	for _, file := range n.files {
		if err := n.fs.Add(file); err != nil {
			n.log.Warn(fmt.Sprintf("cannot watch %s: %v", file, err))
		}
	}

	go n.pump(ctx)
	return n.batches, nil
}

// Stop releases fsnotify resources.
func (n *Notify) Stop() error {
	return n.fs.Close()
}

func (n *Notify) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-n.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				n.debounce.Add(event.Name)
			}
			// An editor replacing the file drops the watch; re-add so
			// subsequent saves keep arriving.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				_ = n.fs.Add(event.Name)
			}
		case err, ok := <-n.fs.Errors:
			if !ok {
				return
			}
			n.log.Warn(fmt.Sprintf("file watcher error: %v", err))
		}
	}
}
