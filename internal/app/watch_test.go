package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/config"
	"go.trai.ch/zyphar/internal/adapters/rtl"
	"go.trai.ch/zyphar/internal/adapters/telemetry"
	"go.trai.ch/zyphar/internal/app"
	"go.trai.ch/zyphar/internal/engine/cache"
	"go.trai.ch/zyphar/internal/engine/depgraph"
	"go.trai.ch/zyphar/internal/engine/driver"
	"go.trai.ch/zyphar/internal/engine/monitor"
)

type testLogger struct {
	infos []string
	warns []string
	errs  []error
}

func (l *testLogger) Info(msg string) { l.infos = append(l.infos, msg) }
func (l *testLogger) Warn(msg string) { l.warns = append(l.warns, msg) }
func (l *testLogger) Error(err error) { l.errs = append(l.errs, err) }

// syncBuffer guards the output buffer; the watch loop writes events from
// its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func newTestApp(t *testing.T) (*app.App, *syncBuffer, *testLogger) {
	t.Helper()

	log := &testLogger{}
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Cache.Dir = dir
	cfg.Watch.Poll = 20 * time.Millisecond
	cfg.Watch.Debounce = 5 * time.Millisecond

	backend := rtl.NewBackend()
	frontend := rtl.NewFrontend()
	c := cache.New(cache.Config{
		Dir:          dir,
		MaxEntries:   cfg.Cache.MaxEntries,
		MaxSizeBytes: cfg.Cache.MaxSizeBytes,
	}, backend, frontend, log)

	g := depgraph.New(log)
	drv := driver.New(c, g, rtl.NewRunner(log), log, telemetry.NewNoOp())

	a := app.New(cfg, log, telemetry.NewNoOp(), rtl.NewDesign(), frontend, c, g, monitor.New(log), drv)

	out := &syncBuffer{}
	a.Out = out
	return a, out, log
}

func writeDesignFile(t *testing.T, path string) {
	t.Helper()
	content := "module top\n  wire 1 clk\n  cell alu u_alu\nend\nmodule alu\n  wire 8 a\nend\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatch_OnceEmitsEvent(t *testing.T) {
	a, out, _ := newTestApp(t)

	file := filepath.Join(t.TempDir(), "top.rtlil")
	writeDesignFile(t, file)

	err := a.Watch(context.Background(), app.WatchOptions{
		Top:   "top",
		Once:  true,
		Files: []string{file},
	})
	require.NoError(t, err)

	var event struct {
		Event        string   `json:"event"`
		TimeMS       int64    `json:"time_ms"`
		ChangedFiles []string `json:"changed_files"`
		Modules      []struct {
			Name  string `json:"name"`
			Cells int    `json:"cells"`
			Wires int    `json:"wires"`
		} `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &event))
	assert.Equal(t, "synthesis_complete", event.Event)
	assert.Equal(t, []string{file}, event.ChangedFiles)
	require.Len(t, event.Modules, 2)
	assert.Equal(t, "alu", event.Modules[0].Name)
	assert.Equal(t, 1, event.Modules[0].Wires)
	assert.Equal(t, "top", event.Modules[1].Name)
	assert.Equal(t, 1, event.Modules[1].Cells)
}

func TestWatch_NoFilesIsAnError(t *testing.T) {
	a, _, _ := newTestApp(t)
	assert.Error(t, a.Watch(context.Background(), app.WatchOptions{Once: true}))
}

func TestWatch_MissingFileTolerated(t *testing.T) {
	a, _, log := newTestApp(t)

	missing := filepath.Join(t.TempDir(), "ghost.rtlil")
	err := a.Watch(context.Background(), app.WatchOptions{
		Once:  true,
		Files: []string{missing},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, log.warns)
}

func TestWatch_PollLoopPicksUpChange(t *testing.T) {
	a, out, _ := newTestApp(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "top.rtlil")
	writeDesignFile(t, file)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, app.WatchOptions{Top: "top", Files: []string{file}})
	}()

	// Wait for the initial round, then edit the file with a future mtime
	// so the poller sees the change.
	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("synthesis_complete"))
	}, 5*time.Second, 10*time.Millisecond)

	content := "module top\n  wire 1 clk\n  wire 1 rst\n  cell alu u_alu\nend\nmodule alu\n  wire 8 a\nend\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(file, future, future))

	require.Eventually(t, func() bool {
		return bytes.Count(out.Bytes(), []byte("synthesis_complete")) >= 2
	}, 10*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
