package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/watcher"
)

type testLogger struct {
	infos []string
	warns []string
	errs  []error
}

func (l *testLogger) Info(msg string) { l.infos = append(l.infos, msg) }
func (l *testLogger) Warn(msg string) { l.warns = append(l.warns, msg) }
func (l *testLogger) Error(err error) { l.errs = append(l.errs, err) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPoller_DetectsMtimeChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "top.rtlil")
	writeFile(t, file, "module top\nend\n")

	p := watcher.NewPoller([]string{file}, &testLogger{})
	assert.Empty(t, p.Poll())

	// Push the mtime forward explicitly; sub-second writes may not tick
	// the file system clock.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(file, future, future))

	changed := p.Poll()
	assert.Equal(t, []string{file}, changed)
	assert.Empty(t, p.Poll(), "change reported once")
}

func TestPoller_MissingFileRecordedAsZero(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "ghost.rtlil")

	log := &testLogger{}
	p := watcher.NewPoller([]string{missing}, log)
	assert.True(t, p.Mtime(missing).IsZero())
	assert.NotEmpty(t, log.warns)

	// The file appearing later registers as a change.
	writeFile(t, missing, "module ghost\nend\n")
	assert.Equal(t, []string{missing}, p.Poll())
}

func TestPoller_FileDeletedMidSession(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "top.rtlil")
	writeFile(t, file, "module top\nend\n")

	log := &testLogger{}
	p := watcher.NewPoller([]string{file}, log)
	require.NoError(t, os.Remove(file))

	changed := p.Poll()
	assert.Equal(t, []string{file}, changed)
	assert.True(t, p.Mtime(file).IsZero())
	assert.NotEmpty(t, log.warns)
}

func TestPoller_Stable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "top.rtlil")
	writeFile(t, file, "module top\nend\n")

	p := watcher.NewPoller([]string{file}, &testLogger{})
	assert.True(t, p.Stable([]string{file}))

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(file, future, future))
	assert.False(t, p.Stable([]string{file}), "moving mtime is unstable")
	assert.True(t, p.Stable([]string{file}), "held mtime is stable again")
}
