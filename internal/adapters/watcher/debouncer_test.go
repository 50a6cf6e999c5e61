package watcher_test

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/watcher"
)

type batchCollector struct {
	mu      sync.Mutex
	batches [][]string
}

func (b *batchCollector) collect(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.Strings(paths)
	b.batches = append(b.batches, paths)
}

func (b *batchCollector) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.batches)
}

func (b *batchCollector) first() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.batches) == 0 {
		return nil
	}
	return b.batches[0]
}

func TestDebouncer_CoalescesRapidEvents(t *testing.T) {
	c := &batchCollector{}
	d := watcher.NewDebouncer(30*time.Millisecond, c.collect)

	d.Add("a.rtlil")
	d.Add("b.rtlil")
	d.Add("a.rtlil")

	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a.rtlil", "b.rtlil"}, c.first())
}

func TestDebouncer_SeparateWindowsSeparateBatches(t *testing.T) {
	c := &batchCollector{}
	d := watcher.NewDebouncer(10*time.Millisecond, c.collect)

	d.Add("a.rtlil")
	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, time.Millisecond)

	d.Add("b.rtlil")
	require.Eventually(t, func() bool { return c.count() == 2 }, time.Second, time.Millisecond)
}

func TestDebouncer_FlushDeliversPending(t *testing.T) {
	c := &batchCollector{}
	d := watcher.NewDebouncer(time.Hour, c.collect)

	d.Add("a.rtlil")
	d.Flush()

	assert.Equal(t, 1, c.count())
	assert.Equal(t, []string{"a.rtlil"}, c.first())
}

func TestDebouncer_FlushWithoutPendingIsNoOp(t *testing.T) {
	c := &batchCollector{}
	d := watcher.NewDebouncer(time.Hour, c.collect)
	d.Flush()
	assert.Equal(t, 0, c.count())
}
