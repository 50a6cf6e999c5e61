package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/rtl"
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

func attachedMonitor(t *testing.T) (*monitor.Monitor, *rtl.Design) {
	t.Helper()
	d := rtl.NewDesign()
	d.Add(rtl.NewModule("top"))
	d.Add(rtl.NewModule("alu"))

	m := monitor.New(&testLogger{})
	m.Attach(d)
	require.True(t, m.Attached())
	return m, d
}

// assertDisjoint checks the monitor's core invariant: the three sets never
// overlap.
func assertDisjoint(t *testing.T, m *monitor.Monitor) {
	t.Helper()
	seen := make(map[string]string)
	for _, name := range m.Added() {
		seen[name] = "added"
	}
	for _, name := range m.Deleted() {
		if prev, ok := seen[name]; ok {
			t.Fatalf("module %s in both %s and deleted", name, prev)
		}
		seen[name] = "deleted"
	}
	for _, name := range m.Modified() {
		if prev, ok := seen[name]; ok {
			t.Fatalf("module %s in both %s and modified", name, prev)
		}
	}
}

func TestMonitor_AttachSnapshotsHashes(t *testing.T) {
	m, d := attachedMonitor(t)

	h, ok := m.OriginalHash("top")
	assert.True(t, ok)
	assert.Equal(t, d.Module("top").ContentHash(), h)

	_, ok = m.OriginalHash("ghost")
	assert.False(t, ok)
	assert.False(t, m.HasChanges())
}

func TestMonitor_AddDelete(t *testing.T) {
	m, d := attachedMonitor(t)

	d.Add(rtl.NewModule("x"))
	assert.Equal(t, []string{"x"}, m.Added())
	assertDisjoint(t, m)

	d.Remove("x")
	assert.Empty(t, m.Added())
	assert.Empty(t, m.Deleted())
	assert.Empty(t, m.Modified())
	assertDisjoint(t, m)

	// Re-adding after the transient delete is a plain add again.
	d.Add(rtl.NewModule("x"))
	assert.Equal(t, []string{"x"}, m.Added())
	assert.Equal(t, []string{"x"}, m.DirtyModules())
	assertDisjoint(t, m)
}

func TestMonitor_DeleteThenReAddIsModification(t *testing.T) {
	m, d := attachedMonitor(t)

	d.Remove("alu")
	assert.Equal(t, []string{"alu"}, m.Deleted())
	assertDisjoint(t, m)

	d.Add(rtl.NewModule("alu"))
	assert.Empty(t, m.Deleted())
	assert.Equal(t, []string{"alu"}, m.Modified())
	assertDisjoint(t, m)
}

func TestMonitor_DeleteRemovesModifiedMark(t *testing.T) {
	m, d := attachedMonitor(t)

	alu := d.Module("alu").(*rtl.Module)
	alu.Connect("a", "b")
	assert.Equal(t, []string{"alu"}, m.Modified())

	d.Remove("alu")
	assert.Empty(t, m.Modified())
	assert.Equal(t, []string{"alu"}, m.Deleted())
	assertDisjoint(t, m)
}

func TestMonitor_ConnectMarksModified(t *testing.T) {
	m, d := attachedMonitor(t)

	alu := d.Module("alu").(*rtl.Module)
	cell := alu.AddCell("$and", "and0")

	alu.SetCellConn(cell, "A", "net1")
	assert.Equal(t, []string{"alu"}, m.Modified())

	m.Reset()
	alu.Connect("x", "y")
	assert.Equal(t, []string{"alu"}, m.Modified())

	m.Reset()
	alu.SetConnections([][2]string{{"p", "q"}})
	assert.Equal(t, []string{"alu"}, m.Modified())

	m.Reset()
	alu.Blackout()
	assert.Equal(t, []string{"alu"}, m.Modified())
	assertDisjoint(t, m)
}

func TestMonitor_ModifyInvalidatesContentHash(t *testing.T) {
	m, d := attachedMonitor(t)

	alu := d.Module("alu").(*rtl.Module)
	cell := alu.AddCell("$and", "and0")
	alu.InvalidateContentHash()
	before := alu.ContentHash()

	// The connect event must invalidate the cached hash so the next
	// ContentHash call sees the mutation.
	alu.SetCellConn(cell, "A", "net1")
	after := alu.ContentHash()
	assert.NotEqual(t, before, after)
	assert.True(t, m.IsDirty("alu"))
}

func TestMonitor_JustAddedModuleStaysAdded(t *testing.T) {
	m, d := attachedMonitor(t)

	x := rtl.NewModule("x")
	d.Add(x)
	x.Connect("a", "b")

	assert.Equal(t, []string{"x"}, m.Added())
	assert.Empty(t, m.Modified())
	assertDisjoint(t, m)
}

func TestMonitor_DirtyModules(t *testing.T) {
	m, d := attachedMonitor(t)

	d.Add(rtl.NewModule("x"))
	alu := d.Module("alu").(*rtl.Module)
	alu.Connect("a", "b")
	d.Remove("top")

	assert.Equal(t, []string{"alu", "x"}, m.DirtyModules())
	assert.True(t, m.IsDirty("x"))
	assert.True(t, m.IsDirty("alu"))
	assert.False(t, m.IsDirty("top"), "deleted modules are not dirty")
}

func TestMonitor_Reset(t *testing.T) {
	m, d := attachedMonitor(t)

	d.Add(rtl.NewModule("x"))
	d.Remove("top")
	require.True(t, m.HasChanges())

	m.Reset()
	assert.False(t, m.HasChanges())

	// The snapshot now covers the post-reset design.
	h, ok := m.OriginalHash("x")
	assert.True(t, ok)
	assert.Equal(t, d.Module("x").ContentHash(), h)
	_, ok = m.OriginalHash("top")
	assert.False(t, ok)
}

func TestMonitor_DetachStopsObservation(t *testing.T) {
	m, d := attachedMonitor(t)

	m.Detach()
	assert.False(t, m.Attached())

	d.Add(rtl.NewModule("x"))
	assert.Empty(t, m.Added())
}

func TestMonitor_Summary(t *testing.T) {
	m, d := attachedMonitor(t)
	assert.Equal(t, "no changes detected", m.Summary())

	d.Add(rtl.NewModule("x"))
	d.Remove("top")
	alu := d.Module("alu").(*rtl.Module)
	alu.Connect("a", "b")

	summary := m.Summary()
	assert.Contains(t, summary, "+ x")
	assert.Contains(t, summary, "- top")
	assert.Contains(t, summary, "~ alu")
}
