package rtl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/zyphar/internal/adapters/rtl"
	"go.trai.ch/zyphar/internal/core/ports"
)

type testLogger struct {
	infos []string
	warns []string
	errs  []error
}

func (l *testLogger) Info(msg string) { l.infos = append(l.infos, msg) }
func (l *testLogger) Warn(msg string) { l.warns = append(l.warns, msg) }
func (l *testLogger) Error(err error) { l.errs = append(l.errs, err) }

func sampleModule() *rtl.Module {
	m := rtl.NewModule("alu")
	m.AddPort("clk", "input")
	m.AddWire("clk", 1)
	m.AddWire("result", 8)
	c := m.AddCell("$add", "add0")
	c.SetConn("A", "a_in")
	m.Connect("result", "add0_y")
	return m
}

func TestModule_ContentHashStability(t *testing.T) {
	a := sampleModule()
	b := sampleModule()
	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.True(t, a.ContentMatches(b.ContentHash()))

	// The hash is cached until invalidated.
	first := a.ContentHash()
	assert.Equal(t, first, a.ContentHash())
}

func TestModule_ContentHashChangesWithContent(t *testing.T) {
	a := sampleModule()
	base := a.ContentHash()

	a.AddWire("extra", 4)
	assert.NotEqual(t, base, a.ContentHash())

	b := sampleModule()
	c := rtl.NewModule("other")
	c.AddPort("clk", "input")
	c.AddWire("clk", 1)
	assert.NotEqual(t, b.ContentHash(), c.ContentHash(), "name is part of the hash")
}

func TestModule_Clone(t *testing.T) {
	a := sampleModule()
	clone := a.Clone().(*rtl.Module)

	assert.Equal(t, a.ContentHash(), clone.ContentHash())

	// Mutating the clone leaves the original untouched.
	clone.AddWire("extra", 1)
	clone.InvalidateContentHash()
	assert.NotEqual(t, a.ContentHash(), clone.ContentHash())
	assert.Equal(t, 2, a.WireCount())
}

func TestDesign_AddRemoveModule(t *testing.T) {
	d := rtl.NewDesign()
	d.Add(sampleModule())
	require.NotNil(t, d.Module("alu"))
	assert.Nil(t, d.Module("ghost"))

	removed := d.Remove("alu")
	require.NotNil(t, removed)
	assert.Equal(t, "alu", removed.Name())
	assert.Nil(t, d.Module("alu"))
	assert.Nil(t, d.Remove("alu"))

	// A detached module can be re-added.
	d.Add(removed)
	assert.NotNil(t, d.Module("alu"))
}

func TestDesign_ModulesSorted(t *testing.T) {
	d := rtl.NewDesign()
	d.Add(rtl.NewModule("zeta"))
	d.Add(rtl.NewModule("alpha"))
	d.Add(rtl.NewModule("mid"))

	names := make([]string, 0, 3)
	for _, m := range d.Modules() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestDesign_Scratchpad(t *testing.T) {
	d := rtl.NewDesign()
	assert.Equal(t, "", d.ScratchpadGet("missing"))
	d.ScratchpadSet("k", "v")
	assert.Equal(t, "v", d.ScratchpadGet("k"))
}

func TestTextCodec_RoundTrip(t *testing.T) {
	backend := rtl.NewBackend()
	frontend := rtl.NewFrontend()

	original := sampleModule()
	data, err := backend.DumpModule(original)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	path := filepath.Join(t.TempDir(), "alu.rtlil")
	require.NoError(t, os.WriteFile(path, append([]byte("autoidx 1\n"), data...), 0o644))

	d := rtl.NewDesign()
	require.NoError(t, frontend.Call(d, "rtlil", path))

	parsed := d.Module("alu")
	require.NotNil(t, parsed)
	assert.Equal(t, original.ContentHash(), parsed.ContentHash(),
		"round trip must preserve the content hash")
}

func TestTextCodec_ReplacesExistingModule(t *testing.T) {
	backend := rtl.NewBackend()
	frontend := rtl.NewFrontend()

	data, err := backend.DumpModule(sampleModule())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "alu.rtlil")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	d := rtl.NewDesign()
	stale := rtl.NewModule("alu")
	stale.AddWire("stale", 1)
	d.Add(stale)

	require.NoError(t, frontend.Call(d, "rtlil", path))
	assert.Equal(t, 2, d.Module("alu").WireCount())
}

func TestTextCodec_Errors(t *testing.T) {
	frontend := rtl.NewFrontend()
	d := rtl.NewDesign()

	assert.Error(t, frontend.Call(d, "verilog", "x.v"), "only rtlil is understood")
	assert.Error(t, frontend.Call(d, "rtlil", filepath.Join(t.TempDir(), "missing.rtlil")))

	bad := filepath.Join(t.TempDir(), "bad.rtlil")
	require.NoError(t, os.WriteFile(bad, []byte("module a\nbogus line here\nend\n"), 0o644))
	assert.Error(t, frontend.Call(d, "rtlil", bad))

	unterminated := filepath.Join(t.TempDir(), "open.rtlil")
	require.NoError(t, os.WriteFile(unterminated, []byte("module a\n"), 0o644))
	assert.Error(t, frontend.Call(d, "rtlil", unterminated))

	backend := rtl.NewBackend()
	_, err := backend.DumpModule(nil)
	assert.Error(t, err)
}

func TestRunner_HierarchyCheck(t *testing.T) {
	log := &testLogger{}
	runner := rtl.NewRunner(log)
	require.True(t, runner.SupportsSelection())

	d := rtl.NewDesign()
	top := rtl.NewModule("top")
	top.AddCell("alu", "u_alu")
	top.AddCell("$dff", "ff0")
	d.Add(top)
	d.Add(rtl.NewModule("alu"))

	require.NoError(t, runner.Call(d, "hierarchy -check -top top"))

	// A dangling non-primitive cell type fails the check.
	bad := rtl.NewDesign()
	m := rtl.NewModule("top")
	m.AddCell("ghost", "u_g")
	bad.Add(m)
	assert.Error(t, runner.Call(bad, "hierarchy -check"))
}

func TestRunner_HierarchyPrunesUnreachable(t *testing.T) {
	log := &testLogger{}
	runner := rtl.NewRunner(log)

	d := rtl.NewDesign()
	top := rtl.NewModule("top")
	top.AddCell("alu", "u_alu")
	d.Add(top)
	d.Add(rtl.NewModule("alu"))
	d.Add(rtl.NewModule("orphan"))

	require.NoError(t, runner.Call(d, "hierarchy -check -top top"))
	assert.NotNil(t, d.Module("alu"))
	assert.Nil(t, d.Module("orphan"))
}

func TestRunner_HierarchyUnknownTop(t *testing.T) {
	runner := rtl.NewRunner(&testLogger{})
	d := rtl.NewDesign()
	d.Add(rtl.NewModule("top"))
	assert.Error(t, runner.Call(d, "hierarchy -top ghost"))
}

func TestRunner_BodyPassesAndSelection(t *testing.T) {
	log := &testLogger{}
	runner := rtl.NewRunner(log)
	d := rtl.NewDesign()
	d.Add(rtl.NewModule("alu"))

	require.NoError(t, runner.Call(d, "proc alu"))
	require.NoError(t, runner.Call(d, "opt -full alu"))
	require.NoError(t, runner.Call(d, "techmap"))
	assert.Equal(t, []string{"proc alu", "opt -full alu", "techmap"}, runner.Calls())

	// A selection naming an unknown module warns but does not fail.
	require.NoError(t, runner.Call(d, "opt -full ghost"))
	assert.NotEmpty(t, log.warns)
}

func TestRunner_UnknownPass(t *testing.T) {
	runner := rtl.NewRunner(&testLogger{})
	assert.Error(t, runner.Call(rtl.NewDesign(), "abc_map"))
}

var _ ports.Design = (*rtl.Design)(nil)
