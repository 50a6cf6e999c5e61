package ports

//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks

// TextBackend dumps a single module to its textual IR byte representation.
type TextBackend interface {
	DumpModule(m Module) ([]byte, error)
}

// TextFrontend parses textual IR from a file into a design. The format
// argument selects the dialect; this repository only uses "rtlil".
type TextFrontend interface {
	Call(design Design, format, path string) error
}

// PassRunner invokes named synthesis passes on a design. A pass command may
// carry a selection: a space-separated list of module names appended to the
// command, restricting the pass's scope.
type PassRunner interface {
	// Call runs a single pass command, e.g. "opt -full alu regs".
	Call(design Design, command string) error

	// SupportsSelection reports whether the runner honors per-command
	// module selections. When false, the driver falls back to global
	// synthesis.
	SupportsSelection() bool
}
