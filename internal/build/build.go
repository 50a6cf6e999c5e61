// Package build holds build-time metadata for the zyphar binary.
package build

// Version is the release version reported by the version command.
// It defaults to "dev" and is overwritten by linker flags at release time.
var Version = "dev"
