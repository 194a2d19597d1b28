// Package version exposes build identifiers stamped in at link time.
package version

// Overridden with -ldflags "-X ..." by the release build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
