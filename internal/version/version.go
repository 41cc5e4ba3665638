// Package version holds build-time metadata, overridden via -ldflags at
// release time (e.g. -X github.com/refcross/refcross/internal/version.Version=1.2.0).
package version

var (
	// Version is the released version string, or "dev" for local builds.
	Version = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""
	// BuildDate is the RFC3339 build timestamp.
	BuildDate = ""
)
