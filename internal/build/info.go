// Package build exposes build-time metadata injected via ldflags.
package build

import "runtime"

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/joestump/experiment40/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// Info is a snapshot of the build metadata plus the Go toolchain in use.
type Info struct {
	Version   string
	Commit    string
	Branch    string
	GoVersion string
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Branch: Branch, GoVersion: runtime.Version()}
}
