package build

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, CommitSHA, BuildDate, runtime.Version())
}
