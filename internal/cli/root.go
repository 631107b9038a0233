package cli

import (
	"context"
	"os"

	"github.com/matzehuels/flowgraph/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version and the
// HTTP health endpoint. It is typically called by main with values injected
// via ldflags. Empty values leave the defaults in place.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the flowgraph CLI and returns an error if any command fails.
//
// Logging:
//   - Default: the configured level, info when unset (logs to stderr)
//   - With --verbose (-v): debug level
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
