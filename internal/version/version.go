package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/gsmake/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/gsmake/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/gsmake/internal/version.Date={{.Date}}
)

// String returns the one-line version banner
func String() string {
	return fmt.Sprintf("gsmake %s (commit %s, built %s)", Version, Commit, Date)
}
