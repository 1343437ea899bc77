// Package buildinfo carries build-time metadata injected via ldflags,
// separate from user configuration.
package buildinfo

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X .../internal/buildinfo.version=v1.2.3 -X .../internal/buildinfo.buildDate=..."
var (
	version   = ""
	buildDate = ""
)

// Version returns the build version, "unknown" for untagged builds.
func Version() string {
	if version == "" {
		return "unknown"
	}
	return version
}

// BuildDate returns the build timestamp, "unknown" when not injected.
func BuildDate() string {
	if buildDate == "" {
		return "unknown"
	}
	return buildDate
}

// String returns the combined version line shown by the CLI.
func String() string {
	return fmt.Sprintf("%s (built %s)", Version(), BuildDate())
}
