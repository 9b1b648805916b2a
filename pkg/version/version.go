// Package version carries the seekr release and build identifiers.
package version

import (
	"fmt"
	"runtime"
)

// Version is the seekr release.
const Version = "0.4.0"

// Commit is set at build time with
// -ldflags "-X github.com/rubiojr/seekr/pkg/version.Commit=<sha>".
var Commit = "dev"

// BuildVersion returns the one-line version banner.
func BuildVersion() string {
	return fmt.Sprintf("seekr version %s (%s, %s)", Version, Commit, runtime.Version())
}

// APIVersion returns the bare release number reported by /health.
func APIVersion() string {
	return Version
}
