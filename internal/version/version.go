// Package version holds the build identity reported by GET /version.
package version

// Version is the release version, overridden at build time via ldflags.
var Version = "0.0.0"

// GitCommit is the git commit hash the binary was built from.
var GitCommit = "unknown"

// BuildDate is the UTC build timestamp.
var BuildDate = "unknown"
