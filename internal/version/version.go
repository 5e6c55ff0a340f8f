// Package version holds build metadata injected via ldflags.
package version

// Version is the release version.
var Version = "0.0.0"

// GitCommit is the commit hash the binary was built from.
var GitCommit = "unknown"

// BuildDate is the UTC timestamp of the build.
var BuildDate = "unknown"
