// Package version holds build-time version information, injected via ldflags.
package version

// Version is the semantic version of the build, set at link time.
var Version = "dev"

// Commit is the short git commit hash of the build, set at link time.
var Commit = "unknown"
