// Package version holds the arrayify release version.
package version

// Version is reported by `arrayify --version` and can be overridden at
// build time with -ldflags "-X github.com/u-blox/arrayify/version.Version=...".
var Version = "1.2.0"
