// Package version exposes the build version.
package version

// Version is the application version, overridable at build time via
// -ldflags "-X sunviewgo/pkg/version.Version=...".
var Version = "0.1.0-dev"
