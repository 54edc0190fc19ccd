// Package version holds build version information.
package version

// Version is the current voicediary version, overridden at build time
// via -ldflags "-X github.com/guiyumin/voicediary/internal/core/version.Version=...".
var Version = "0.1.0"
