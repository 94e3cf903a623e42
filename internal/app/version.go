// Package app provides application-level functionality for formbuilder.
package app

import (
	"fmt"
	"runtime"
)

var (
	// Version is the application version (set at build time).
	Version = "dev"
	// Commit is the git commit hash (set at build time).
	Commit = "unknown"
	// Date is the build date (set at build time).
	Date = "unknown"
)

// GetVersion returns the full version string.
func GetVersion() string {
	return fmt.Sprintf("%s (%s)", Version, Commit[:min(7, len(Commit))])
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() string {
	return fmt.Sprintf(`formbuilder v%s
Commit: %s
Built:  %s
Go:     %s
OS:     %s/%s`,
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
