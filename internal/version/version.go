// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Terminal viewer, airmass sparkline, twilight plan
// 0.2.0 - Concurrent per-telescope fan-out, tracing and metrics textfile
// 0.1.0 - Initial release: visibility intervals, airmass and dark time for the LCO registry
