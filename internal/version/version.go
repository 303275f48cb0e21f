// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API with Prometheus metrics, SQLite lookup cache, catalog file watching
// 0.2.0 - Sesame/VizieR lookups, Bubble Tea planner, night summary with predicted minima
// 0.1.0 - Initial release: phase/altitude schedule, JSON star catalog, headless plan output
