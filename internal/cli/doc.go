// Package cli implements the taskwave command-line interface.
//
// The CLI reads task manifests (JSON, YAML or TOML), analyzes them and
// prints, writes, renders or serves the resulting reports. It is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Analyze one or more manifests and print their reports
//   - render: Draw the analyzed graph as DOT, SVG, PDF or PNG
//   - discover: Derive a manifest from the package imports of a Go module
//   - serve: Expose the analyzer over HTTP
//   - cache: Manage the local report cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/taskwave/config.toml (or
// ~/.config/taskwave/config.toml), overridable with --config. Flags take
// precedence over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli
