// Package settings provides build metadata, per-run options and context
// helpers shared by the gridx CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "gridx"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings describes where the records of a run come from.
type InputSettings struct {
	Path      string
	FromStdin bool
	// Format forces a loader format; empty means auto-detect.
	Format string
}

// Run holds the options of a single execution of the CLI.
type Run struct {
	MinLogLevel int8
	Input       InputSettings
	Interactive bool
	NoColor     bool
	Theme       string
	// OutputFormat is the export format used when not interactive.
	OutputFormat string
	StateFile    string
}

// NewCliParams returns the defaults for a CLI run: records from stdin,
// rendered once as a table.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Input: InputSettings{
			FromStdin: true,
		},
		Interactive:  false,
		NoColor:      false,
		Theme:        "dark",
		OutputFormat: "table",
	}
}

// IsInteractive reports whether the run opens the TUI.
func (r *Run) IsInteractive() bool {
	return r != nil && r.Interactive
}
