// Package config provides configuration management for the qualint CLI.
//
// Configuration is merged from four sources in rising precedence: built-in
// defaults, a qualint.yaml project file, QUALINT_* environment variables,
// and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory all relative paths resolve against.
	// Inferred at load time, never read from a config source.
	ProjectRoot string `koanf:"-"`

	MapsDir      string `koanf:"maps_dir"`
	HistoryPath  string `koanf:"history_path"`
	NoHistory    bool   `koanf:"no_history"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	Jobs         int    `koanf:"jobs"`
}

// Default configuration values.
const (
	DefaultMapsDir     = "."
	DefaultHistoryFile = ".qualint/history.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs        = 4
)
