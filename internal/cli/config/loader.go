package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > qualint.yaml > qualint.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("qualint.yaml"); err == nil {
		return "qualint.yaml"
	}
	if _, err := os.Stat("qualint.yml"); err == nil {
		return "qualint.yml"
	}
	return ""
}

// configExistsIn checks if a qualint config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range []string{"qualint.yaml", "qualint.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a qualint config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Infer from --maps-dir (parent if it contains a config file)
//  2. Search upward from CWD for qualint.yaml
//  3. Current working directory
func inferProjectRoot(flags *pflag.FlagSet) string {
	// 1. Infer from --maps-dir
	if flags != nil {
		if mapsDir, _ := flags.GetString("maps-dir"); mapsDir != "" && flags.Changed("maps-dir") {
			if absMaps, err := filepath.Abs(mapsDir); err == nil {
				if configExistsIn(absMaps) {
					return absMaps
				}
				if parent := filepath.Dir(absMaps); configExistsIn(parent) {
					return parent
				}
			}
		}
	}

	// 2. Search upward from CWD for qualint.yaml
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	// 3. Default to CWD
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// Infer project root from flags before loading config, so that
	// --maps-dir pointing into a project anchors relative paths there.
	projectRoot := inferProjectRoot(flags)

	// Track paths that were explicitly provided as flags (already relative
	// to CWD). These bypass project-root resolution below to prevent
	// double-resolution.
	var flagMapsDir, flagHistoryPath string
	if flags != nil {
		if flags.Changed("maps-dir") {
			if v, _ := flags.GetString("maps-dir"); v != "" {
				flagMapsDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("history-path") {
			if v, _ := flags.GetString("history-path"); v != "" {
				if v == ":memory:" {
					flagHistoryPath = v
				} else {
					flagHistoryPath, _ = filepath.Abs(v)
				}
			}
		}
	}

	// If an explicit config file is provided, use its directory as project
	// root (unless a more specific hint was given via flags)
	if cfgFile != "" && projectRoot == inferProjectRoot(nil) {
		if absPath, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(absPath)
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"maps_dir":     DefaultMapsDir,
		"history_path": DefaultHistoryFile,
		"no_history":   false,
		"verbose":      false,
		"output":       DefaultOutput,
		"jobs":         DefaultJobs,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	// Search in project root if no explicit config file provided
	if cfgFile == "" {
		for _, name := range []string{"qualint.yaml", "qualint.yml"} {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (QUALINT_ prefix)
	// Transform: QUALINT_MAPS_DIR -> maps_dir
	if err := k.Load(env.Provider("QUALINT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "QUALINT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths against it. Paths
	// given as flags keep the absolute form computed at parse time.
	cfg.ProjectRoot = projectRoot

	if flagMapsDir != "" {
		cfg.MapsDir = flagMapsDir
	} else {
		cfg.MapsDir = resolvePathRelativeTo(cfg.MapsDir, projectRoot)
	}
	if flagHistoryPath != "" {
		cfg.HistoryPath = flagHistoryPath
	} else if cfg.HistoryPath != ":memory:" {
		cfg.HistoryPath = resolvePathRelativeTo(cfg.HistoryPath, projectRoot)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
