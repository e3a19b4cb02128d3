package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vsrg-tools/qualint/internal/cli/config"
	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    state.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open, migrated
// history store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Store = store

	cleanup := func() {
		_ = store.Close()
	}

	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a history store.
// Useful for commands that don't record or read past checks.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	mapsDir := getEnvOrDefault("QUALINT_MAPS_DIR", config.DefaultMapsDir)
	historyPath := getEnvOrDefault("QUALINT_HISTORY_PATH", config.DefaultHistoryFile)
	outputFormat := getEnvOrDefault("QUALINT_OUTPUT", config.DefaultOutput)
	jobs := config.DefaultJobs
	if v := os.Getenv("QUALINT_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			jobs = n
		}
	}

	return &config.Config{
		MapsDir:      mapsDir,
		HistoryPath:  historyPath,
		NoHistory:    os.Getenv("QUALINT_NO_HISTORY") == "true",
		Verbose:      os.Getenv("QUALINT_VERBOSE") == "true",
		OutputFormat: outputFormat,
		Jobs:         jobs,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens the history database and brings its schema up to date.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.HistoryPath); err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return store, nil
}
