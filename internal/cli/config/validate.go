package config

import (
	"fmt"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MapsDir == "" {
		return fmt.Errorf("maps_dir is required")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	// Directory existence is checked separately so help commands work
	// without a valid directory.
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.MapsDir); os.IsNotExist(err) {
		return fmt.Errorf("maps directory does not exist: %s\nHint: Create the directory or use --maps-dir to specify a different path", c.MapsDir)
	}
	return nil
}
