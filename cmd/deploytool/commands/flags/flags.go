// Package flags provides shared accessors for state the root command
// resolves before any subcommand runs.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backups).
package flags

import "github.com/thoreinstein/deploytool/internal/config"

// loaded holds the configuration resolved from defaults, the config file,
// the environment and flags.
var loaded *config.Config

// Config returns the resolved configuration, or the built-in defaults if
// none has been set.
func Config() *config.Config {
	if loaded == nil {
		return config.Default()
	}
	return loaded
}

// SetConfig sets the resolved configuration.
// This is used by the root command after config loading, and by tests.
func SetConfig(cfg *config.Config) {
	loaded = cfg
}
