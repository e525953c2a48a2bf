// Package config provides configuration management for deploytool.
//
// Settings are layered with Viper: built-in defaults, then a config file,
// then DEPLOYTOOL_* environment variables, then command-line flags bound by
// the CLI.
//
// # Configuration File
//
// The config file is config.yaml, searched in the current directory and in
// ~/.config/deploytool/:
//
//	source: ./prod
//	dest: ./test
//	backup: ./backup
//	file_type: .html
//	prune: false
//	force: false
//	keep_backups: 10
//
// # Run Configuration
//
// [Config] is the loosely typed, file-shaped view. Before a run it is turned
// into a [RunConfig]: absolute roots, a normalized extension and the run
// flags. A RunConfig is passed by value and never modified afterwards.
//
//	cfg, err := config.Load("")
//	run, err := cfg.RunConfig(config.RunFlags{DryRun: true})
//	run, err = config.ResolveRoots(afero.NewOsFs(), run)
//	if err != nil {
//	    return err // a PhaseConfig error
//	}
package config
