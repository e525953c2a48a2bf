package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// Default values used when neither a config file, the environment nor a flag
// provides one.
const (
	DefaultSource      = "./prod"
	DefaultDest        = "./test"
	DefaultBackup      = "./backup"
	DefaultFileType    = ".html"
	DefaultKeepBackups = 10
)

// Config represents the configuration file structure.
type Config struct {
	Source      string `mapstructure:"source" yaml:"source" toml:"source"`
	Dest        string `mapstructure:"dest" yaml:"dest" toml:"dest"`
	Backup      string `mapstructure:"backup" yaml:"backup" toml:"backup"`
	FileType    string `mapstructure:"file_type" yaml:"file_type" toml:"file_type"`
	Prune       bool   `mapstructure:"prune" yaml:"prune" toml:"prune"`
	Force       bool   `mapstructure:"force" yaml:"force" toml:"force"`
	KeepBackups int    `mapstructure:"keep_backups" yaml:"keep_backups" toml:"keep_backups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source:      DefaultSource,
		Dest:        DefaultDest,
		Backup:      DefaultBackup,
		FileType:    DefaultFileType,
		KeepBackups: DefaultKeepBackups,
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// config.yaml and config.toml are both accepted; the extension decides.
	viper.SetConfigName("config")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("DEPLOYTOOL")
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault("source", def.Source)
	viper.SetDefault("dest", def.Dest)
	viper.SetDefault("backup", def.Backup)
	viper.SetDefault("file_type", def.FileType)
	viper.SetDefault("prune", def.Prune)
	viper.SetDefault("force", def.Force)
	viper.SetDefault("keep_backups", def.KeepBackups)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file and a missing file is
// an error. If path is empty, the default locations are searched and a missing
// file means defaults are used.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load, defaults apply
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Mark(errors.Join(errs...), errors.ErrInvalidConfig), "validating config")
	}

	return &cfg, nil
}

// File returns the config file viper loaded, or "" when defaults are in use.
func File() string {
	f := viper.ConfigFileUsed()
	if f == "" {
		return ""
	}
	abs, err := filepath.Abs(f)
	if err != nil {
		return f
	}
	return abs
}
