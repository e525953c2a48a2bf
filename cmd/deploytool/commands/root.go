// Package commands implements the CLI commands for deploytool.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/deploytool/cmd"
	"github.com/thoreinstein/deploytool/cmd/deploytool/commands/backups"
	"github.com/thoreinstein/deploytool/cmd/deploytool/commands/flags"
	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/deploy"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

var (
	dryRun     bool
	jsonOutput bool
)

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// flagAliases maps the historical flag names to their current ones.
var flagAliases = map[string]string{
	"prod": "source",
	"test": "dest",
}

// configKeys maps viper keys to the flags that override them.
var configKeys = map[string]string{
	"source":    "source",
	"dest":      "dest",
	"backup":    "backup",
	"file_type": "file-type",
	"prune":     "prune",
	"force":     "force",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (-v shows skipped files, -vv debug, -vvv trace)")
	pf.BoolVarP(&quiet, "quiet", "q", false,
		"suppress progress output")
	pf.StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	pf.StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	pf.StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/deploytool/config.yaml)")
	pf.String("backup", config.DefaultBackup, "directory that receives a snapshot of both trees before each run")

	f := rootCmd.Flags()
	f.String("source", config.DefaultSource, "directory to deploy from (alias --prod)")
	f.String("dest", config.DefaultDest, "directory to deploy to (alias --test)")
	f.String("file-type", config.DefaultFileType, "file extension to deploy, e.g. .html")
	f.Bool("prune", false, "delete destination files that do not exist in the source")
	f.Bool("force", false, "copy every file, even when the destination is up to date")
	f.BoolVar(&dryRun, "dry-run", false, "print actions without changing anything")
	f.BoolVar(&jsonOutput, "json", false, "print the run summary as JSON")

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewUserError(err, "Run 'deploytool --help' for usage")
	})

	rootCmd.AddCommand(backups.Cmd)

	// Add version flag
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("deploytool version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// normalizeFlagName lets --prod and --test keep working as aliases.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alias, ok := flagAliases[name]; ok {
		name = alias
	}
	return pflag.NormalizedName(name)
}

func initConfig() {
	config.Init()
	bindFlags()
	// Capture load errors for later reporting
	var cfg *config.Config
	cfg, configLoadErr = config.Load(configFile)
	if configLoadErr == nil {
		flags.SetConfig(cfg)
	}
}

// bindFlags lets flags override the config file and environment.
func bindFlags() {
	for key, name := range configKeys {
		f := rootCmd.Flags().Lookup(name)
		if f == nil {
			f = rootCmd.PersistentFlags().Lookup(name)
		}
		_ = viper.BindPFlag(key, f)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deploytool",
	Short: "Push files from a source tree to a destination tree, with backups",
	Long: `deploytool copies every file of one type (by extension) from a source
directory into a destination directory.

Before anything is changed both trees are copied into a timestamped backup
directory together with a MANIFEST.txt describing the run. A file is copied
when it is missing from the destination, when the sizes differ, or when the
source is newer; --force copies everything. With --prune, destination files
that no longer exist in the source are deleted and emptied directories are
removed.

Defaults can be set in a config file (see 'deploytool init') or through
DEPLOYTOOL_* environment variables; flags take precedence over both.`,
	Example: `  # Deploy ./prod into ./test
  deploytool

  # Preview a deploy of .htm files with pruning
  deploytool --source site/src --dest /var/www --file-type htm --prune --dry-run

  # Show skipped files too
  deploytool -v

  See Also: deploytool backups, deploytool init`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	RunE: runDeploy,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("DEPLOYTOOL_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports config load errors for commands that need a config.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "init":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	return runDeployWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runDeployWithWriter(ctx context.Context, w io.Writer) error {
	cfg := flags.Config()
	rc, err := cfg.RunConfig(config.RunFlags{
		DryRun:  dryRun,
		Verbose: verbosity > 0,
	})
	if err != nil {
		return err
	}

	progress := w
	if quiet || jsonOutput {
		progress = io.Discard
	}

	logging.FromContext(ctx).Debug("starting deploy",
		"source", rc.SourceRoot,
		"dest", rc.DestRoot,
		"backup", rc.BackupRoot,
		"config", config.File())

	summary, runErr := deploy.NewEngine(
		deploy.WithOutput(progress),
		deploy.WithVersion(cmd.Version),
	).Run(ctx, rc)
	if summary != nil {
		var werr error
		if jsonOutput {
			werr = summary.WriteJSON(w)
		} else {
			werr = summary.WriteText(w)
		}
		if werr != nil && runErr == nil {
			return errors.Wrap(werr, "writing summary")
		}
	}
	return runErr
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
