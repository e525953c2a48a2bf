package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/paths"
	"github.com/thoreinstein/deploytool/pkg/fileutil"
)

var (
	initForce  bool
	initLocal  bool
	initFormat string
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	initCmd.Flags().BoolVar(&initLocal, "local", false, "Write to the current directory instead of the user config directory")
	initCmd.Flags().StringVar(&initFormat, "format", "yaml", "Config file format: yaml, toml")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create a config.yaml holding the default source, destination and backup
directories, the file type and the backup retention count.

The file is written to $XDG_CONFIG_HOME/deploytool/config.yaml, or to
./config.yaml with --local. Use --format toml to write config.toml instead.
Edit it to change the defaults used by every run.`,
	Example: `  # Create the user configuration
  deploytool init

  # Create a project-local configuration
  deploytool init --local

  # Replace an existing configuration
  deploytool init --force

  # Write TOML instead of YAML
  deploytool init --format toml

  See Also: deploytool --help`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(c *cobra.Command, _ []string) error {
	if initFormat != "yaml" && initFormat != "toml" {
		return errors.NewUserError(errors.Newf("unsupported format %q", initFormat), "Use --format yaml or --format toml")
	}

	dir := paths.ConfigDir()
	if initLocal {
		dir = "."
	}
	path := filepath.Join(dir, "config."+initFormat)
	return runInitWithWriter(c.OutOrStdout(), afero.NewOsFs(), path)
}

func runInitWithWriter(w io.Writer, fsys afero.Fs, path string) error {
	exists, err := fileutil.Exists(fsys, path)
	if err != nil {
		return errors.Wrap(err, "checking existing configuration")
	}
	if exists && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", path)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if err := fsys.MkdirAll(filepath.Dir(path), fileutil.DirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	write := fileutil.AtomicWriteYAML
	if filepath.Ext(path) == ".toml" {
		write = fileutil.AtomicWriteTOML
	}
	if err := write(fsys, path, config.Default()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", path)
	return nil
}
