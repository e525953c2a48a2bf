// Package backups provides CLI commands for managing deploy snapshots.
package backups

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/deploytool/cmd/deploytool/commands/flags"
	"github.com/thoreinstein/deploytool/internal/backup"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/logging"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// Cmd is the root backups command.
var Cmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage deploy snapshots",
	Long: `Manage the snapshots deploytool takes before every run.

Each run copies the source and destination trees into a timestamped
directory under the backup root (--backup, default ./backup). This command
group lists those snapshots and removes old ones.`,
	Example: `  # List all snapshots
  deploytool backups list

  # Remove old snapshots, keeping the 3 most recent
  deploytool backups prune --keep 3

  See Also:
    deploytool backups list  - List snapshots
    deploytool backups prune - Remove old snapshots`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// catalog returns the catalog for the configured backup root.
func catalog(fsys afero.Fs) (*backup.Catalog, error) {
	root, err := paths.Resolve(flags.Config().Backup)
	if err != nil {
		return nil, errors.NewUserError(err, "Check --backup and your deploytool config file")
	}
	return backup.NewCatalog(fsys, root), nil
}

// colors returns the palette for w.
func colors(w io.Writer) (bold, green, gray *color.Color) {
	return logging.Painter(w, color.Bold), logging.Painter(w, color.FgGreen), logging.Painter(w, color.FgHiBlack)
}
