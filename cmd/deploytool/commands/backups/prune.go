package backups

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/deploytool/cmd/deploytool/commands/flags"
	"github.com/thoreinstein/deploytool/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 0,
		"Number of snapshots to retain (default: keep_backups from the config, 10)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots",
	Long: `Remove snapshots beyond the retention count.

By default the keep_backups value of the configuration is used (10 unless
changed). Use --keep to override it; --keep 0 removes every snapshot.`,
	Example: `  # Keep the configured number of snapshots
  deploytool backups prune

  # Keep only the 3 most recent snapshots
  deploytool backups prune --keep 3

  # Remove all snapshots
  deploytool backups prune --keep 0`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(c *cobra.Command, _ []string) error {
	keep := flags.Config().KeepBackups
	if c.Flags().Changed("keep") {
		keep = pruneKeep
	}
	return runPruneWithWriter(c.OutOrStdout(), afero.NewOsFs(), keep)
}

func runPruneWithWriter(w io.Writer, fsys afero.Fs, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	cat, err := catalog(fsys)
	if err != nil {
		return err
	}

	removed, err := cat.Prune(keep)
	_, green, _ := colors(w)
	for _, id := range removed {
		fmt.Fprintln(w, green.Sprintf("✓ removed %s", id))
	}
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}

	if len(removed) == 0 {
		fmt.Fprintln(w, "No backups to prune")
	} else {
		fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", len(removed))
	}

	return nil
}
