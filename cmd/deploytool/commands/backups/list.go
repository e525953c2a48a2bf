package backups

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/deploytool/internal/backup"
	"github.com/thoreinstein/deploytool/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Long: `List the snapshots under the backup root, most recent first.

Directories without a manifest.json are not deploytool snapshots and are
left out.`,
	Example: `  # List snapshots
  deploytool backups list

  # List snapshots under another backup root
  deploytool backups list --backup /srv/deploy-backups

  # Output as JSON
  deploytool backups list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoOutput represents a single snapshot in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	SourceFiles int       `json:"source_files"`
	DestFiles   int       `json:"dest_files"`
	Version     string    `json:"deploytool_version"`
}

func runList(c *cobra.Command, _ []string) error {
	return runListWithWriter(c.OutOrStdout(), afero.NewOsFs())
}

func runListWithWriter(w io.Writer, fsys afero.Fs) error {
	cat, err := catalog(fsys)
	if err != nil {
		return err
	}

	manifests, err := cat.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	if listJSON {
		return outputListJSON(w, manifests)
	}
	return outputListTabular(w, cat.Root(), manifests)
}

func outputListJSON(w io.Writer, manifests []backup.Manifest) error {
	output := make([]infoOutput, len(manifests))
	for i, m := range manifests {
		output[i] = infoOutput{
			ID:          m.ID,
			CreatedAt:   m.CreatedAt,
			Source:      m.Source,
			Destination: m.Destination,
			SourceFiles: len(m.SourceFiles),
			DestFiles:   len(m.DestFiles),
			Version:     m.ToolVersion,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

func outputListTabular(w io.Writer, root string, manifests []backup.Manifest) error {
	bold, green, gray := colors(w)

	fmt.Fprintf(w, "%s\n", bold.Sprintf("Backup root: %s", root))

	if len(manifests) == 0 {
		fmt.Fprintf(w, "  %s\n", gray.Sprint("(no backups available)"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "A snapshot is taken automatically at the start of every deploy.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
		bold.Sprint("ID"), bold.Sprint("CREATED"), bold.Sprint("SOURCE"),
		bold.Sprint("DEST"), bold.Sprint("VERSION"))

	for _, m := range manifests {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%s\n",
			green.Sprint(m.ID),
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(m.SourceFiles),
			len(m.DestFiles),
			m.ToolVersion)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}
