package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

var (
	listRoot string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List markdown files",
	Long:  `Indexes the root directory once and prints every document, most recently modified first.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listRoot, "root", "", "directory to list (default .)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(listCmd)
}

// documentJSON is the JSON form of a document listing.
type documentJSON struct {
	Path     string    `json:"path"`
	RelPath  string    `json:"rel_path"`
	Title    string    `json:"title"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Tags     []string  `json:"tags,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd, listRoot)
	if err != nil {
		return err
	}
	svc, _, err := newServices(cmd.Context(), settings)
	if err != nil {
		return err
	}

	docs, err := svc.Documents.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		return outputListJSON(cmd, docs)
	}
	return outputListTable(cmd, docs, time.Now())
}

func outputListJSON(cmd *cobra.Command, docs []*domain.Document) error {
	out := make([]documentJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentJSON{
			Path:     d.Path,
			RelPath:  d.RelPath,
			Title:    d.Title,
			Size:     d.Size,
			Modified: d.ModTime,
			Tags:     d.Tags,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputListTable(cmd *cobra.Command, docs []*domain.Document, now time.Time) error {
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No markdown files found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.RelPath, d.Title, humanize.IBytes(uint64(d.Size)), humanize.RelTime(d.ModTime, now, "ago", "from now"))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write documents: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d documents\n", len(docs))
	return nil
}
