package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

var (
	searchRoot  string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search markdown files",
	Long: `Indexes the root directory once and prints the best matches for the
query, highest score first. Words of the query are joined with spaces,
so quoting the whole query is optional.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchRoot, "root", "", "directory to search (default .)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResultJSON is the JSON form of a search result.
type searchResultJSON struct {
	Path     string    `json:"path"`
	RelPath  string    `json:"rel_path"`
	Title    string    `json:"title"`
	Score    float64   `json:"score"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Snippet  string    `json:"snippet,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	settings, err := resolveSettings(cmd, searchRoot)
	if err != nil {
		return err
	}
	svc, _, err := newServices(cmd.Context(), settings)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = settings.Limit
	}
	results, err := svc.Search.Search(cmd.Context(), query, domain.SearchOptions{Limit: limit})
	if qe, ok := domain.AsQueryError(err); ok {
		if searchJSON {
			return outputSearchJSON(cmd, nil)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		cmd.PrintErrf("%s\n", qe)
		if qe.Hint != "" {
			cmd.PrintErrf("hint: %s\n", qe.Hint)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results, time.Now())
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, searchResultJSON{
			Path:     r.Path,
			RelPath:  r.RelPath,
			Title:    r.Title,
			Score:    r.Score,
			Size:     r.Size,
			Modified: r.ModTime,
			Snippet:  r.Snippet,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult, now time.Time) error {
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return nil
	}

	for i := range results {
		r := &results[i]
		// Format: [N] Title (score)
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (%.2f)\n", i+1, r.Title, r.Score)
		fmt.Fprintf(cmd.OutOrStdout(), "    %s · %s · %s\n", r.RelPath, humanize.IBytes(uint64(r.Size)), humanize.RelTime(r.ModTime, now, "ago", "from now"))
		if r.Snippet != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", r.Snippet)
		}
	}
	return nil
}
