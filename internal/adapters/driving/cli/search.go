package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

var (
	searchTopK     int
	searchMinScore float64
	searchPath     string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed corpus",
	Long: `Embeds the query and ranks indexed chunks by cosine similarity.
Results carry the source path, the similarity score and a bounded
snippet of the matched chunk.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", -1, "drop results scoring below this threshold")
	searchCmd.Flags().StringVar(&searchPath, "path", "", "only return chunks from this source path")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	settings := settingsStore.Settings()

	opts := domain.QueryOptions{
		K:        settings.Search.TopK,
		MinScore: settings.Search.MinScore,
	}
	if searchTopK > 0 {
		opts.K = searchTopK
	}
	if searchMinScore >= 0 {
		opts.MinScore = searchMinScore
	}
	if searchPath != "" {
		opts.Filter = func(metadata map[string]any) bool {
			path, _ := metadata["path"].(string)
			return path == searchPath
		}
	}

	results, err := queryService.Answer(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results)
}

func outputResultsJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, result := range results {
		path, _ := result.Metadata["path"].(string)
		if path == "" {
			path = result.ChunkID
		}
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, path, result.Score)
		if result.Snippet != "" {
			cmd.Printf("      %s\n", result.Snippet)
		}
		cmd.Println()
	}
	return nil
}
