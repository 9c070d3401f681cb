package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and index state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	settings := settingsStore.Settings()

	docs, err := chunkStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	chunkCount, err := chunkStore.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	cmd.Printf("Config:    %s\n", settingsStore.Path())
	cmd.Printf("Database:  %s\n", chunkStore.Path())
	cmd.Printf("Snapshot:  %s\n", indexPath(settings))
	cmd.Println()
	cmd.Printf("Documents: %d\n", len(docs))
	cmd.Printf("Chunks:    %d\n", chunkCount)
	cmd.Printf("Indexed:   %d vectors\n", vectorIndex.Len())
	if vectorIndex.Len() > 0 {
		cmd.Printf("Model:     %s (%d dimensions)\n", vectorIndex.ModelID(), vectorIndex.Dimensions())
	}

	if len(docs) > 0 {
		cmd.Println()
		cmd.Println("Corpus:")
		for _, doc := range docs {
			cmd.Printf("  %s (%s, ingested %s)\n", doc.Path, doc.Kind, doc.IngestedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
