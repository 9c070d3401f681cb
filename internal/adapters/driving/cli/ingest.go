package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/storage/jsonl"
	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quarry-cli/internal/logger"
)

var (
	ingestStrategy   string
	ingestSize       int
	ingestOverlap    int
	ingestMaxSection int
	ingestWatch      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a corpus of text files",
	Long: `Reads .txt and .md files under the given path (or the path itself
when it is a file), normalises and chunks their text, embeds every
chunk and adds it to the vector index. Re-running skips unchanged
files and replaces changed ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestStrategy, "strategy", "", "chunk strategy: fixed or structured (default from config)")
	ingestCmd.Flags().IntVar(&ingestSize, "window-size", 0, "fixed window size in bytes (default from config)")
	ingestCmd.Flags().IntVar(&ingestOverlap, "window-overlap", -1, "fixed window overlap in bytes (default from config)")
	ingestCmd.Flags().IntVar(&ingestMaxSection, "max-section-size", 0, "structure-aware section cap in bytes (default from config)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and re-ingest on file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	root := args[0]

	strategy, err := ingestStrategyFromFlags()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ingestOnce(ctx, cmd, root, strategy); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	return watchAndIngest(ctx, cmd, root, strategy)
}

// ingestStrategyFromFlags overlays command flags onto the configured
// chunking settings.
func ingestStrategyFromFlags() (domain.ChunkStrategy, error) {
	settings := settingsStore.Settings()
	if ingestStrategy != "" {
		settings.Chunking.Strategy = ingestStrategy
	}
	if ingestSize > 0 {
		settings.Chunking.WindowSize = ingestSize
	}
	if ingestOverlap >= 0 {
		settings.Chunking.WindowOverlap = ingestOverlap
	}
	if ingestMaxSection > 0 {
		settings.Chunking.MaxSectionSize = ingestMaxSection
	}
	strategy, err := settings.Strategy()
	if err != nil {
		return domain.ChunkStrategy{}, err
	}
	return strategy, strategy.Validate()
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, root string, strategy domain.ChunkStrategy) error {
	report, err := ingestService.Ingest(ctx, root, strategy)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if err := persistRunArtifacts(ctx); err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}

// persistRunArtifacts saves the index snapshot and rewrites the chunks
// artifact so on-disk state reflects the completed run.
func persistRunArtifacts(ctx context.Context) error {
	settings := settingsStore.Settings()

	if err := vectorIndex.SaveTo(indexPath(settings)); err != nil {
		return fmt.Errorf("save index snapshot: %w", err)
	}

	docs, err := chunkStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	var chunks []domain.Chunk
	for _, doc := range docs {
		docChunks, err := chunkStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", doc.Path, err)
		}
		chunks = append(chunks, docChunks...)
	}
	if err := jsonl.SaveChunks(chunksArtifactPath(settings), chunks); err != nil {
		return fmt.Errorf("write chunks artifact: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *driving.IngestReport) {
	cmd.Printf("Run %s\n", report.RunID)
	cmd.Printf("  ingested: %d\n", report.Ingested)
	cmd.Printf("  replaced: %d\n", report.Replaced)
	cmd.Printf("  skipped:  %d\n", report.Skipped)
	cmd.Printf("  failed:   %d\n", report.Failed)
	cmd.Printf("  chunks:   %d\n", report.Chunks)
}

// watchAndIngest re-runs ingestion whenever the corpus changes, until
// interrupted.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, root string, strategy domain.ChunkStrategy) error {
	watcher, err := filesystem.NewWatcher(root, filesystem.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", root)
	err = watcher.Run(ctx, func() {
		if err := ingestOnce(ctx, cmd, root, strategy); err != nil {
			logger.Warn("Re-ingest failed: %v", err)
			cmd.PrintErrf("re-ingest failed: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
