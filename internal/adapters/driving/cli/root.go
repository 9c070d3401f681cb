// Package cli implements the quarry command line interface: the
// driving adapter that wires configuration, storage, embedding and the
// vector index into the core services.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quarry-cli/internal/adapters/driven/vectorindex/bruteforce"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/core/services"
	"github.com/custodia-labs/quarry-cli/internal/logger"
	"github.com/custodia-labs/quarry-cli/internal/normalisers"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

// Pipeline components shared by the commands, built by initPipeline.
var (
	settingsStore *file.SettingsStore
	chunkStore    *sqlite.Store
	vectorIndex   *bruteforce.Index
	embedder      driven.Embedder
	ingestService *services.IngestService
	queryService  *services.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Local text retrieval pipeline",
	Long: `Quarry ingests local text corpora (.txt, .md), chunks and embeds
them into a searchable vector index, and answers similarity queries
from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initPipeline()
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return teardownPipeline()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.quarry)")
}

// initPipeline builds the adapter stack from settings.
func initPipeline() error {
	var err error
	settingsStore, err = file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings := settingsStore.Settings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", settingsStore.Path(), err)
	}

	chunkStore, err = sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}

	embedder, err = newEmbedder(settings.Embedding)
	if err != nil {
		return err
	}

	vectorIndex, err = loadIndex(settings)
	if err != nil {
		return err
	}

	ingestService = services.NewIngestService(
		filesystem.New(),
		normalisers.NewDefaultRegistry(),
		chunkStore,
		embedder,
		vectorIndex,
		settings.Ingest.Workers,
	)
	queryService = services.NewQueryService(
		chunkStore,
		embedder,
		vectorIndex,
		settings.Search.SnippetLength,
	)
	return nil
}

func teardownPipeline() error {
	var errs []error
	if embedder != nil {
		errs = append(errs, embedder.Close())
	}
	if chunkStore != nil {
		errs = append(errs, chunkStore.Close())
	}
	return errors.Join(errs...)
}

// newEmbedder selects the embedding provider from settings.
func newEmbedder(cfg file.EmbeddingSettings) (driven.Embedder, error) {
	switch cfg.Provider {
	case "hashing":
		return hashing.New(cfg.Dimensions), nil
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	case "openai":
		return openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// loadIndex restores the snapshot, or starts empty when none exists.
func loadIndex(settings file.Settings) (*bruteforce.Index, error) {
	path := indexPath(settings)
	index, err := bruteforce.LoadFrom(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No index snapshot at %s, starting empty", path)
		return bruteforce.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load index snapshot: %w", err)
	}
	logger.Debug("Loaded index snapshot: %d entries, model %s", index.Len(), index.ModelID())
	return index, nil
}

// resolveDataDir mirrors the store's default so artifacts and the
// snapshot live next to the database.
func resolveDataDir(settings file.Settings) string {
	if settings.DataDir != "" {
		return settings.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quarry-data"
	}
	return filepath.Join(home, ".quarry", "data")
}

func indexPath(settings file.Settings) string {
	return filepath.Join(resolveDataDir(settings), "index.jsonl")
}

func chunksArtifactPath(settings file.Settings) string {
	return filepath.Join(resolveDataDir(settings), "chunks.jsonl")
}
