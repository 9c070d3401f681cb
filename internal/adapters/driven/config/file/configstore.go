package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// Default settings values.
const (
	DefaultWindowSize     = 200
	DefaultWindowOverlap  = 50
	DefaultMaxSectionSize = 2000
	DefaultDimensions     = 256
	DefaultTopK           = 10
	DefaultSnippetLength  = 200
	DefaultWorkers        = 4
)

// Settings is the typed pipeline configuration, persisted as TOML.
type Settings struct {
	// DataDir holds the database, index snapshot and artifacts.
	// Empty means ~/.quarry/data.
	DataDir string `toml:"data_dir"`

	Chunking  ChunkingSettings  `toml:"chunking"`
	Embedding EmbeddingSettings `toml:"embedding"`
	Search    SearchSettings    `toml:"search"`
	Ingest    IngestSettings    `toml:"ingest"`
}

// ChunkingSettings selects and parameterises the chunk strategy.
type ChunkingSettings struct {
	Strategy       string `toml:"strategy"`
	WindowSize     int    `toml:"window_size"`
	WindowOverlap  int    `toml:"window_overlap"`
	MaxSectionSize int    `toml:"max_section_size"`
}

// EmbeddingSettings selects the embedding provider.
type EmbeddingSettings struct {
	// Provider is one of "hashing", "ollama" or "openai".
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
}

// SearchSettings parameterises query answering.
type SearchSettings struct {
	TopK          int     `toml:"top_k"`
	MinScore      float64 `toml:"min_score"`
	SnippetLength int     `toml:"snippet_length"`
}

// IngestSettings parameterises ingestion runs.
type IngestSettings struct {
	Workers int `toml:"workers"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			Strategy:       string(domain.StrategyFixedWindow),
			WindowSize:     DefaultWindowSize,
			WindowOverlap:  DefaultWindowOverlap,
			MaxSectionSize: DefaultMaxSectionSize,
		},
		Embedding: EmbeddingSettings{
			Provider:   "hashing",
			Dimensions: DefaultDimensions,
		},
		Search: SearchSettings{
			TopK:          DefaultTopK,
			SnippetLength: DefaultSnippetLength,
		},
		Ingest: IngestSettings{
			Workers: DefaultWorkers,
		},
	}
}

// Strategy builds the configured chunk strategy.
func (s Settings) Strategy() (domain.ChunkStrategy, error) {
	switch domain.ChunkStrategyKind(s.Chunking.Strategy) {
	case domain.StrategyFixedWindow:
		return domain.FixedWindowStrategy(s.Chunking.WindowSize, s.Chunking.WindowOverlap), nil
	case domain.StrategyStructureAware:
		return domain.StructureAwareStrategy(s.Chunking.MaxSectionSize), nil
	default:
		return domain.ChunkStrategy{}, fmt.Errorf("%w: unknown strategy %q", domain.ErrChunkConfig, s.Chunking.Strategy)
	}
}

// Validate checks cross-field consistency beyond what the strategy
// constructor covers.
func (s Settings) Validate() error {
	strategy, err := s.Strategy()
	if err != nil {
		return err
	}
	if err := strategy.Validate(); err != nil {
		return err
	}
	if s.Search.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if s.Search.SnippetLength <= 0 {
		return fmt.Errorf("%w: snippet_length must be positive", domain.ErrInvalidInput)
	}
	if s.Ingest.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidInput)
	}
	switch s.Embedding.Provider {
	case "hashing", "ollama", "openai":
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, s.Embedding.Provider)
	}
	return nil
}

// SettingsStore loads and persists Settings as a TOML file.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	settings Settings
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.quarry/config.toml. A missing
// file yields defaults; it is written on first Save.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".quarry")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: DefaultSettings(),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Settings returns the current settings.
func (s *SettingsStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update replaces the settings and persists immediately.
func (s *SettingsStore) Update(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.save()
}

// Save persists the current settings to disk.
func (s *SettingsStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes settings to the TOML file (caller must hold lock).
func (s *SettingsStore) save() error {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return err
	}
	// Restricted permissions: the file may carry an API key.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads settings from the TOML file. Fields absent from the file
// keep their defaults.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.settings = DefaultSettings()
			return nil
		}
		return err
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.settings = settings
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
