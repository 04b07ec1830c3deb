package ontograph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ontograph-ai/ontograph/graphstore"
)

// Config holds all configuration for the ontograph engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.ontograph/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "ontograph". The file will be <DBName>.db inside the
	// storage directory (~/.ontograph/ or working dir).
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.ontograph/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// LLM providers
	Chat      LLMConfig `json:"chat" yaml:"chat"`
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	// Retrieval weights for RRF
	WeightVector float64 `json:"weight_vector" yaml:"weight_vector"`
	WeightFTS    float64 `json:"weight_fts" yaml:"weight_fts"`
	WeightGraph  float64 `json:"weight_graph" yaml:"weight_graph"`

	// Chunking
	MaxChunkTokens int `json:"max_chunk_tokens" yaml:"max_chunk_tokens"`
	ChunkOverlap   int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// Graph building
	SkipGraph        bool `json:"skip_graph" yaml:"skip_graph"`               // Skip knowledge graph extraction during ingest
	GraphConcurrency int  `json:"graph_concurrency" yaml:"graph_concurrency"` // Max parallel LLM calls for graph extraction (default 16)

	// StrictOntology rejects any chunk whose extraction fails ontology
	// validation; nothing from the chunk is stored. When false, unmapped
	// entity types are demoted to Concept and invalid relationships are
	// dropped with a warning, storing only the valid subset.
	StrictOntology bool `json:"strict_ontology" yaml:"strict_ontology"`

	// ContractsDir points at a directory of tool contract YAML files.
	// Empty disables contract loading.
	ContractsDir string `json:"contracts_dir" yaml:"contracts_dir"`

	// Neo4j enables the optional graph mirror when set.
	Neo4j *graphstore.Config `json:"neo4j,omitempty" yaml:"neo4j,omitempty"`

	// Reasoning
	MaxRounds           int     `json:"max_rounds" yaml:"max_rounds"`
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// Embedding dimensions (must match model)
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // ollama, lmstudio, openai, gemini, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults for local inference.
// Database is stored in ~/.ontograph/ontograph.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:     "ontograph",
		StorageDir: "home",
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		WeightVector:        1.0,
		WeightFTS:           1.0,
		WeightGraph:         0.5,
		MaxChunkTokens:      1024,
		ChunkOverlap:        128,
		MaxRounds:           3,
		ConfidenceThreshold: 0.7,
		EmbeddingDim:        768,
	}
}

// LoadConfig reads a configuration file (JSON or YAML by extension) on top
// of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "ontograph"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".ontograph")
		return filepath.Join(dir, name+".db")
	}
}
