// Package main provides the ontograph binary: ingest socio-political
// documents, query the knowledge graph, validate extractions against the
// ontology, and serve the JSON HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontograph-ai/ontograph"
	"github.com/ontograph-ai/ontograph/graphstore"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "ontograph",
		Short: "GraphRAG engine for socio-political document corpora",
		Long: `Ontograph ingests policy documents, treaties, and regulations into a
knowledge graph validated against a DOLCE-grounded ontology, and answers
questions over the corpus with cited, multi-round reasoning.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (JSON or YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		ingestCmd(&configPath),
		queryCmd(&configPath),
		documentsCmd(&configPath),
		updateCmd(&configPath),
		validateCmd(&configPath),
		ontologyCmd(),
		serveCmd(&configPath),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ontograph version %s\n", version)
		},
	}
}

func configureLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
}

// loadConfig layers the config file (if any) and environment variables over
// the defaults.
func loadConfig(path string) (ontograph.Config, error) {
	cfg := ontograph.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = ontograph.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *ontograph.Config) {
	if v := os.Getenv("ONTOGRAPH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ONTOGRAPH_CONTRACTS_DIR"); v != "" {
		cfg.ContractsDir = v
	}
	if v := os.Getenv("ONTOGRAPH_CHAT_PROVIDER"); v != "" {
		cfg.Chat.Provider = v
	}
	if v := os.Getenv("ONTOGRAPH_CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("ONTOGRAPH_CHAT_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("ONTOGRAPH_CHAT_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("ONTOGRAPH_EMBED_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("ONTOGRAPH_EMBED_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("ONTOGRAPH_EMBED_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("ONTOGRAPH_EMBED_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	// Fall back to well-known provider env vars for API keys.
	if cfg.Chat.APIKey == "" {
		switch cfg.Chat.Provider {
		case "openai":
			cfg.Chat.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Chat.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.Embedding.APIKey == "" {
		switch cfg.Embedding.Provider {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if v := os.Getenv("ONTOGRAPH_NEO4J_URI"); v != "" {
		if cfg.Neo4j == nil {
			cfg.Neo4j = &graphstore.Config{}
		}
		cfg.Neo4j.URI = v
		if u := os.Getenv("ONTOGRAPH_NEO4J_USER"); u != "" {
			cfg.Neo4j.Username = u
		}
		if p := os.Getenv("ONTOGRAPH_NEO4J_PASSWORD"); p != "" {
			cfg.Neo4j.Password = p
		}
		if db := os.Getenv("ONTOGRAPH_NEO4J_DATABASE"); db != "" {
			cfg.Neo4j.Database = db
		}
	}
}

// newEngine builds an engine from the resolved config.
func newEngine(configPath string) (ontograph.Engine, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return ontograph.New(cfg)
}
