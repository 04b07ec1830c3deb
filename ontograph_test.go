package ontograph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ontograph-ai/ontograph/contract"
	"github.com/ontograph-ai/ontograph/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DBName != "ontograph" {
		t.Errorf("DBName: got %q, want ontograph", cfg.DBName)
	}
	if cfg.MaxChunkTokens != 1024 {
		t.Errorf("MaxChunkTokens: got %d, want 1024", cfg.MaxChunkTokens)
	}
	if cfg.MaxRounds != 3 {
		t.Errorf("MaxRounds: got %d, want 3", cfg.MaxRounds)
	}
	if cfg.EmbeddingDim != 768 {
		t.Errorf("EmbeddingDim: got %d, want 768", cfg.EmbeddingDim)
	}
	if cfg.StrictOntology {
		t.Error("StrictOntology should default to false")
	}
	if cfg.Neo4j != nil {
		t.Error("Neo4j mirror should default to disabled")
	}
}

func TestResolveDBPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want func(string) bool
	}{
		{
			name: "explicit path wins",
			cfg:  Config{DBPath: "/tmp/custom.db", DBName: "ignored"},
			want: func(p string) bool { return p == "/tmp/custom.db" },
		},
		{
			name: "local storage uses cwd",
			cfg:  Config{DBName: "corpus", StorageDir: "local"},
			want: func(p string) bool { return p == "corpus.db" },
		},
		{
			name: "home storage uses dot dir",
			cfg:  Config{DBName: "corpus", StorageDir: "home"},
			want: func(p string) bool {
				return strings.Contains(p, ".ontograph") && strings.HasSuffix(p, "corpus.db")
			},
		},
		{
			name: "empty name falls back",
			cfg:  Config{StorageDir: "local"},
			want: func(p string) bool { return p == "ontograph.db" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.resolveDBPath()
			if !tt.want(got) {
				t.Errorf("resolveDBPath: got %q", got)
			}
		})
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `db_name: corpus
strict_ontology: true
chat:
  provider: openai
  model: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBName != "corpus" {
		t.Errorf("DBName: got %q", cfg.DBName)
	}
	if !cfg.StrictOntology {
		t.Error("expected StrictOntology true")
	}
	if cfg.Chat.Provider != "openai" || cfg.Chat.Model != "gpt-4o-mini" {
		t.Errorf("chat config: got %+v", cfg.Chat)
	}
	// Unset fields keep defaults.
	if cfg.WeightVector != 1.0 {
		t.Errorf("WeightVector default lost: got %f", cfg.WeightVector)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("embedding default lost: got %q", cfg.Embedding.Provider)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"db_name": "jcorpus", "max_rounds": 5}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBName != "jcorpus" {
		t.Errorf("DBName: got %q", cfg.DBName)
	}
	if cfg.MaxRounds != 5 {
		t.Errorf("MaxRounds: got %d", cfg.MaxRounds)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExtractMissingTerms(t *testing.T) {
	chunks := []store.RetrievalResult{
		{ChunkID: 1, Content: "Resolution 2231 endorsed the nuclear agreement between the parties."},
		{ChunkID: 2, Content: "The embargo covers crude oil exports from the region."},
	}
	answer := "The embargo was imposed by Resolution 2231 and later extended under Directive 2009/28/EC."

	missing := extractMissingTerms(answer, chunks)

	if len(missing) != 1 {
		t.Fatalf("expected 1 missing term, got %d: %v", len(missing), missing)
	}
	if missing[0] != "Directive 2009/28/EC" {
		t.Errorf("missing term: got %q", missing[0])
	}
}

func TestExtractMissingTermsAllPresent(t *testing.T) {
	chunks := []store.RetrievalResult{
		{ChunkID: 1, Content: "Article 5 requires member states to act. Resolution 2231 applies."},
	}
	answer := "Article 5 and Resolution 2231 set out the obligations."

	if missing := extractMissingTerms(answer, chunks); len(missing) != 0 {
		t.Errorf("expected no missing terms, got %v", missing)
	}
}

func TestExtractMissingTermsFalsePositive(t *testing.T) {
	chunks := []store.RetrievalResult{
		{ChunkID: 1, Content: "Background on the trade dispute."},
	}
	// "ref Article 12" is a document cross-reference, not an instrument.
	answer := "As shown in ref Article 12 of the briefing."

	if missing := extractMissingTerms(answer, chunks); len(missing) != 0 {
		t.Errorf("expected cross-reference to be filtered, got %v", missing)
	}
}

func TestMergeResults(t *testing.T) {
	existing := []store.RetrievalResult{
		{ChunkID: 1, Score: 0.9},
		{ChunkID: 2, Score: 0.8},
	}
	extra := []store.RetrievalResult{
		{ChunkID: 2, Score: 0.7}, // duplicate, dropped
		{ChunkID: 3, Score: 0.6},
	}

	merged := mergeResults(existing, extra)

	if len(merged) != 3 {
		t.Fatalf("expected 3 results, got %d", len(merged))
	}
	if merged[0].ChunkID != 1 || merged[1].ChunkID != 2 || merged[2].ChunkID != 3 {
		t.Errorf("unexpected order: %+v", merged)
	}
	// Original score for the duplicate wins.
	if merged[1].Score != 0.8 {
		t.Errorf("duplicate should keep original score, got %f", merged[1].Score)
	}
}

func TestTruncateForEmbed(t *testing.T) {
	short := "a short text"
	if got := truncateForEmbed(short); got != short {
		t.Errorf("short text should pass through, got %q", got)
	}

	long := strings.Repeat("word ", 6000) // 30000 chars
	got := truncateForEmbed(long)
	if len(got) > maxEmbedChars {
		t.Errorf("truncated text exceeds limit: %d > %d", len(got), maxEmbedChars)
	}
	if strings.HasSuffix(got, " ") {
		t.Error("truncation should cut before the boundary space")
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("treaty text"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := fileHash(path)
	if err != nil {
		t.Fatalf("fileHash: %v", err)
	}
	h2, err := fileHash(path)
	if err != nil {
		t.Fatalf("fileHash: %v", err)
	}
	if h1 != h2 {
		t.Error("hash should be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}

	if err := os.WriteFile(path, []byte("amended treaty text"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := fileHash(path)
	if err != nil {
		t.Fatalf("fileHash: %v", err)
	}
	if h3 == h1 {
		t.Error("hash should change with content")
	}
}

const testContractYAML = `name: entity-extractor
version: "1.0"
category: extraction
description: Extracts typed entities from text.
produces:
  entity_types: [IndividualActor, GovernmentBody]
  relation_types: [leads]
input_schema:
  type: object
  required: [text]
  properties:
    text:
      type: string
output_schema:
  type: object
  required: [entities]
  properties:
    entities:
      type: array
`

func testEngineWithContracts(t *testing.T) *engine {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "extractor.yaml"), []byte(testContractYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := contract.LoadDir(dir)
	if err != nil {
		t.Fatalf("loading contracts: %v", err)
	}
	return &engine{contracts: reg}
}

func TestContractLoadingRejectsUnknownMCLTypes(t *testing.T) {
	bogus := strings.Replace(testContractYAML,
		"entity_types: [IndividualActor, GovernmentBody]",
		"entity_types: [IndividualActor, FluxCapacitor]", 1)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bogus.yaml"), []byte(bogus), 0o644); err != nil {
		t.Fatal(err)
	}

	// The engine loads contracts through contract.LoadDir; a contract
	// declaring types the Master Concept Library does not know must fail
	// at load, not at first use.
	if _, err := contract.LoadDir(dir); err == nil {
		t.Fatal("contract with unknown MCL type loaded without error")
	}
}

func TestValidateContract(t *testing.T) {
	e := testEngineWithContracts(t)

	report, err := e.ValidateContract("entity-extractor", "input", []byte(`{"text": "The minister signed the decree."}`))
	if err != nil {
		t.Fatalf("ValidateContract: %v", err)
	}
	if !report.Valid() {
		t.Errorf("expected valid payload, issues: %v", report.Strings())
	}

	report, err = e.ValidateContract("entity-extractor", "input", []byte(`{}`))
	if err != nil {
		t.Fatalf("ValidateContract: %v", err)
	}
	if report.Valid() {
		t.Error("expected schema violation for payload missing required field")
	}
}

func TestValidateContractUnknownName(t *testing.T) {
	e := testEngineWithContracts(t)

	_, err := e.ValidateContract("nonexistent", "input", []byte(`{}`))
	if !errors.Is(err, ErrContractNotFound) {
		t.Errorf("expected ErrContractNotFound, got %v", err)
	}
}

func TestValidateContractBadSide(t *testing.T) {
	e := testEngineWithContracts(t)

	_, err := e.ValidateContract("entity-extractor", "sideways", []byte(`{}`))
	if !errors.Is(err, ErrContractViolation) {
		t.Errorf("expected ErrContractViolation, got %v", err)
	}
}

func TestValidateContractNoRegistry(t *testing.T) {
	e := &engine{}

	_, err := e.ValidateContract("anything", "input", []byte(`{}`))
	if !errors.Is(err, ErrContractNotFound) {
		t.Errorf("expected ErrContractNotFound, got %v", err)
	}
}
