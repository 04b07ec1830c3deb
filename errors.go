package ontograph

import (
	"errors"

	"github.com/ontograph-ai/ontograph/graph"
)

var (
	// ErrDocumentNotFound is returned when a document ID or path does not exist.
	ErrDocumentNotFound = errors.New("ontograph: document not found")

	// ErrDocumentExists is returned when trying to ingest a duplicate path.
	ErrDocumentExists = errors.New("ontograph: document already exists")

	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("ontograph: unsupported document format")

	// ErrParsingFailed is returned when document parsing fails.
	ErrParsingFailed = errors.New("ontograph: parsing failed")

	// ErrEmbeddingFailed is returned when embedding generation fails.
	ErrEmbeddingFailed = errors.New("ontograph: embedding generation failed")

	// ErrLLMUnavailable is returned when the LLM provider is unreachable.
	ErrLLMUnavailable = errors.New("ontograph: LLM provider unavailable")

	// ErrLLMRequestFailed is returned when an LLM request fails.
	ErrLLMRequestFailed = errors.New("ontograph: LLM request failed")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("ontograph: store is closed")

	// ErrNoResults is returned when retrieval yields no matching chunks.
	ErrNoResults = errors.New("ontograph: no results found")

	// ErrLowConfidence is returned when the answer confidence is below threshold.
	ErrLowConfidence = errors.New("ontograph: answer confidence below threshold")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("ontograph: invalid configuration")

	// ErrOntologyViolation is returned when a chunk's extraction fails
	// ontology validation under strict mode. It aliases the graph package
	// sentinel so errors.Is works on engine-level ingest errors.
	ErrOntologyViolation = graph.ErrOntologyViolation

	// ErrContractViolation is returned when a payload fails contract
	// schema validation.
	ErrContractViolation = errors.New("ontograph: contract validation failed")

	// ErrContractNotFound is returned when a named contract is not loaded.
	ErrContractNotFound = errors.New("ontograph: contract not found")
)
