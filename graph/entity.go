package graph

// The extraction vocabulary (entity types, relation types, and their
// foundational-ontology mappings) lives in the ontology package. This file
// only declares the wire shapes the LLM returns.

// ExtractedEntity is what the LLM returns from entity extraction.
type ExtractedEntity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ExtractedRelationship is what the LLM returns from relationship extraction.
type ExtractedRelationship struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	RelationType string  `json:"relation_type"`
	Description  string  `json:"description"`
	Weight       float64 `json:"weight"`
}

// ExtractionResult holds the LLM's structured output for a chunk.
type ExtractionResult struct {
	Entities      []ExtractedEntity       `json:"entities"`
	Relationships []ExtractedRelationship `json:"relationships"`
}
