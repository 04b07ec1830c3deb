// Package ontology holds the foundational-ontology tables used to ground
// extracted knowledge graphs.
//
// Two vocabularies live here:
//
//   - The DOLCE taxonomy (Descriptive Ontology for Linguistic and Cognitive
//     Engineering): a fixed tree of categories plus concept and relation
//     records with definitions, domain/range constraints, and expected
//     properties.
//   - The Master Concept Library (MCL): the informal entity and relationship
//     type names that LLM extraction prompts are built from. Every MCL type
//     maps to exactly one DOLCE concept or relation.
//
// All tables are populated at package init and never mutated afterwards, so
// lookups are safe for concurrent use without locking. Validation functions
// never panic on unknown types; they report issues instead.
package ontology
