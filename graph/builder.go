package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ontograph-ai/ontograph/llm"
	"github.com/ontograph-ai/ontograph/ontology"
	"github.com/ontograph-ai/ontograph/store"
)

// ErrOntologyViolation is returned for a chunk whose extraction failed
// ontology validation in strict mode. Nothing from the chunk is persisted.
var ErrOntologyViolation = errors.New("graph: extraction failed ontology validation")

// estimateTokens approximates token count using a word-based heuristic.
func estimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.3))
}

// entityPromptTemplate asks the LLM to extract only entities (nouns) from
// the text. The type list is generated from the Master Concept Library so
// the prompt and the validator can never drift apart. This is a simple,
// atomic task optimised for 7B-class models.
const entityPromptTemplate = `You are an entity extraction engine for news articles, policy documents, and analytical reports.
Given the following text chunk, extract all entities (people, organizations, places, events, policies, claims, concepts).

ENTITY TYPES (use exactly these values):
%s

Return a JSON object with exactly one key:
  "entities" : array of {"name": string, "type": string, "description": string}

Rules:
- Entity names must be normalised to lowercase.
- Only include entities clearly supported by the text.
- If there are none, return an empty array.
- Do NOT include any text outside the JSON object.

EXAMPLES:

Input: "Senator Maria Santos announced that the Trade Ministry will review the export tariff law before the March 2024 election."
Output:
{"entities": [{"name": "maria santos", "type": "IndividualActor", "description": "Senator who announced the review"}, {"name": "trade ministry", "type": "GovernmentBody", "description": "Ministry reviewing the tariff law"}, {"name": "export tariff law", "type": "Law", "description": "Law under review"}, {"name": "march 2024 election", "type": "Election", "description": "Upcoming election"}]}

Input: "The coalition of northern provinces opposes the water-sharing treaty signed in Geneva, claiming it favours downstream industry."
Output:
{"entities": [{"name": "coalition of northern provinces", "type": "Coalition", "description": "Alliance of provinces opposing the treaty"}, {"name": "water-sharing treaty", "type": "Treaty", "description": "Treaty on water allocation"}, {"name": "geneva", "type": "City", "description": "City where the treaty was signed"}, {"name": "it favours downstream industry", "type": "Claim", "description": "Claim made by the coalition"}]}

Input: "Protests erupted after the 12%% fuel subsidy cut; the IMF had recommended the reform in its 2023 report."
Output:
{"entities": [{"name": "protests", "type": "Protest", "description": "Protests against the subsidy cut"}, {"name": "fuel subsidy cut", "type": "Policy", "description": "12 percent reduction of the fuel subsidy"}, {"name": "imf", "type": "Organization", "description": "International Monetary Fund"}, {"name": "2023 report", "type": "Report", "description": "IMF report recommending the reform"}, {"name": "12%%", "type": "Percentage", "description": "Size of the subsidy cut"}]}

%s
TEXT:
%s`

// relationPromptTemplate asks the LLM, given the already-extracted
// entities, to find only relationships (verbs) between them. The relation
// list is generated from the Master Concept Library. This second atomic
// call is simpler because the entity set is fixed.
const relationPromptTemplate = `You are a relationship extraction engine for news articles, policy documents, and analytical reports.
Given the text and a list of known entities, extract all relationships (verbs connecting entities).

KNOWN ENTITIES:
%s

RELATION TYPES (use exactly these values):
%s

Return a JSON object with exactly one key:
  "relationships" : array of {"source": string, "target": string, "relation_type": string, "description": string, "weight": number}

Rules:
- Source and target must be entity names from the KNOWN ENTITIES list above (lowercase).
- Weight is a float between 0.0 and 1.0 indicating confidence.
- Only include relationships clearly supported by the text.
- If there are none, return an empty array.
- Do NOT include any text outside the JSON object.

EXAMPLES:

Input entities: ["maria santos", "trade ministry", "export tariff law"]
Input text: "Senator Maria Santos, who leads the Trade Ministry, announced a review of the export tariff law."
Output:
{"relationships": [{"source": "maria santos", "target": "trade ministry", "relation_type": "leads", "description": "Maria Santos leads the Trade Ministry", "weight": 0.95}, {"source": "trade ministry", "target": "export tariff law", "relation_type": "amends", "description": "The ministry is reviewing the law", "weight": 0.7}]}

Input entities: ["coalition of northern provinces", "water-sharing treaty", "geneva"]
Input text: "The coalition of northern provinces opposes the water-sharing treaty signed in Geneva."
Output:
{"relationships": [{"source": "coalition of northern provinces", "target": "water-sharing treaty", "relation_type": "opposes", "description": "The coalition opposes the treaty", "weight": 0.9}, {"source": "water-sharing treaty", "target": "geneva", "relation_type": "locatedIn", "description": "The treaty was signed in Geneva", "weight": 0.85}]}

TEXT:
%s`

// buildEntityTypeSection renders the advertised entity types with their
// glosses as a prompt bullet list.
func buildEntityTypeSection() string {
	var b strings.Builder
	for _, t := range ontology.PromptEntityTypes() {
		gloss, _ := ontology.EntityGloss(t)
		fmt.Fprintf(&b, "- %-16s: %s\n", t, gloss)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildRelationTypeSection renders the advertised relation types with
// their glosses as a prompt bullet list.
func buildRelationTypeSection() string {
	var b strings.Builder
	for _, t := range ontology.PromptRelationTypes() {
		gloss, _ := ontology.RelationGloss(t)
		fmt.Fprintf(&b, "- %-16s: %s\n", t, gloss)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Case-insensitive lookup tables from LLM-returned type strings to the
// canonical MCL spelling. Models frequently lowercase or camel-mangle the
// advertised types.
var (
	canonicalOnce     sync.Once
	canonicalEntity   map[string]string
	canonicalRelation map[string]string
)

func buildCanonicalTables() {
	canonicalEntity = make(map[string]string)
	for _, t := range ontology.EntityTypes() {
		canonicalEntity[strings.ToLower(t)] = t
	}
	canonicalRelation = make(map[string]string)
	for _, t := range ontology.RelationTypes() {
		canonicalRelation[strings.ToLower(t)] = t
	}
}

// canonicalEntityType resolves an LLM-returned entity type to its MCL
// spelling. Returns false if the type is not in the library.
func canonicalEntityType(s string) (string, bool) {
	canonicalOnce.Do(buildCanonicalTables)
	t, ok := canonicalEntity[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// canonicalRelationType resolves an LLM-returned relation type to its MCL
// spelling. Returns false if the type is not in the library.
func canonicalRelationType(s string) (string, bool) {
	canonicalOnce.Do(buildCanonicalTables)
	t, ok := canonicalRelation[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// defaultConcurrency is the default semaphore size for parallel chunk processing.
const defaultConcurrency = 16

// minChunkTokens skips chunks below this threshold (headers, TOC lines, etc.)
const minChunkTokens = 30

// perChunkTimeout caps how long a single chunk extraction can take.
const perChunkTimeout = 90 * time.Second

// ---------------------------------------------------------------------------
// Regex patterns for pre-extracting structured references from text.
// These are fed as hints to the entity extraction prompt so the LLM does not
// miss dates, amounts, and legal citations that 7B models tend to overlook.
// ---------------------------------------------------------------------------
var (
	// Dates: "12 March 2024", "March 2024", "2024-03-12"
	reDate = regexp.MustCompile(`(?i)\b(?:\d{1,2}\s+)?(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	// Monetary amounts: "$2.5 billion", "EUR 300 million", "¤1,200"
	reMoney = regexp.MustCompile(`(?i)(?:[$€£¥]|USD|EUR|GBP|JPY|CNY)\s?\d[\d,.]*(?:\s*(?:billion|million|trillion|bn|mn))?`)
	// Percentages: "12%", "3.5 percent"
	rePercent = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:%|percent|per cent)`)
	// Legal citations: "Article 5", "Resolution 2231", "Directive 2009/28/EC", "Section 230"
	reLegalRef = regexp.MustCompile(`(?i)\b(?:Article|Resolution|Directive|Regulation|Section|Clause|Amendment|Chapter)\s+\d[\w/.-]*\b`)
	// Institutional acronyms: NATO, IMF, WTO, UNHCR
	reAcronym = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	// Years standing alone: 1900-2099
	reYear = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// preExtractReferences uses regex to find structured references in text.
// These are fed as hints to the entity extraction prompt.
func preExtractReferences(text string) []string {
	seen := make(map[string]bool)
	var refs []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			refs = append(refs, s)
		}
	}

	patterns := []*regexp.Regexp{
		reLegalRef,
		reDate,
		reMoney,
		rePercent,
		reAcronym,
		reYear,
	}

	for _, p := range patterns {
		for _, m := range p.FindAllString(text, -1) {
			add(m)
		}
	}

	return refs
}

// Builder constructs the knowledge graph from document chunks. Extracted
// entities and relationships are validated against the ontology before
// persistence. Lenient mode demotes unknown entity types to Concept and
// drops invalid relationships with a warning; strict mode rejects the
// whole chunk with ErrOntologyViolation.
type Builder struct {
	store       *store.Store
	chat        llm.Provider
	embed       llm.Provider
	concurrency int
	strict      bool
}

// NewBuilder creates a new graph builder.
func NewBuilder(s *store.Store, chat, embed llm.Provider, concurrency int, strict bool) *Builder {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Builder{
		store:       s,
		chat:        chat,
		embed:       embed,
		concurrency: concurrency,
		strict:      strict,
	}
}

// Build extracts entities and relationships from chunks and stores them.
// chunks and chunkIDs correspond by index.
func (b *Builder) Build(ctx context.Context, docID int64, chunks []store.Chunk, chunkIDs []int64) error {
	if len(chunks) != len(chunkIDs) {
		return fmt.Errorf("graph.Build: chunks and chunkIDs length mismatch (%d vs %d)", len(chunks), len(chunkIDs))
	}

	// Filter out trivial chunks (headers, TOC entries, etc.)
	type indexedChunk struct {
		chunk   store.Chunk
		chunkID int64
	}
	var eligible []indexedChunk
	for i := range chunks {
		if estimateTokens(chunks[i].Content) < minChunkTokens {
			slog.Debug("graph: skipping trivial chunk", "chunk_id", chunkIDs[i],
				"tokens", estimateTokens(chunks[i].Content))
			continue
		}
		eligible = append(eligible, indexedChunk{chunks[i], chunkIDs[i]})
	}

	if len(eligible) == 0 {
		return nil
	}

	slog.Info("graph: processing chunks", "total", len(chunks), "eligible", len(eligible),
		"skipped", len(chunks)-len(eligible), "concurrency", b.concurrency, "strict", b.strict)

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		sem        = make(chan struct{}, b.concurrency)
		errs       []string
		completed  int
		buildStart = time.Now()
	)

	total := len(eligible)

	for _, ic := range eligible {
		wg.Add(1)
		go func(chunk store.Chunk, chunkID int64) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, fmt.Sprintf("chunk %d: %v", chunkID, ctx.Err()))
				mu.Unlock()
				return
			}

			// Per-chunk timeout to avoid hanging on slow LLM responses.
			chunkCtx, cancel := context.WithTimeout(ctx, perChunkTimeout)
			defer cancel()

			chunkStart := time.Now()
			if err := b.processChunk(chunkCtx, chunk, chunkID); err != nil {
				slog.Warn("graph: chunk failed",
					"chunk_id", chunkID, "error", err,
					"elapsed", time.Since(chunkStart).Round(time.Millisecond))
				mu.Lock()
				errs = append(errs, fmt.Sprintf("chunk %d: %v", chunkID, err))
				completed++
				mu.Unlock()
			} else {
				mu.Lock()
				completed++
				n := completed
				mu.Unlock()
				slog.Info("graph: chunk processed",
					"progress", fmt.Sprintf("%d/%d", n, total),
					"chunk_id", chunkID,
					"elapsed", time.Since(chunkStart).Round(time.Millisecond),
					"total_elapsed", time.Since(buildStart).Round(time.Millisecond))
			}
		}(ic.chunk, ic.chunkID)
	}

	wg.Wait()

	if len(errs) == len(eligible) && len(eligible) > 0 {
		return fmt.Errorf("graph.Build: all %d eligible chunks failed; first error: %s", len(eligible), errs[0])
	}
	if len(errs) > 0 {
		slog.Warn("graph: build completed with failures",
			"succeeded", len(eligible)-len(errs), "failed", len(errs), "total", len(eligible))
	}
	return nil
}

// codeBlockRe strips markdown code fences from LLM output.
var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON attempts to find a valid JSON object in the LLM response text.
// It handles common LLM quirks: markdown code blocks, text before/after JSON.
func extractJSON(raw string) (string, error) {
	// Strip markdown code blocks first.
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}

	raw = strings.TrimSpace(raw)

	// If it already starts with '{', try as-is.
	if strings.HasPrefix(raw, "{") {
		return raw, nil
	}

	// Find the first '{' and last '}' to extract the JSON object.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1], nil
	}

	return "", fmt.Errorf("no JSON object found in response")
}

// entityResult is the JSON shape returned by the entity extraction LLM call.
type entityResult struct {
	Entities []ExtractedEntity `json:"entities"`
}

// relationshipResult is the JSON shape returned by the relationship extraction
// LLM call.
type relationshipResult struct {
	Relationships []ExtractedRelationship `json:"relationships"`
}

// extractEntities calls the LLM with a focused entity-only prompt.
// Pre-extracted references are included as hints so the model does not miss
// structured data like dates, amounts, and legal citations.
func (b *Builder) extractEntities(ctx context.Context, chunk store.Chunk) ([]ExtractedEntity, error) {
	refs := preExtractReferences(chunk.Content)

	var hintsSection string
	if len(refs) > 0 {
		hintsSection = fmt.Sprintf(
			"HINTS: The following references were detected in the text. Make sure to include them as entities:\n%s\n",
			strings.Join(refs, ", "),
		)
	}

	prompt := fmt.Sprintf(entityPromptTemplate, buildEntityTypeSection(), hintsSection, chunk.Content)

	resp, err := b.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.0,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("entity extraction llm chat: %w", err)
	}

	jsonStr, err := extractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing entity extraction result: %w", err)
	}

	var result entityResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling entity extraction result: %w", err)
	}

	return result.Entities, nil
}

// extractRelationships calls the LLM with the known entities and asks it to
// find only relationships (verbs) between them.
func (b *Builder) extractRelationships(ctx context.Context, chunk store.Chunk, entities []ExtractedEntity) ([]ExtractedRelationship, error) {
	if len(entities) < 2 {
		// Need at least two entities to form a relationship.
		return nil, nil
	}

	// Build the entity list for the prompt.
	entityNames := make([]string, 0, len(entities))
	for _, e := range entities {
		name := strings.TrimSpace(strings.ToLower(e.Name))
		if name != "" {
			entityNames = append(entityNames, name)
		}
	}

	entitiesJSON, _ := json.Marshal(entityNames)
	prompt := fmt.Sprintf(relationPromptTemplate, string(entitiesJSON), buildRelationTypeSection(), chunk.Content)

	resp, err := b.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.0,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("relationship extraction llm chat: %w", err)
	}

	jsonStr, err := extractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing relationship extraction result: %w", err)
	}

	var result relationshipResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling relationship extraction result: %w", err)
	}

	return result.Relationships, nil
}

// resolveEntity validates an extracted entity against the ontology and
// returns the canonical type plus its DOLCE category. Unmapped types are
// demoted to Concept in lenient mode; in strict mode resolution fails and
// processChunk rejects the chunk.
func (b *Builder) resolveEntity(e ExtractedEntity) (entityType, dolceCategory string, ok bool) {
	canonical, known := canonicalEntityType(e.Type)
	if !known {
		if b.strict {
			return "", "", false
		}
		slog.Debug("graph: demoting entity with unmapped type to Concept",
			"entity", e.Name, "type", e.Type)
		canonical = "Concept"
	}

	cat, err := ontology.EntityCategory(canonical)
	if err != nil {
		// Unreachable for canonical types; guards table edits.
		return canonical, "", true
	}
	return canonical, string(cat), true
}

// resolveRelationship validates an extracted relationship against the
// ontology and returns the canonical relation type plus the DOLCE relation
// annotation. Invalid relationships, whether the type is unmapped or the
// endpoint categories violate the relation's domain/range, are dropped
// with a warning; in strict mode processChunk escalates the drop to a
// chunk-level ErrOntologyViolation.
func (b *Builder) resolveRelationship(r ExtractedRelationship, srcType, tgtType string) (relType, dolceRelation string, ok bool) {
	canonical, known := canonicalRelationType(r.RelationType)
	if !known {
		slog.Warn("graph: dropping relationship with unmapped type",
			"type", r.RelationType, "source", r.Source, "target", r.Target)
		return "", "", false
	}

	report := ontology.ValidateRelationship(ontology.RelationshipInput{
		Type:       canonical,
		SourceName: r.Source,
		SourceType: srcType,
		TargetName: r.Target,
		TargetType: tgtType,
	})
	if !report.Valid() {
		slog.Warn("graph: dropping relationship failing ontology validation",
			"type", canonical, "source", r.Source, "target", r.Target,
			"issues", report.Strings())
		return "", "", false
	}

	rel, err := ontology.MapRelationType(canonical)
	if err != nil {
		return canonical, "", true
	}
	return canonical, rel.Name, true
}

// processChunk orchestrates the multi-step extraction pipeline for a single
// chunk: first extracts entities, then extracts relationships given those
// entities, validates both against the ontology, and finally persists the
// results.
func (b *Builder) processChunk(ctx context.Context, chunk store.Chunk, chunkID int64) error {
	// Step 1: Extract entities (atomic LLM call).
	entities, err := b.extractEntities(ctx, chunk)
	if err != nil {
		return fmt.Errorf("step 1 (entities): %w", err)
	}

	// Step 2: Extract relationships using the found entities (atomic LLM call).
	relationships, err := b.extractRelationships(ctx, chunk, entities)
	if err != nil {
		// Non-fatal: we still have entities to persist.
		slog.Warn("graph: relationship extraction failed, persisting entities only",
			"chunk_id", chunkID, "error", err)
		relationships = nil
	}

	// Resolve and validate the whole extraction before touching the store,
	// so strict mode rejects the chunk as a unit and persists nothing.
	type resolvedEntity struct {
		name, entityType, dolceCategory, description string
	}
	var keptEntities []resolvedEntity
	entityTypeMap := make(map[string]string, len(entities))

	for _, e := range entities {
		name := strings.TrimSpace(strings.ToLower(e.Name))
		if name == "" {
			continue
		}

		entityType, dolceCategory, keep := b.resolveEntity(e)
		if !keep {
			if b.strict {
				return fmt.Errorf("entity %q has unmapped type %q: %w", name, e.Type, ErrOntologyViolation)
			}
			continue
		}
		keptEntities = append(keptEntities, resolvedEntity{name, entityType, dolceCategory, e.Description})
		entityTypeMap[name] = entityType
	}

	type resolvedRelationship struct {
		source, target, relType, dolceRelation, description string
		weight                                              float64
	}
	var keptRels []resolvedRelationship
	// Endpoints extracted in earlier chunks are resolved from the store.
	storedIDs := make(map[string]int64)

	for _, r := range relationships {
		srcName := strings.TrimSpace(strings.ToLower(r.Source))
		tgtName := strings.TrimSpace(strings.ToLower(r.Target))
		if srcName == "" || tgtName == "" {
			continue
		}

		srcType, ok := b.endpointType(ctx, srcName, entityTypeMap, storedIDs)
		if !ok {
			continue
		}
		tgtType, ok := b.endpointType(ctx, tgtName, entityTypeMap, storedIDs)
		if !ok {
			continue
		}

		relType, dolceRelation, keep := b.resolveRelationship(r, srcType, tgtType)
		if !keep {
			if b.strict {
				return fmt.Errorf("relationship %s -[%s]-> %s: %w",
					srcName, r.RelationType, tgtName, ErrOntologyViolation)
			}
			continue
		}

		weight := r.Weight
		if weight <= 0 {
			weight = 1.0
		}
		keptRels = append(keptRels, resolvedRelationship{srcName, tgtName, relType, dolceRelation, r.Description, weight})
	}

	// Persist the validated subset.
	entityIDMap := make(map[string]int64, len(keptEntities))
	for _, e := range keptEntities {
		// Upsert + link in a single transaction to avoid FK race conditions.
		id, err := b.store.UpsertEntityAndLink(ctx, store.Entity{
			Name:          e.name,
			EntityType:    e.entityType,
			DolceCategory: e.dolceCategory,
			Description:   e.description,
		}, chunkID)
		if err != nil {
			slog.Warn("graph: entity upsert+link failed, skipping",
				"entity", e.name, "chunk", chunkID, "error", err)
			continue
		}
		entityIDMap[e.name] = id
	}

	for _, r := range keptRels {
		srcID, ok := entityIDMap[r.source]
		if !ok {
			srcID, ok = storedIDs[r.source]
		}
		if !ok {
			continue
		}
		tgtID, ok := entityIDMap[r.target]
		if !ok {
			tgtID, ok = storedIDs[r.target]
		}
		if !ok {
			continue
		}

		chunkIDPtr := &chunkID
		if _, err := b.store.InsertRelationship(ctx, store.Relationship{
			SourceEntityID: srcID,
			TargetEntityID: tgtID,
			RelationType:   r.relType,
			DolceRelation:  r.dolceRelation,
			Weight:         r.weight,
			Description:    r.description,
			SourceChunkID:  chunkIDPtr,
		}); err != nil {
			slog.Warn("graph: relationship insert failed, skipping",
				"source", r.source, "target", r.target, "error", err)
			continue
		}
	}

	return nil
}

// endpointType resolves a relationship endpoint to its canonical entity
// type, first from the current chunk's extraction and then from the store
// for entities extracted earlier. Stored endpoints remember their row ID
// in storedIDs for the persistence pass.
func (b *Builder) endpointType(ctx context.Context, name string, typeMap map[string]string, storedIDs map[string]int64) (string, bool) {
	if t, ok := typeMap[name]; ok {
		return t, true
	}
	stored, err := b.store.GetEntitiesByNames(ctx, []string{name})
	if err != nil || len(stored) == 0 {
		return "", false
	}
	storedIDs[name] = stored[0].ID
	typeMap[name] = stored[0].EntityType
	return stored[0].EntityType, true
}
