//go:build cgo

package graph

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ontograph-ai/ontograph/llm"
	"github.com/ontograph-ai/ontograph/store"
)

// scriptedChat replays canned responses in order. Extra calls get an
// empty extraction.
type scriptedChat struct {
	mu      sync.Mutex
	replies []string
}

func (c *scriptedChat) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) == 0 {
		return &llm.ChatResponse{Content: `{"entities": [], "relationships": []}`, Model: "mock"}, nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return &llm.ChatResponse{Content: reply, Model: "mock"}, nil
}

func (c *scriptedChat) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0, 0}
	}
	return out, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, 4)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedEntitiesAndRelationships inserts a small graph into the store and returns
// entity IDs and chunk IDs that were created.
func seedEntitiesAndRelationships(t *testing.T, s *store.Store) (entityIDs map[string]int64, chunkIDs []int64) {
	t.Helper()
	ctx := context.Background()

	// Insert a document so chunks have a valid document_id.
	docID, err := s.UpsertDocument(ctx, store.Document{
		Path:        "/tmp/briefing.pdf",
		Filename:    "briefing.pdf",
		Format:      "pdf",
		ContentHash: "abc123",
		ParseMethod: "native",
		Status:      "ready",
	})
	if err != nil {
		t.Fatalf("upserting document: %v", err)
	}

	// Insert chunks.
	chunks := []store.Chunk{
		{DocumentID: docID, Content: "Maria Santos leads the Trade Ministry.", ChunkType: "text", Heading: "Leadership", PageNumber: 1, PositionInDoc: 0, TokenCount: 10},
		{DocumentID: docID, Content: "The Trade Ministry amended the export tariff law.", ChunkType: "text", Heading: "Policy", PageNumber: 2, PositionInDoc: 1, TokenCount: 10},
		{DocumentID: docID, Content: "Maria Santos attended the Geneva trade summit.", ChunkType: "text", Heading: "Diplomacy", PageNumber: 3, PositionInDoc: 2, TokenCount: 10},
	}
	ids, err := s.InsertChunks(ctx, chunks)
	if err != nil {
		t.Fatalf("inserting chunks: %v", err)
	}
	chunkIDs = ids

	// Insert entities.
	entityIDs = make(map[string]int64)
	entities := []store.Entity{
		{Name: "maria santos", EntityType: "IndividualActor", DolceCategory: "agentive-physical-object", Description: "Senator and minister"},
		{Name: "trade ministry", EntityType: "GovernmentBody", DolceCategory: "social-agent", Description: "Government ministry"},
		{Name: "export tariff law", EntityType: "Law", DolceCategory: "description", Description: "Law on export tariffs"},
		{Name: "geneva trade summit", EntityType: "Event", DolceCategory: "event", Description: "International trade summit"},
		{Name: "tariff policy", EntityType: "Policy", DolceCategory: "description", Description: "Policy on tariffs"},
		{Name: "export sector", EntityType: "Concept", DolceCategory: "concept", Description: "The export sector"},
	}
	for _, e := range entities {
		id, err := s.UpsertEntity(ctx, e)
		if err != nil {
			t.Fatalf("upserting entity %q: %v", e.Name, err)
		}
		entityIDs[e.Name] = id
	}

	// Link entities to chunks.
	links := map[string]int{
		"maria santos":        0,
		"trade ministry":      0,
		"export tariff law":   1,
		"tariff policy":       1,
		"geneva trade summit": 2,
		"export sector":       2,
	}
	for name, chunkIdx := range links {
		if err := s.LinkEntityChunk(ctx, entityIDs[name], chunkIDs[chunkIdx]); err != nil {
			t.Fatalf("linking entity %q to chunk: %v", name, err)
		}
	}

	// Insert relationships.
	relationships := []store.Relationship{
		{SourceEntityID: entityIDs["maria santos"], TargetEntityID: entityIDs["trade ministry"], RelationType: "leads", DolceRelation: "specifically-depends-on", Weight: 0.9, Description: "Maria Santos leads the Trade Ministry"},
		{SourceEntityID: entityIDs["trade ministry"], TargetEntityID: entityIDs["export tariff law"], RelationType: "amends", DolceRelation: "specifically-depends-on", Weight: 0.85, Description: "The ministry amended the law"},
		{SourceEntityID: entityIDs["export tariff law"], TargetEntityID: entityIDs["tariff policy"], RelationType: "defines", DolceRelation: "about", Weight: 0.8, Description: "The law defines the policy"},
		{SourceEntityID: entityIDs["maria santos"], TargetEntityID: entityIDs["geneva trade summit"], RelationType: "attends", DolceRelation: "participant-in", Weight: 0.7, Description: "Maria Santos attended the summit"},
		{SourceEntityID: entityIDs["tariff policy"], TargetEntityID: entityIDs["export sector"], RelationType: "regulates", DolceRelation: "about", Weight: 0.6, Description: "The policy regulates exports"},
	}
	for _, r := range relationships {
		if _, err := s.InsertRelationship(ctx, r); err != nil {
			t.Fatalf("inserting relationship: %v", err)
		}
	}

	return entityIDs, chunkIDs
}

func TestExtractionResultParsing(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantEntities  int
		wantRelations int
		wantErr       bool
	}{
		{
			name: "valid full extraction",
			input: `{
				"entities": [
					{"name": "maria santos", "type": "IndividualActor", "description": "Senator"},
					{"name": "trade ministry", "type": "GovernmentBody", "description": "Ministry"}
				],
				"relationships": [
					{"source": "maria santos", "target": "trade ministry", "relation_type": "leads", "description": "leads the ministry", "weight": 0.95}
				]
			}`,
			wantEntities:  2,
			wantRelations: 1,
		},
		{
			name:          "empty arrays",
			input:         `{"entities": [], "relationships": []}`,
			wantEntities:  0,
			wantRelations: 0,
		},
		{
			name: "entities only",
			input: `{
				"entities": [
					{"name": "export tariff law", "type": "Law", "description": "Tariff law"}
				],
				"relationships": []
			}`,
			wantEntities:  1,
			wantRelations: 0,
		},
		{
			name:    "invalid json",
			input:   `{not valid json}`,
			wantErr: true,
		},
		{
			name: "multiple relationships",
			input: `{
				"entities": [
					{"name": "coalition", "type": "Coalition", "description": "Alliance"},
					{"name": "treaty", "type": "Treaty", "description": "Water treaty"},
					{"name": "geneva", "type": "City", "description": "City"}
				],
				"relationships": [
					{"source": "coalition", "target": "treaty", "relation_type": "opposes", "description": "opposes", "weight": 0.8},
					{"source": "treaty", "target": "geneva", "relation_type": "locatedIn", "description": "signed in", "weight": 0.9}
				]
			}`,
			wantEntities:  3,
			wantRelations: 2,
		},
		{
			name: "weight boundaries",
			input: `{
				"entities": [
					{"name": "entity a", "type": "Concept", "description": "test"}
				],
				"relationships": [
					{"source": "entity a", "target": "entity a", "relation_type": "references", "description": "self-ref", "weight": 0.0},
					{"source": "entity a", "target": "entity a", "relation_type": "defines", "description": "self-def", "weight": 1.0}
				]
			}`,
			wantEntities:  1,
			wantRelations: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result ExtractionResult
			err := json.Unmarshal([]byte(tt.input), &result)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := len(result.Entities); got != tt.wantEntities {
				t.Errorf("entities count: got %d, want %d", got, tt.wantEntities)
			}
			if got := len(result.Relationships); got != tt.wantRelations {
				t.Errorf("relationships count: got %d, want %d", got, tt.wantRelations)
			}

			// Verify fields are populated for non-empty results.
			for i, e := range result.Entities {
				if e.Name == "" {
					t.Errorf("entity[%d] has empty name", i)
				}
				if e.Type == "" {
					t.Errorf("entity[%d] has empty type", i)
				}
			}
			for i, r := range result.Relationships {
				if r.Source == "" {
					t.Errorf("relationship[%d] has empty source", i)
				}
				if r.Target == "" {
					t.Errorf("relationship[%d] has empty target", i)
				}
				if r.RelationType == "" {
					t.Errorf("relationship[%d] has empty relation_type", i)
				}
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare object", input: `{"entities": []}`, want: `{"entities": []}`},
		{name: "code fence", input: "```json\n{\"entities\": []}\n```", want: `{"entities": []}`},
		{name: "leading prose", input: "Here is the result:\n{\"entities\": []}", want: `{"entities": []}`},
		{name: "no object", input: "I could not find anything.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreExtractReferences(t *testing.T) {
	text := "On 12 March 2024 the IMF approved a $2.5 billion loan under Article 5; " +
		"the subsidy was cut by 12% following Resolution 2231."

	refs := preExtractReferences(text)
	joined := strings.Join(refs, "|")

	for _, want := range []string{"12 March 2024", "IMF", "$2.5 billion", "Article 5", "12%", "Resolution 2231"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q among detected references, got %v", want, refs)
		}
	}
}

func TestPreExtractReferencesDeduplicates(t *testing.T) {
	refs := preExtractReferences("NATO met NATO officials; NATO confirmed.")
	count := 0
	for _, r := range refs {
		if r == "NATO" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected NATO once, got %d occurrences in %v", count, refs)
	}
}

func TestCanonicalEntityType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"IndividualActor", "IndividualActor", true},
		{"individualactor", "IndividualActor", true},
		{" organization ", "Organization", true},
		{"Widget", "", false},
	}
	for _, tt := range tests {
		got, ok := canonicalEntityType(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("canonicalEntityType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveEntityLenientDemotesUnknown(t *testing.T) {
	b := &Builder{strict: false}
	typ, cat, keep := b.resolveEntity(ExtractedEntity{Name: "widget", Type: "Widget"})
	if !keep {
		t.Fatal("lenient mode should keep unknown-typed entities")
	}
	if typ != "Concept" {
		t.Errorf("expected demotion to Concept, got %q", typ)
	}
	if cat != "concept" {
		t.Errorf("expected DOLCE category 'concept', got %q", cat)
	}
}

func TestResolveEntityStrictDropsUnknown(t *testing.T) {
	b := &Builder{strict: true}
	if _, _, keep := b.resolveEntity(ExtractedEntity{Name: "widget", Type: "Widget"}); keep {
		t.Fatal("strict mode should drop unknown-typed entities")
	}
}

func TestResolveEntityAnnotatesCategory(t *testing.T) {
	b := &Builder{}
	typ, cat, keep := b.resolveEntity(ExtractedEntity{Name: "trade ministry", Type: "governmentbody"})
	if !keep {
		t.Fatal("expected entity to be kept")
	}
	if typ != "GovernmentBody" {
		t.Errorf("type: got %q, want GovernmentBody", typ)
	}
	if cat != "social-agent" {
		t.Errorf("category: got %q, want social-agent", cat)
	}
}

func TestResolveRelationshipAnnotation(t *testing.T) {
	b := &Builder{}
	relType, dolce, keep := b.resolveRelationship(
		ExtractedRelationship{Source: "maria santos", Target: "summit", RelationType: "attends"},
		"IndividualActor", "Event")
	if !keep {
		t.Fatal("expected relationship to be kept")
	}
	if relType != "attends" {
		t.Errorf("relation type: got %q", relType)
	}
	if dolce != "participant-in" {
		t.Errorf("dolce relation: got %q, want participant-in", dolce)
	}
}

func TestResolveRelationshipDropsDomainViolation(t *testing.T) {
	// leads requires an endurant source; an Event (perdurant) cannot lead.
	// The drop is mode-independent: only the valid subset is ever stored.
	for _, strict := range []bool{false, true} {
		b := &Builder{strict: strict}
		if _, _, keep := b.resolveRelationship(
			ExtractedRelationship{Source: "geneva summit", Target: "trade ministry", RelationType: "leads"},
			"Event", "GovernmentBody"); keep {
			t.Errorf("strict=%v: expected domain-violating relationship to be dropped", strict)
		}
	}
}

func TestResolveRelationshipDropsUnmappedType(t *testing.T) {
	for _, strict := range []bool{false, true} {
		b := &Builder{strict: strict}
		if _, _, keep := b.resolveRelationship(
			ExtractedRelationship{Source: "maria santos", Target: "trade ministry", RelationType: "frobnicates"},
			"IndividualActor", "GovernmentBody"); keep {
			t.Errorf("strict=%v: expected relationship with unmapped type to be dropped", strict)
		}
	}
}

// seedChunk inserts a document with a single chunk and returns the chunk
// row and its ID.
func seedChunk(t *testing.T, s *store.Store, content string) (store.Chunk, int64) {
	t.Helper()
	ctx := context.Background()

	docID, err := s.UpsertDocument(ctx, store.Document{
		Path:        "/tmp/summit-report.pdf",
		Filename:    "summit-report.pdf",
		Format:      "pdf",
		ContentHash: "def456",
		ParseMethod: "native",
		Status:      "ready",
	})
	if err != nil {
		t.Fatalf("upserting document: %v", err)
	}

	chunk := store.Chunk{DocumentID: docID, Content: content, ChunkType: "text", Heading: "Summit", PageNumber: 1, TokenCount: 20}
	ids, err := s.InsertChunks(ctx, []store.Chunk{chunk})
	if err != nil {
		t.Fatalf("inserting chunk: %v", err)
	}
	return chunk, ids[0]
}

// Extraction script with one valid relationship and nothing else wrong.
var invalidRelScript = []string{
	`{"entities": [
		{"name": "geneva summit", "type": "Event", "description": "Trade summit"},
		{"name": "trade ministry", "type": "GovernmentBody", "description": "Ministry"}
	]}`,
	`{"relationships": [
		{"source": "geneva summit", "target": "trade ministry", "relation_type": "leads", "description": "a summit cannot lead", "weight": 0.9}
	]}`,
}

func TestProcessChunkStrictRejectsInvalidChunk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chunk, chunkID := seedChunk(t, s, "The Geneva summit was convened by the Trade Ministry.")

	chat := &scriptedChat{replies: append([]string(nil), invalidRelScript...)}
	b := NewBuilder(s, chat, chat, 1, true)

	err := b.processChunk(ctx, chunk, chunkID)
	if !errors.Is(err, ErrOntologyViolation) {
		t.Fatalf("expected ErrOntologyViolation, got %v", err)
	}

	// The chunk is rejected as a unit: no entities, no relationships.
	entities, err := s.AllEntities(ctx)
	if err != nil {
		t.Fatalf("AllEntities: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("expected nothing persisted from rejected chunk, got %d entities", len(entities))
	}
}

func TestProcessChunkLenientDropsInvalidRelationship(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chunk, chunkID := seedChunk(t, s, "The Geneva summit was convened by the Trade Ministry.")

	chat := &scriptedChat{replies: append([]string(nil), invalidRelScript...)}
	b := NewBuilder(s, chat, chat, 1, false)

	if err := b.processChunk(ctx, chunk, chunkID); err != nil {
		t.Fatalf("processChunk: %v", err)
	}

	// The valid subset is stored: both entities, but not the
	// domain-violating relationship.
	entities, err := s.AllEntities(ctx)
	if err != nil {
		t.Fatalf("AllEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Errorf("expected 2 entities, got %d", len(entities))
	}
	rels, err := s.AllRelationships(ctx)
	if err != nil {
		t.Fatalf("AllRelationships: %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("expected invalid relationship to be dropped, got %d stored", len(rels))
	}
}

func TestProcessChunkStrictRejectsUnmappedEntityType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chunk, chunkID := seedChunk(t, s, "The widget was deployed.")

	chat := &scriptedChat{replies: []string{
		`{"entities": [{"name": "widget", "type": "Widget", "description": "not in the library"}]}`,
	}}
	b := NewBuilder(s, chat, chat, 1, true)

	if err := b.processChunk(ctx, chunk, chunkID); !errors.Is(err, ErrOntologyViolation) {
		t.Fatalf("expected ErrOntologyViolation, got %v", err)
	}
}

func TestBuildEntityTypeSectionCoversAdvertisedTypes(t *testing.T) {
	section := buildEntityTypeSection()
	for _, typ := range []string{"IndividualActor", "Organization", "Event", "Policy", "Claim"} {
		if !strings.Contains(section, typ) {
			t.Errorf("prompt section missing advertised entity type %q", typ)
		}
	}
}

func TestBuildRelationTypeSectionCoversAdvertisedTypes(t *testing.T) {
	section := buildRelationTypeSection()
	for _, typ := range []string{"leads", "memberOf", "participatesIn", "causes", "locatedIn"} {
		if !strings.Contains(section, typ) {
			t.Errorf("prompt section missing advertised relation type %q", typ)
		}
	}
}

func TestCommunityDetection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entityIDs, _ := seedEntitiesAndRelationships(t, s)

	communities, err := DetectCommunities(ctx, s)
	if err != nil {
		t.Fatalf("DetectCommunities: %v", err)
	}

	if len(communities) == 0 {
		t.Fatal("expected at least one community, got none")
	}

	// All entities are connected through maria santos and the tariff chain,
	// so they should all be in one level-0 community.
	var level0 []store.Community
	for _, c := range communities {
		if c.Level == 0 {
			level0 = append(level0, c)
		}
	}

	if len(level0) == 0 {
		t.Fatal("expected at least one level-0 community")
	}

	// Verify that the level-0 communities contain all entity IDs.
	var allFoundIDs []int64
	for _, c := range level0 {
		var ids []int64
		if err := json.Unmarshal([]byte(c.EntityIDs), &ids); err != nil {
			t.Fatalf("parsing community entity_ids: %v", err)
		}
		allFoundIDs = append(allFoundIDs, ids...)
	}

	expectedEntityCount := len(entityIDs)
	if len(allFoundIDs) != expectedEntityCount {
		t.Errorf("expected %d entity IDs across level-0 communities, got %d", expectedEntityCount, len(allFoundIDs))
	}

	// Verify communities are persisted in the store.
	storedL0, err := s.GetCommunities(ctx, 0)
	if err != nil {
		t.Fatalf("GetCommunities(0): %v", err)
	}
	if len(storedL0) != len(level0) {
		t.Errorf("stored level-0 communities: got %d, want %d", len(storedL0), len(level0))
	}
}

func TestCommunityDetectionEmptyGraph(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	communities, err := DetectCommunities(ctx, s)
	if err != nil {
		t.Fatalf("DetectCommunities on empty graph: %v", err)
	}
	if communities != nil {
		t.Errorf("expected nil communities for empty graph, got %d", len(communities))
	}
}

func TestTraverse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entityIDs, chunkIDs := seedEntitiesAndRelationships(t, s)

	t.Run("single seed entity with depth 1", func(t *testing.T) {
		// Start from "maria santos" with depth 1. Direct neighbours:
		// - trade ministry (via leads)
		// - geneva trade summit (via attends)
		result, err := Traverse(ctx, s, []string{"maria santos"}, 1)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}

		if len(result.EntityIDs) == 0 {
			t.Fatal("expected at least one entity in traversal result")
		}

		// maria santos itself plus its 2 direct neighbours.
		expectedEntities := 3
		if len(result.EntityIDs) != expectedEntities {
			t.Errorf("entity count: got %d, want %d", len(result.EntityIDs), expectedEntities)
		}

		// Verify all expected entity IDs are present.
		foundEntities := make(map[int64]bool)
		for _, eid := range result.EntityIDs {
			foundEntities[eid] = true
		}
		for _, name := range []string{"maria santos", "trade ministry", "geneva trade summit"} {
			if !foundEntities[entityIDs[name]] {
				t.Errorf("expected entity %q (ID %d) in result", name, entityIDs[name])
			}
		}

		// Verify chunks are found.
		if len(result.ChunkIDs) == 0 {
			t.Error("expected at least one chunk in traversal result")
		}
	})

	t.Run("single seed entity with depth 0", func(t *testing.T) {
		// Depth 0 means only the seed itself.
		result, err := Traverse(ctx, s, []string{"maria santos"}, 0)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}

		if len(result.EntityIDs) != 1 {
			t.Errorf("entity count at depth 0: got %d, want 1", len(result.EntityIDs))
		}
		if result.EntityIDs[0] != entityIDs["maria santos"] {
			t.Errorf("expected seed entity ID %d, got %d", entityIDs["maria santos"], result.EntityIDs[0])
		}
	})

	t.Run("multiple seed entities", func(t *testing.T) {
		result, err := Traverse(ctx, s, []string{"maria santos", "export sector"}, 1)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}

		// Both seeds plus their neighbours.
		if len(result.EntityIDs) < 2 {
			t.Errorf("expected at least 2 entities with multiple seeds, got %d", len(result.EntityIDs))
		}
	})

	t.Run("nonexistent seed entity", func(t *testing.T) {
		result, err := Traverse(ctx, s, []string{"nonexistent entity"}, 1)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}
		if len(result.EntityIDs) != 0 {
			t.Errorf("expected 0 entities for nonexistent seed, got %d", len(result.EntityIDs))
		}
	})

	t.Run("empty query entities", func(t *testing.T) {
		result, err := Traverse(ctx, s, []string{}, 1)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}
		if len(result.EntityIDs) != 0 {
			t.Errorf("expected 0 entities for empty query, got %d", len(result.EntityIDs))
		}
	})

	t.Run("negative depth", func(t *testing.T) {
		result, err := Traverse(ctx, s, []string{"maria santos"}, -1)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}
		if len(result.EntityIDs) != 0 {
			t.Errorf("expected 0 entities for negative depth, got %d", len(result.EntityIDs))
		}
	})

	t.Run("deep traversal covers full graph", func(t *testing.T) {
		result, err := Traverse(ctx, s, []string{"maria santos"}, 4)
		if err != nil {
			t.Fatalf("Traverse: %v", err)
		}

		// With depth 4 from maria santos, all 6 entities should be reachable.
		if len(result.EntityIDs) != len(entityIDs) {
			t.Errorf("entity count at depth 4: got %d, want %d", len(result.EntityIDs), len(entityIDs))
		}

		// All 3 chunks should be referenced.
		if len(result.ChunkIDs) != len(chunkIDs) {
			t.Errorf("chunk count at depth 4: got %d, want %d", len(result.ChunkIDs), len(chunkIDs))
		}
	})
}
