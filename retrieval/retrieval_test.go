package retrieval

import (
	"strings"
	"testing"

	"github.com/ontograph-ai/ontograph/store"
)

func TestFuseRRF(t *testing.T) {
	vec := []store.RetrievalResult{
		{ChunkID: 1, Content: "a"},
		{ChunkID: 2, Content: "b"},
	}
	fts := []store.RetrievalResult{
		{ChunkID: 2, Content: "b"},
		{ChunkID: 3, Content: "c"},
	}
	graph := []store.RetrievalResult{
		{ChunkID: 1, Content: "a"},
	}

	results, infoMap := fuseRRF(vec, fts, graph, 1.0, 1.0, 0.5, 10)

	if len(results) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(results))
	}

	// Verify method tracking
	if info, ok := infoMap[1]; !ok || len(info.Methods) != 2 {
		t.Errorf("chunk 1 should have 2 methods (vec+graph), got %v", infoMap[1])
	}
	if info, ok := infoMap[2]; !ok || len(info.Methods) != 2 {
		t.Errorf("chunk 2 should have 2 methods (vec+fts), got %v", infoMap[2])
	}

	// Compute expected scores manually using RRF formula: weight / (k + rank + 1)
	// where k = 60 (rrfK constant).
	//
	// Chunk 1: vec rank 0 -> 1.0/(60+0+1) = 1/61, graph rank 0 -> 0.5/(60+0+1) = 0.5/61
	// Chunk 2: vec rank 1 -> 1.0/(60+1+1) = 1/62, fts rank 0 -> 1.0/(60+0+1) = 1/61
	// Chunk 3: fts rank 1 -> 1.0/(60+1+1) = 1/62

	chunk1Score := 1.0/61.0 + 0.5/61.0
	chunk2Score := 1.0/62.0 + 1.0/61.0
	chunk3Score := 1.0 / 62.0

	// Chunk 2 should have the highest score (appears in both vec and fts).
	if results[0].ChunkID != 2 {
		t.Errorf("expected chunk 2 first (highest score), got chunk %d", results[0].ChunkID)
	}
	// Chunk 1 should be second.
	if results[1].ChunkID != 1 {
		t.Errorf("expected chunk 1 second, got chunk %d", results[1].ChunkID)
	}
	// Chunk 3 should be last.
	if results[2].ChunkID != 3 {
		t.Errorf("expected chunk 3 last, got chunk %d", results[2].ChunkID)
	}

	// Verify actual score values with a tolerance.
	const eps = 1e-9
	if diff := results[0].Score - chunk2Score; diff < -eps || diff > eps {
		t.Errorf("chunk 2 score: got %f, want %f", results[0].Score, chunk2Score)
	}
	if diff := results[1].Score - chunk1Score; diff < -eps || diff > eps {
		t.Errorf("chunk 1 score: got %f, want %f", results[1].Score, chunk1Score)
	}
	if diff := results[2].Score - chunk3Score; diff < -eps || diff > eps {
		t.Errorf("chunk 3 score: got %f, want %f", results[2].Score, chunk3Score)
	}
}

func TestFuseRRFMaxResults(t *testing.T) {
	vec := []store.RetrievalResult{
		{ChunkID: 1, Content: "a"},
		{ChunkID: 2, Content: "b"},
		{ChunkID: 3, Content: "c"},
	}

	results, _ := fuseRRF(vec, nil, nil, 1.0, 1.0, 1.0, 2)
	if len(results) != 2 {
		t.Errorf("expected 2 results with maxResults=2, got %d", len(results))
	}
}

func TestFuseRRFEmptyInputs(t *testing.T) {
	results, _ := fuseRRF(nil, nil, nil, 1.0, 1.0, 1.0, 10)
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty inputs, got %d", len(results))
	}
}

func TestFuseRRFWeightZero(t *testing.T) {
	vec := []store.RetrievalResult{
		{ChunkID: 1, Content: "a"},
	}
	fts := []store.RetrievalResult{
		{ChunkID: 2, Content: "b"},
	}

	// Weight for vec is 0, so chunk 1 should have score 0. Only fts contributes.
	results, _ := fuseRRF(vec, fts, nil, 0.0, 1.0, 0.0, 10)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// fts chunk should be ranked first since vec weight is 0.
	if results[0].ChunkID != 2 {
		t.Errorf("expected chunk 2 first when vec weight=0, got chunk %d", results[0].ChunkID)
	}
}

func TestDetectCitations(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"resolution", "What does Resolution 2231 say about enrichment?", true},
		{"directive", "Summarise Directive 2009/28/EC targets", true},
		{"regulation", "Does Regulation (EU) No 833/2014 cover re-exports?", true},
		{"article_ref", "What does Article 5 require?", true},
		{"section_ref", "Explain section 3.2 of the treaty", true},
		{"public_law", "Implications of Public Law 113-235", true},
		{"bill", "Status of H.R. 1234 in committee", true},
		{"formal_date", "What happened on 12 March 2024?", true},
		{"plain_question", "Who leads the trade ministry?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCitations(tt.query); got != tt.want {
				t.Errorf("detectCitations(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSanitizeFTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "plain text",
			input: "economic sanctions policy",
		},
		{
			name:  "special characters removed",
			input: `"Resolution 2231" + (sanctions) - enrichment*`,
		},
		{
			name:  "colons and carets",
			input: "title:treaty category:trade ^boost",
		},
		{
			name:  "single word",
			input: "sanctions",
		},
		{
			name:  "short words filtered",
			input: "a to be or not",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeFTSQuery(tt.input)

			// Result should never contain unescaped FTS5 operators.
			for _, ch := range []string{"*", "(", ")", "+", "^", ":"} {
				if strings.Contains(result, ch) {
					t.Errorf("sanitized query still contains %q: %s", ch, result)
				}
			}

			// Result should not be empty for non-empty input with real words.
			if tt.name == "plain text" && result == "" {
				t.Error("expected non-empty result for plain text input")
			}
		})
	}
}

func TestSanitizeFTSQueryMultiWord(t *testing.T) {
	result := sanitizeFTSQuery("export tariff sanctions")

	// Multi-word inputs should produce quoted phrase + individual terms joined with OR.
	if result == "" {
		t.Fatal("expected non-empty result")
	}

	// Should contain OR separators for multi-term queries.
	if !strings.Contains(result, "OR") {
		t.Errorf("expected OR in multi-word query, got: %s", result)
	}
}

func TestExtractQueryEntities(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string // at least these should be found
	}{
		{
			name:     "capitalized phrases",
			query:    "Who leads the Trade Ministry after Maria Santos resigned?",
			expected: []string{"Trade Ministry", "Maria Santos"},
		},
		{
			name:     "quoted terms",
			query:    `Tell me about "export tariff law" and "fuel subsidy"`,
			expected: []string{"export tariff law", "fuel subsidy"},
		},
		{
			name:     "acronyms",
			query:    "How did the IMF respond to the NATO statement?",
			expected: []string{"IMF", "NATO"},
		},
		{
			name:     "article references",
			query:    "What does Article 5 require of signatories?",
			expected: []string{"Article 5"},
		},
		{
			name:     "section references",
			query:    "What does section 3.2 require?",
			expected: []string{"Section 3.2"},
		},
		{
			name:     "significant words in simple query",
			query:    "what is the meaning of this?",
			expected: []string{"meaning"}, // significant lowercase words extracted
		},
		{
			name:     "mixed content",
			query:    "Compare the Geneva Trade Summit outcome with UNSC Resolution 2231",
			expected: []string{"Geneva Trade Summit", "UNSC", "Resolution 2231"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := extractQueryEntities(tt.query)

			for _, exp := range tt.expected {
				found := false
				for _, e := range entities {
					if strings.Contains(e, exp) || strings.Contains(exp, e) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected to find entity matching %q in %v", exp, entities)
				}
			}
		})
	}
}

func TestExtractQueryEntitiesSingleQuotes(t *testing.T) {
	entities := extractQueryEntities("What is the 'water-sharing treaty' about?")
	found := false
	for _, e := range entities {
		if strings.Contains(e, "water-sharing treaty") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected to find 'water-sharing treaty' in entities: %v", entities)
	}
}

func TestIsSynthesisQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"list_all", "List all sanctions imposed since 2020", true},
		{"every", "Name every signatory of the treaty", true},
		{"complete_list", "Give me the complete list of amendments", true},
		{"point_lookup", "Who leads the trade ministry?", false},
		{"short_question", "When was the treaty signed?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSynthesisQuery(tt.query); got != tt.want {
				t.Errorf("isSynthesisQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	stops := []string{"the", "a", "an", "and", "or", "is", "are", "in", "on"}
	for _, w := range stops {
		if !isStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}

	nonStops := []string{"sanctions", "ministry", "treaty", "IMF", "tariff"}
	for _, w := range nonStops {
		if isStopWord(w) {
			t.Errorf("expected %q not to be a stop word", w)
		}
	}
}
