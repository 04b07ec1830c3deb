package ontology

import (
	"encoding/json"
	"fmt"
	"io"
)

// Taxonomy is the JSON-exportable form of the full ontology: the category
// tree, concept and relation records, and the MCL mapping tables.
type Taxonomy struct {
	Categories  map[Category]Category `json:"categories"` // child -> parent
	Concepts    map[string]Concept    `json:"concepts"`
	Relations   map[string]Relation   `json:"relations"`
	EntityMap   map[string]string     `json:"entity_map"`
	RelationMap map[string]string     `json:"relation_map"`
}

// Snapshot returns a copy of the active tables. Mutating the snapshot does
// not affect the package tables.
func Snapshot() *Taxonomy {
	t := &Taxonomy{
		Categories:  make(map[Category]Category, len(categoryParent)),
		Concepts:    make(map[string]Concept, len(concepts)),
		Relations:   make(map[string]Relation, len(relations)),
		EntityMap:   make(map[string]string, len(EntityConceptMap)),
		RelationMap: make(map[string]string, len(RelationMap)),
	}
	for c, p := range categoryParent {
		t.Categories[c] = p
	}
	for n, c := range concepts {
		t.Concepts[n] = c
	}
	for n, r := range relations {
		t.Relations[n] = r
	}
	for k, v := range EntityConceptMap {
		t.EntityMap[k] = v
	}
	for k, v := range RelationMap {
		t.RelationMap[k] = v
	}
	return t
}

// Export writes the taxonomy as indented JSON.
func Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot()); err != nil {
		return fmt.Errorf("encoding taxonomy: %w", err)
	}
	return nil
}

// Load reads a previously exported taxonomy and verifies its referential
// integrity. The loaded taxonomy is standalone; the package tables are
// never replaced at runtime.
func Load(r io.Reader) (*Taxonomy, error) {
	var t Taxonomy
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding taxonomy: %w", err)
	}
	if problems := t.check(); len(problems) > 0 {
		return nil, fmt.Errorf("taxonomy failed integrity check: %s (and %d more)",
			problems[0], len(problems)-1)
	}
	return &t, nil
}

// check mirrors SelfCheck for a loaded taxonomy.
func (t *Taxonomy) check() []string {
	var problems []string
	for et, cn := range t.EntityMap {
		if _, ok := t.Concepts[cn]; !ok {
			problems = append(problems,
				fmt.Sprintf("entity type %q maps to missing concept %q", et, cn))
		}
	}
	for rt, rn := range t.RelationMap {
		if _, ok := t.Relations[rn]; !ok {
			problems = append(problems,
				fmt.Sprintf("relationship type %q maps to missing relation %q", rt, rn))
		}
	}
	for n, c := range t.Concepts {
		if c.Category != CatParticular {
			if _, ok := t.Categories[c.Category]; !ok {
				problems = append(problems,
					fmt.Sprintf("concept %q references unknown category %q", n, c.Category))
			}
		}
	}
	return problems
}
