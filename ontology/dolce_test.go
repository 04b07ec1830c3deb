package ontology

import "testing"

func TestCategorySubsumption(t *testing.T) {
	tests := []struct {
		name     string
		child    Category
		ancestor Category
		want     bool
	}{
		{"reflexive", CatEvent, CatEvent, true},
		{"direct parent", CatEvent, CatPerdurant, true},
		{"to root", CatSocialAgent, CatParticular, true},
		{"deep chain", CatSocialAgent, CatEndurant, true},
		{"society under social object", CatSociety, CatSocialObject, true},
		{"sibling", CatEvent, CatStative, false},
		{"inverted", CatPerdurant, CatEvent, false},
		{"cross branch", CatPlace, CatPerdurant, false},
		{"unknown child", Category("bogus"), CatParticular, false},
		{"unknown ancestor", CatEvent, Category("bogus"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.child.Is(tt.ancestor); got != tt.want {
				t.Errorf("%s.Is(%s) = %v, want %v", tt.child, tt.ancestor, got, tt.want)
			}
		})
	}
}

func TestCategoryDepth(t *testing.T) {
	if d := CatParticular.Depth(); d != 0 {
		t.Errorf("root depth = %d, want 0", d)
	}
	if d := CatEndurant.Depth(); d != 1 {
		t.Errorf("endurant depth = %d, want 1", d)
	}
	if d := CatSocialAgent.Depth(); d != 6 {
		t.Errorf("social-agent depth = %d, want 6", d)
	}
	if d := Category("bogus").Depth(); d != -1 {
		t.Errorf("unknown depth = %d, want -1", d)
	}
}

func TestCategoryTreeIsRooted(t *testing.T) {
	// Every category must reach the root with no cycles.
	for _, c := range Categories() {
		seen := map[Category]bool{}
		cur := c
		for {
			if seen[cur] {
				t.Fatalf("cycle in category tree at %s (started from %s)", cur, c)
			}
			seen[cur] = true
			p, ok := cur.Parent()
			if !ok {
				if cur != CatParticular {
					t.Errorf("category %s does not reach the root", c)
				}
				break
			}
			cur = p
		}
	}
}

func TestLookupConcept(t *testing.T) {
	c, ok := LookupConcept(string(CatSocialAgent))
	if !ok {
		t.Fatal("social-agent concept missing")
	}
	if c.Category != CatSocialAgent {
		t.Errorf("category = %s, want %s", c.Category, CatSocialAgent)
	}
	if c.Definition == "" {
		t.Error("concept has no definition")
	}
	if len(c.Parents) != 1 || c.Parents[0] != string(CatAgentiveSocialObject) {
		t.Errorf("parents = %v, want [agentive-social-object]", c.Parents)
	}

	if _, ok := LookupConcept("no-such-concept"); ok {
		t.Error("lookup of unknown concept succeeded")
	}
}

func TestLookupRelation(t *testing.T) {
	r, ok := LookupRelation("participant-in")
	if !ok {
		t.Fatal("participant-in relation missing")
	}
	if r.Domain != CatEndurant || r.Range != CatPerdurant {
		t.Errorf("domain/range = %s/%s, want endurant/perdurant", r.Domain, r.Range)
	}
	if r.Kind != KindParticipation {
		t.Errorf("kind = %s, want %s", r.Kind, KindParticipation)
	}
}

func TestRelationsAreWellFormed(t *testing.T) {
	for _, name := range RelationNames() {
		r, _ := LookupRelation(name)
		if r.Definition == "" {
			t.Errorf("relation %s has no definition", name)
		}
		if !r.Domain.Valid() || !r.Range.Valid() {
			t.Errorf("relation %s has invalid domain/range %s/%s", name, r.Domain, r.Range)
		}
	}
}
