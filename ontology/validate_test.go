package ontology

import (
	"errors"
	"testing"
)

func TestSelfCheck(t *testing.T) {
	if problems := SelfCheck(); len(problems) != 0 {
		t.Fatalf("ontology tables inconsistent:\n%v", problems)
	}
}

func TestMapEntityType(t *testing.T) {
	tests := []struct {
		entityType string
		wantCat    Category
	}{
		{"IndividualActor", CatAgentivePhysicalObject},
		{"Organization", CatSocialAgent},
		{"Nation", CatSociety},
		{"Location", CatPlace},
		{"Event", CatEvent},
		{"Policy", CatDescription},
		{"Document", CatInformationObject},
		{"TimePoint", CatTimeInterval},
		{"Sentiment", CatAbstractQuality},
	}
	for _, tt := range tests {
		c, err := MapEntityType(tt.entityType)
		if err != nil {
			t.Errorf("MapEntityType(%q): %v", tt.entityType, err)
			continue
		}
		if c.Category != tt.wantCat {
			t.Errorf("MapEntityType(%q).Category = %s, want %s", tt.entityType, c.Category, tt.wantCat)
		}
	}

	_, err := MapEntityType("Widget")
	if !errors.Is(err, ErrUnknownEntityType) {
		t.Errorf("unknown type error = %v, want ErrUnknownEntityType", err)
	}
}

func TestMapRelationType(t *testing.T) {
	r, err := MapRelationType("leads")
	if err != nil {
		t.Fatalf("MapRelationType(leads): %v", err)
	}
	if r.Name != "specifically-depends-on" {
		t.Errorf("leads maps to %q, want specifically-depends-on", r.Name)
	}

	_, err = MapRelationType("teleportsTo")
	if !errors.Is(err, ErrUnknownRelationType) {
		t.Errorf("unknown relation error = %v, want ErrUnknownRelationType", err)
	}
}

func TestValidateEntity(t *testing.T) {
	r := ValidateEntity(EntityInput{
		Name: "united nations", Type: "Organization",
		Properties: map[string]string{"name": "united nations"},
	})
	if !r.Valid() {
		t.Errorf("valid entity rejected: %v", r.Strings())
	}

	r = ValidateEntity(EntityInput{Name: "gizmo", Type: "Widget"})
	if r.Valid() {
		t.Error("unknown entity type accepted")
	}
	if len(r.Issues) != 1 || r.Issues[0].Code != "unknown-entity-type" {
		t.Errorf("issues = %v, want one unknown-entity-type", r.Strings())
	}
}

func TestValidateEntityConstraintWarnings(t *testing.T) {
	// Organization maps to social-agent which expects a "name" property.
	r := ValidateEntity(EntityInput{Name: "acme", Type: "Organization"})
	if !r.Valid() {
		t.Errorf("missing property should warn, not fail: %v", r.Strings())
	}
	found := false
	for _, i := range r.Issues {
		if i.Code == "missing-property" && i.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-property warning, got %v", r.Strings())
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name  string
		rel   RelationshipInput
		valid bool
		code  string
	}{
		{
			name:  "actor participates in event",
			rel:   RelationshipInput{Type: "participatesIn", SourceType: "Organization", TargetType: "Election"},
			valid: true,
		},
		{
			name:  "event cannot participate in actor",
			rel:   RelationshipInput{Type: "participatesIn", SourceType: "Election", TargetType: "Organization"},
			valid: false,
			code:  "domain-violation",
		},
		{
			name:  "event located in place",
			rel:   RelationshipInput{Type: "occurredIn", SourceType: "Protest", TargetType: "City"},
			valid: true,
		},
		{
			name:  "located-in needs a place target",
			rel:   RelationshipInput{Type: "locatedIn", SourceType: "Company", TargetType: "Event"},
			valid: false,
			code:  "range-violation",
		},
		{
			name:  "precedes requires perdurants",
			rel:   RelationshipInput{Type: "precedes", SourceType: "IndividualActor", TargetType: "Election"},
			valid: false,
			code:  "domain-violation",
		},
		{
			name:  "membership in collective",
			rel:   RelationshipInput{Type: "memberOf", SourceType: "IndividualActor", TargetType: "SocialMovement"},
			valid: true,
		},
		{
			name:  "quality attribution",
			rel:   RelationshipInput{Type: "hasAttribute", SourceType: "Country", TargetType: "Status"},
			valid: true,
		},
		{
			name:  "unknown relation type",
			rel:   RelationshipInput{Type: "teleportsTo", SourceType: "IndividualActor", TargetType: "City"},
			valid: false,
			code:  "unknown-relation-type",
		},
		{
			name:  "unknown source type",
			rel:   RelationshipInput{Type: "leads", SourceType: "Widget", TargetType: "Organization"},
			valid: false,
			code:  "unknown-entity-type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateRelationship(tt.rel)
			if r.Valid() != tt.valid {
				t.Fatalf("Valid() = %v, want %v (issues: %v)", r.Valid(), tt.valid, r.Strings())
			}
			if tt.code != "" {
				found := false
				for _, i := range r.Issues {
					if i.Code == tt.code {
						found = true
					}
				}
				if !found {
					t.Errorf("expected issue code %q, got %v", tt.code, r.Strings())
				}
			}
		})
	}
}

func TestValidateExtraction(t *testing.T) {
	in := ExtractionInput{
		Entities: []EntityInput{
			{Name: "angela merkel", Type: "IndividualActor", Properties: map[string]string{"name": "angela merkel"}},
			{Name: "cdu", Type: "PoliticalParty", Properties: map[string]string{"name": "cdu"}},
			{Name: "flux capacitor", Type: "Widget"},
		},
		Relationships: []RelationshipInput{
			{Type: "leads", SourceType: "IndividualActor", TargetType: "PoliticalParty"},
			{Type: "participatesIn", SourceType: "Election", TargetType: "PoliticalParty"},
		},
	}

	r := ValidateExtraction(in)
	if r.Valid() {
		t.Fatal("extraction with bad entries accepted")
	}

	// One unknown entity type plus one domain violation.
	var errs int
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("error count = %d, want 2 (issues: %v)", errs, r.Strings())
	}
}

func TestCheckConstraints(t *testing.T) {
	c, _ := LookupConcept(string(CatQuality))
	r := CheckConstraints(c, map[string]string{"name": "stability", "bearer": "germany"})
	if len(r.Issues) != 0 {
		t.Errorf("fully-specified instance produced issues: %v", r.Strings())
	}

	r = CheckConstraints(c, map[string]string{"name": "stability"})
	if len(r.Issues) != 1 {
		t.Errorf("missing bearer produced %d issues, want 1", len(r.Issues))
	}
}
