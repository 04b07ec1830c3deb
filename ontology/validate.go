package ontology

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntityType is returned when an entity type is not in the MCL.
	ErrUnknownEntityType = errors.New("ontology: unknown entity type")

	// ErrUnknownRelationType is returned when a relationship type is not in the MCL.
	ErrUnknownRelationType = errors.New("ontology: unknown relationship type")
)

// Severity grades a validation issue.
type Severity string

// Issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
}

// Report collects validation issues. The zero value is a passing report.
type Report struct {
	Issues []Issue `json:"issues,omitempty"`
}

// Valid reports whether the report contains no error-severity issues.
// Warnings do not fail a report.
func (r *Report) Valid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Strings renders all issues as human-readable lines.
func (r *Report) Strings() []string {
	out := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = issue.String()
	}
	return out
}

// Merge appends all issues from other.
func (r *Report) Merge(other Report) {
	r.Issues = append(r.Issues, other.Issues...)
}

func (r *Report) errorf(code, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) warnf(code, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// MapEntityType resolves an MCL entity type to its DOLCE concept.
func MapEntityType(entityType string) (Concept, error) {
	conceptName, ok := EntityConceptMap[entityType]
	if !ok {
		return Concept{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	c, ok := LookupConcept(conceptName)
	if !ok {
		// The mapping tables are self-checked at init in tests; hitting
		// this at runtime means the tables were edited inconsistently.
		return Concept{}, fmt.Errorf("ontology: entity type %q maps to missing concept %q", entityType, conceptName)
	}
	return c, nil
}

// MapRelationType resolves an MCL relationship type to its DOLCE relation.
func MapRelationType(relationType string) (Relation, error) {
	relName, ok := RelationMap[relationType]
	if !ok {
		return Relation{}, fmt.Errorf("%w: %q", ErrUnknownRelationType, relationType)
	}
	rel, ok := LookupRelation(relName)
	if !ok {
		return Relation{}, fmt.Errorf("ontology: relationship type %q maps to missing relation %q", relationType, relName)
	}
	return rel, nil
}

// EntityCategory returns the DOLCE category for an MCL entity type.
func EntityCategory(entityType string) (Category, error) {
	c, err := MapEntityType(entityType)
	if err != nil {
		return "", err
	}
	return c.Category, nil
}

// EntityInput is an extracted entity presented for validation.
type EntityInput struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// RelationshipInput is an extracted relationship presented for validation.
// Source and target are identified by their MCL entity types.
type RelationshipInput struct {
	Type       string `json:"type"`
	SourceName string `json:"source_name,omitempty"`
	SourceType string `json:"source_type"`
	TargetName string `json:"target_name,omitempty"`
	TargetType string `json:"target_type"`
}

// ExtractionInput is a whole extraction result presented for validation.
type ExtractionInput struct {
	Entities      []EntityInput       `json:"entities"`
	Relationships []RelationshipInput `json:"relationships"`
}

// ValidateEntity checks an entity's type against the MCL and its
// properties against the mapped concept's expectations.
func ValidateEntity(e EntityInput) Report {
	var r Report
	c, err := MapEntityType(e.Type)
	if err != nil {
		r.errorf("unknown-entity-type",
			"entity %q has type %q which is not in the Master Concept Library", e.Name, e.Type)
		return r
	}
	r.Merge(CheckConstraints(c, e.Properties))
	return r
}

// ValidateRelationship checks a relationship's type against the MCL and
// its endpoint entity types against the mapped relation's domain and
// range categories.
func ValidateRelationship(rel RelationshipInput) Report {
	var r Report

	dr, err := MapRelationType(rel.Type)
	if err != nil {
		r.errorf("unknown-relation-type",
			"relationship type %q is not in the Master Concept Library", rel.Type)
		return r
	}

	srcCat, err := EntityCategory(rel.SourceType)
	if err != nil {
		r.errorf("unknown-entity-type",
			"relationship %q has unmapped source type %q", rel.Type, rel.SourceType)
	} else if !srcCat.Is(dr.Domain) {
		r.errorf("domain-violation",
			"relationship %q maps to %q whose domain is %q, but source type %q is %q",
			rel.Type, dr.Name, dr.Domain, rel.SourceType, srcCat)
	}

	tgtCat, err := EntityCategory(rel.TargetType)
	if err != nil {
		r.errorf("unknown-entity-type",
			"relationship %q has unmapped target type %q", rel.Type, rel.TargetType)
	} else if !tgtCat.Is(dr.Range) {
		r.errorf("range-violation",
			"relationship %q maps to %q whose range is %q, but target type %q is %q",
			rel.Type, dr.Name, dr.Range, rel.TargetType, tgtCat)
	}

	return r
}

// CheckConstraints verifies that the expected property keys of a concept
// are present in an instance's property map. Missing keys are warnings:
// extraction rarely fills every slot, but the gap is worth surfacing.
func CheckConstraints(c Concept, props map[string]string) Report {
	var r Report
	for _, key := range c.Properties {
		if _, ok := props[key]; !ok {
			r.warnf("missing-property",
				"concept %q expects property %q which is absent", c.Name, key)
		}
	}
	return r
}

// ValidateExtraction validates a whole extraction result, prefixing each
// finding with the item index so callers can trace issues back.
func ValidateExtraction(in ExtractionInput) Report {
	var r Report
	for i, e := range in.Entities {
		er := ValidateEntity(e)
		for _, issue := range er.Issues {
			issue.Message = fmt.Sprintf("entity[%d]: %s", i, issue.Message)
			r.Issues = append(r.Issues, issue)
		}
	}
	for i, rel := range in.Relationships {
		rr := ValidateRelationship(rel)
		for _, issue := range rr.Issues {
			issue.Message = fmt.Sprintf("relationship[%d]: %s", i, issue.Message)
			r.Issues = append(r.Issues, issue)
		}
	}
	return r
}

// SelfCheck verifies the internal consistency of the static tables: every
// MCL mapping must target an existing record, every relation's domain and
// range must be valid categories, and every gloss must describe a known
// type. It returns one message per inconsistency.
func SelfCheck() []string {
	var problems []string

	for t, conceptName := range EntityConceptMap {
		if _, ok := LookupConcept(conceptName); !ok {
			problems = append(problems,
				fmt.Sprintf("entity type %q maps to missing concept %q", t, conceptName))
		}
	}
	for t, relName := range RelationMap {
		if _, ok := LookupRelation(relName); !ok {
			problems = append(problems,
				fmt.Sprintf("relationship type %q maps to missing relation %q", t, relName))
		}
	}
	for name, c := range concepts {
		if !c.Category.Valid() {
			problems = append(problems,
				fmt.Sprintf("concept %q has invalid category %q", name, c.Category))
		}
	}
	for name, rel := range relations {
		if !rel.Domain.Valid() {
			problems = append(problems,
				fmt.Sprintf("relation %q has invalid domain %q", name, rel.Domain))
		}
		if !rel.Range.Valid() {
			problems = append(problems,
				fmt.Sprintf("relation %q has invalid range %q", name, rel.Range))
		}
	}
	for t := range entityGlosses {
		if _, ok := EntityConceptMap[t]; !ok {
			problems = append(problems,
				fmt.Sprintf("gloss for unknown entity type %q", t))
		}
	}
	for t := range relationGlosses {
		if _, ok := RelationMap[t]; !ok {
			problems = append(problems,
				fmt.Sprintf("gloss for unknown relationship type %q", t))
		}
	}
	return problems
}
