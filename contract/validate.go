package contract

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ontograph-ai/ontograph/ontology"
)

// ValidateInput checks a JSON payload against the contract's input schema.
// Violations are collected into the report; a nil error with a failing
// report means the payload parsed but did not conform.
func (c *Contract) ValidateInput(payload []byte) (ontology.Report, error) {
	return c.validatePayload(c.input, "input", payload)
}

// ValidateOutput checks a JSON payload against the contract's output schema.
func (c *Contract) ValidateOutput(payload []byte) (ontology.Report, error) {
	return c.validatePayload(c.output, "output", payload)
}

func (c *Contract) validatePayload(schema *jsonschema.Schema, side string, payload []byte) (ontology.Report, error) {
	var r ontology.Report

	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return r, fmt.Errorf("contract %s: parsing %s payload: %w", c.Name, side, err)
	}

	if err := schema.Validate(value); err != nil {
		r.Issues = append(r.Issues, ontology.Issue{
			Severity: ontology.SeverityError,
			Code:     "schema-violation",
			Message:  fmt.Sprintf("contract %s %s: %v", c.Name, side, err),
		})
	}
	return r, nil
}

// ValidateAgainstOntology cross-checks the contract's declared MCL types
// against the ontology tables. A contract that claims to produce a type
// the Master Concept Library does not know is broken by construction.
func (c *Contract) ValidateAgainstOntology() ontology.Report {
	var r ontology.Report

	for _, et := range c.Produces.EntityTypes {
		if _, err := ontology.MapEntityType(et); err != nil {
			r.Issues = append(r.Issues, ontology.Issue{
				Severity: ontology.SeverityError,
				Code:     "unknown-entity-type",
				Message:  fmt.Sprintf("contract %s declares entity type %q which is not in the Master Concept Library", c.Name, et),
			})
		}
	}
	for _, rt := range c.Produces.RelationTypes {
		if _, err := ontology.MapRelationType(rt); err != nil {
			r.Issues = append(r.Issues, ontology.Issue{
				Severity: ontology.SeverityError,
				Code:     "unknown-relation-type",
				Message:  fmt.Sprintf("contract %s declares relationship type %q which is not in the Master Concept Library", c.Name, rt),
			})
		}
	}
	return r
}
