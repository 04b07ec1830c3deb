package contract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const extractorContract = `
name: entity_extractor
version: "1.0"
category: extraction
description: Extracts MCL-typed entities from a text chunk.
produces:
  entity_types: [IndividualActor, Organization, Event]
  relation_types: [leads, participatesIn]
input_schema:
  type: object
  required: [text]
  properties:
    text:
      type: string
      minLength: 1
    hints:
      type: array
      items:
        type: string
output_schema:
  type: object
  required: [entities]
  properties:
    entities:
      type: array
      items:
        type: object
        required: [name, type]
        properties:
          name: {type: string}
          type: {type: string}
          description: {type: string}
`

func parseExtractor(t *testing.T) *Contract {
	t.Helper()
	c, err := Parse(strings.NewReader(extractorContract))
	if err != nil {
		t.Fatalf("parsing contract: %v", err)
	}
	return c
}

func TestParse(t *testing.T) {
	c := parseExtractor(t)
	if c.Name != "entity_extractor" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Category != "extraction" {
		t.Errorf("category = %q", c.Category)
	}
	if len(c.Produces.EntityTypes) != 3 {
		t.Errorf("entity types = %v", c.Produces.EntityTypes)
	}
}

func TestParseRejectsMissingSchemas(t *testing.T) {
	_, err := Parse(strings.NewReader("name: broken\nversion: \"1\"\n"))
	if !errors.Is(err, ErrInvalidContract) {
		t.Errorf("err = %v, want ErrInvalidContract", err)
	}
}

func TestParseRejectsBadSchema(t *testing.T) {
	bad := `
name: broken
version: "1"
input_schema:
  type: not-a-real-type
output_schema:
  type: object
`
	if _, err := Parse(strings.NewReader(bad)); !errors.Is(err, ErrSchemaCompile) {
		t.Errorf("err = %v, want ErrSchemaCompile", err)
	}
}

func TestValidateInput(t *testing.T) {
	c := parseExtractor(t)

	r, err := c.ValidateInput([]byte(`{"text": "the un security council met in geneva"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !r.Valid() {
		t.Errorf("conforming input rejected: %v", r.Strings())
	}

	r, err = c.ValidateInput([]byte(`{"hints": []}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if r.Valid() {
		t.Error("input missing required 'text' accepted")
	}

	if _, err := c.ValidateInput([]byte(`{broken`)); err == nil {
		t.Error("malformed JSON payload produced no error")
	}
}

func TestValidateOutput(t *testing.T) {
	c := parseExtractor(t)

	good := `{"entities": [{"name": "nato", "type": "Organization"}]}`
	r, err := c.ValidateOutput([]byte(good))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !r.Valid() {
		t.Errorf("conforming output rejected: %v", r.Strings())
	}

	bad := `{"entities": [{"name": "nato"}]}`
	r, err = c.ValidateOutput([]byte(bad))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if r.Valid() {
		t.Error("entity missing required 'type' accepted")
	}
}

func TestValidateAgainstOntology(t *testing.T) {
	c := parseExtractor(t)
	if r := c.ValidateAgainstOntology(); !r.Valid() {
		t.Errorf("contract with known MCL types rejected: %v", r.Strings())
	}

	c.Produces.EntityTypes = append(c.Produces.EntityTypes, "Widget")
	c.Produces.RelationTypes = append(c.Produces.RelationTypes, "teleportsTo")
	r := c.ValidateAgainstOntology()
	if r.Valid() {
		t.Fatal("contract with unknown MCL types accepted")
	}
	if len(r.Issues) != 2 {
		t.Errorf("issues = %d, want 2: %v", len(r.Issues), r.Strings())
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "extractor.yaml"), []byte(extractorContract), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-contract files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# contracts"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("loading dir: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("loaded %d contracts, want 1", reg.Len())
	}
	if _, ok := reg.Get("entity_extractor"); !ok {
		t.Error("entity_extractor not registered")
	}
}

func TestLoadDirRejectsUnknownMCLTypes(t *testing.T) {
	bogus := strings.Replace(extractorContract,
		"entity_types: [IndividualActor, Organization, Event]",
		"entity_types: [IndividualActor, Widget]", 1)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bogus.yaml"), []byte(bogus), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadDir(dir)
	if !errors.Is(err, ErrInvalidContract) {
		t.Fatalf("err = %v, want ErrInvalidContract", err)
	}
	if !strings.Contains(err.Error(), "Widget") {
		t.Errorf("error does not name the offending type: %v", err)
	}
}

func TestLoadDirAbortsOnBrokenContract(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("broken contract loaded without error")
	}
}
