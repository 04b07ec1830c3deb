// Package contract loads and validates YAML tool contracts. A contract
// declares a tool's identity, the JSON Schemas its input and output must
// satisfy, and the Master Concept Library types it produces. Schemas are
// compiled at load time so malformed contracts fail fast.
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidContract is returned when a contract file is malformed.
	ErrInvalidContract = errors.New("contract: invalid contract")

	// ErrSchemaCompile is returned when an embedded JSON Schema does not compile.
	ErrSchemaCompile = errors.New("contract: schema compilation failed")
)

// Produces declares the MCL types a tool emits.
type Produces struct {
	EntityTypes   []string `yaml:"entity_types" json:"entity_types,omitempty"`
	RelationTypes []string `yaml:"relation_types" json:"relation_types,omitempty"`
}

// Contract describes a tool's I/O obligations.
type Contract struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Produces    Produces `yaml:"produces" json:"produces"`

	// InputSchema and OutputSchema are raw JSON Schema documents.
	InputSchema  map[string]any `yaml:"input_schema" json:"input_schema"`
	OutputSchema map[string]any `yaml:"output_schema" json:"output_schema"`

	input  *jsonschema.Schema
	output *jsonschema.Schema
}

// Parse reads a single YAML contract and compiles its schemas.
func Parse(r io.Reader) (*Contract, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading contract: %w", err)
	}

	var c Contract
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContract, err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidContract)
	}
	if c.InputSchema == nil || c.OutputSchema == nil {
		return nil, fmt.Errorf("%w: %s: both input_schema and output_schema are required", ErrInvalidContract, c.Name)
	}

	c.input, err = compileSchema(c.Name+"/input.json", c.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s input: %v", ErrSchemaCompile, c.Name, err)
	}
	c.output, err = compileSchema(c.Name+"/output.json", c.OutputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s output: %v", ErrSchemaCompile, c.Name, err)
	}

	return &c, nil
}

// ParseFile reads a contract from a YAML file.
func ParseFile(path string) (*Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contract %s: %w", path, err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// compileSchema turns a YAML-decoded schema document into a compiled JSON
// Schema. The document round-trips through JSON so numeric and key types
// match what the validator expects.
func compileSchema(url string, doc map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("registering schema: %w", err)
	}
	return compiler.Compile(url)
}
