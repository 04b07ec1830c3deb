package contract

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds loaded contracts keyed by name.
type Registry struct {
	contracts map[string]*Contract
}

// NewRegistry returns an empty contract registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]*Contract)}
}

// Add registers a contract, replacing any previous contract of the same name.
func (r *Registry) Add(c *Contract) {
	r.contracts[c.Name] = c
}

// Get returns the contract with the given name.
func (r *Registry) Get(name string) (*Contract, bool) {
	c, ok := r.contracts[name]
	return c, ok
}

// Names returns all registered contract names sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.contracts))
	for n := range r.contracts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered contracts.
func (r *Registry) Len() int { return len(r.contracts) }

// LoadDir walks a directory and loads every .yaml/.yml file as a contract.
// Each contract's declared MCL types are cross-checked against the
// ontology. A single malformed contract aborts the load; partial
// registries hide configuration mistakes.
func LoadDir(dir string) (*Registry, error) {
	reg := NewRegistry()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		c, err := ParseFile(path)
		if err != nil {
			return err
		}
		if report := c.ValidateAgainstOntology(); !report.Valid() {
			return fmt.Errorf("%w: %s: %s", ErrInvalidContract, path,
				strings.Join(report.Strings(), "; "))
		}
		reg.Add(c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading contracts from %s: %w", dir, err)
	}
	return reg, nil
}
