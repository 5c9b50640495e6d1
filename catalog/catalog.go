// Package catalog holds the contract template catalog and the deterministic
// template selector. A Catalog is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/g3lasio/owlfenc/model"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinTemplates []byte

type catalogFile struct {
	Templates []model.ContractTemplate `yaml:"templates"`
}

// Catalog is an ordered, read-only set of templates.
type Catalog struct {
	templates []model.ContractTemplate
	byID      map[string]int
}

// Builtin loads the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtinTemplates)
}

// LoadFile loads a catalog from a YAML file, falling back to the built-in
// catalog when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML catalog. Jurisdictions and project types are
// normalized so the selector compares canonical keys only.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("catalog has no templates")
	}

	c := &Catalog{byID: make(map[string]int, len(f.Templates))}
	for i, t := range f.Templates {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("template #%d has no id", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		complexity, ok := model.ParseComplexity(string(t.LegalComplexity))
		if !ok {
			return nil, fmt.Errorf("template %q: %w: %q", t.ID, model.ErrInvalidComplexity, t.LegalComplexity)
		}
		if len(t.ProjectTypes) == 0 {
			return nil, fmt.Errorf("template %q has no project types", t.ID)
		}
		if len(t.Jurisdictions) == 0 {
			return nil, fmt.Errorf("template %q has no jurisdictions", t.ID)
		}
		if len(t.Clauses) == 0 {
			return nil, fmt.Errorf("template %q has no clauses", t.ID)
		}
		for _, cl := range t.Clauses {
			if !cl.Valid() {
				return nil, fmt.Errorf("template %q: unknown clause %q", t.ID, cl)
			}
		}

		t.LegalComplexity = complexity
		t.ProjectTypes = mapStrings(t.ProjectTypes, NormalizeProjectType)
		t.Jurisdictions = mapStrings(t.Jurisdictions, NormalizeJurisdiction)
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// Templates returns a copy of every template in declaration order.
func (c *Catalog) Templates() []model.ContractTemplate {
	out := make([]model.ContractTemplate, len(c.templates))
	for i := range c.templates {
		out[i] = cloneTemplate(c.templates[i])
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (model.ContractTemplate, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.ContractTemplate{}, false
	}
	return cloneTemplate(c.templates[i]), true
}

func (c *Catalog) Len() int { return len(c.templates) }

// HasDefault reports whether any template declares the any-jurisdiction key.
func (c *Catalog) HasDefault() bool {
	for _, t := range c.templates {
		if containsString(t.Jurisdictions, model.AnyJurisdiction) {
			return true
		}
	}
	return false
}

func cloneTemplate(t model.ContractTemplate) model.ContractTemplate {
	t.ProjectTypes = append([]string(nil), t.ProjectTypes...)
	t.Jurisdictions = append([]string(nil), t.Jurisdictions...)
	t.Clauses = append([]model.Clause(nil), t.Clauses...)
	return t
}

func mapStrings(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
