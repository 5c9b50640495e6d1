// Package planner expands a contract template into the ordered list of
// fields a contractor fills in, merging values that are already known.
package planner

import (
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/suggest"
)

// PlannedField is a SmartField with its current value and input state.
type PlannedField struct {
	model.SmartField
	Value string `json:"value"`
	// NeedsInput is set while the field has no value.
	NeedsInput bool `json:"needs_input"`
	// NeedsConfirmation is set on critical fields that already carry a value.
	NeedsConfirmation bool `json:"needs_confirmation"`
}

type StepPlan struct {
	Step   model.Step     `json:"step"`
	Title  string         `json:"title"`
	Fields []PlannedField `json:"fields"`
}

// Plan is the full set of fields for a template, grouped by step in signing order.
type Plan struct {
	TemplateID string     `json:"template_id"`
	Steps      []StepPlan `json:"steps"`
}

// New plans tpl against the known values. The legal step only exists for
// advanced templates; steps without fields are left out.
func New(tpl model.ContractTemplate, known fieldpath.Tree) Plan {
	byStep := make(map[model.Step][]PlannedField)
	seen := make(map[string]bool)

	for _, clause := range tpl.Clauses {
		for _, def := range clauseFields[clause] {
			if def.step == model.StepLegal && tpl.LegalComplexity != model.ComplexityAdvanced {
				continue
			}
			key := def.path.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			byStep[def.step] = append(byStep[def.step], plan(def, known))
		}
	}

	p := Plan{TemplateID: tpl.ID}
	for _, step := range model.StepOrder {
		fields := byStep[step]
		if len(fields) == 0 {
			continue
		}
		p.Steps = append(p.Steps, StepPlan{Step: step, Title: step.Title(), Fields: fields})
	}
	return p
}

func plan(def fieldDef, known fieldpath.Tree) PlannedField {
	f := PlannedField{
		SmartField: model.SmartField{
			ID:         def.path.String(),
			Path:       def.path,
			Prompt:     def.prompt,
			Type:       def.typ,
			Required:   def.required,
			Importance: def.importance,
			AutoFill:   suggest.CanSuggest(def.path),
			Pattern:    def.pattern,
			Options:    append([]string(nil), def.options...),
			Step:       def.step,
		},
		Value: known.Lookup(def.path),
	}
	if f.Value == "" {
		f.NeedsInput = true
	} else if f.Importance == model.ImportanceCritical {
		f.NeedsConfirmation = true
	}
	return f
}

// Fields flattens the plan in step order.
func (p Plan) Fields() []PlannedField {
	var out []PlannedField
	for _, s := range p.Steps {
		out = append(out, s.Fields...)
	}
	return out
}

// Field finds the planned field at path.
func (p Plan) Field(path fieldpath.Path) (PlannedField, bool) {
	for _, s := range p.Steps {
		for _, f := range s.Fields {
			if f.Path.Equal(path) {
				return f, true
			}
		}
	}
	return PlannedField{}, false
}

// HasStep reports whether the plan contains step.
func (p Plan) HasStep(step model.Step) bool {
	return p.StepIndex(step) >= 0
}

// StepIndex returns the position of step, or -1.
func (p Plan) StepIndex(step model.Step) int {
	for i, s := range p.Steps {
		if s.Step == step {
			return i
		}
	}
	return -1
}

// NeedsInput lists the fields still waiting for a value.
func (p Plan) NeedsInput() []PlannedField {
	var out []PlannedField
	for _, f := range p.Fields() {
		if f.NeedsInput {
			out = append(out, f)
		}
	}
	return out
}

// Unresolved lists empty fields that block the contract.
func (p Plan) Unresolved() []PlannedField {
	var out []PlannedField
	for _, f := range p.Fields() {
		if f.Value == "" && f.MustHaveValue() {
			out = append(out, f)
		}
	}
	return out
}
