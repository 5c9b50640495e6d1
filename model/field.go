package model

import "github.com/g3lasio/owlfenc/pkg/fieldpath"

// FieldType is the input kind of a SmartField.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldMultiline FieldType = "multiline"
	FieldChoice    FieldType = "choice"
	FieldDate      FieldType = "date"
	FieldAddress   FieldType = "address"
	FieldNumber    FieldType = "number"
)

// Importance governs whether a populated field may be skipped silently.
type Importance string

const (
	ImportanceInformational Importance = "informational"
	ImportanceImportant     Importance = "important"
	ImportanceCritical      Importance = "critical"
)

// Step groups fields into wizard pages, in signing order.
type Step string

const (
	StepBasic      Step = "basic-info"
	StepProject    Step = "project-info"
	StepFinancial  Step = "financial-terms"
	StepLegal      Step = "legal-protections"
	StepCompletion Step = "completion"
)

var stepTitles = map[Step]string{
	StepBasic:      "Basic Information",
	StepProject:    "Project Details",
	StepFinancial:  "Financial Terms",
	StepLegal:      "Legal Protections",
	StepCompletion: "Review & Completion",
}

func (s Step) Title() string { return stepTitles[s] }

// StepOrder is the fixed order of steps in a plan.
var StepOrder = []Step{StepBasic, StepProject, StepFinancial, StepLegal, StepCompletion}

// SmartField is one planned input slot.
type SmartField struct {
	ID         string         `json:"id"`
	Path       fieldpath.Path `json:"path"`
	Prompt     string         `json:"prompt"`
	Type       FieldType      `json:"type"`
	Required   bool           `json:"required"`
	Importance Importance     `json:"legal_importance"`
	AutoFill   bool           `json:"auto_fill"`
	Pattern    string         `json:"pattern,omitempty"`
	Options    []string       `json:"options,omitempty"`
	Step       Step           `json:"step"`
}

// MustHaveValue reports whether an empty value blocks the contract.
// Critical fields are required regardless of their flag.
func (f SmartField) MustHaveValue() bool {
	return f.Required || f.Importance == ImportanceCritical
}
