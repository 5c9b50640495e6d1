package model

import "strings"

// Complexity is the legal complexity tier of a template.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Rank orders tiers from basic (0) upward; unknown tiers rank -1.
func (c Complexity) Rank() int {
	switch c {
	case ComplexityBasic:
		return 0
	case ComplexityIntermediate:
		return 1
	case ComplexityAdvanced:
		return 2
	}
	return -1
}

func (c Complexity) Valid() bool { return c.Rank() >= 0 }

// ParseComplexity accepts tier names in any case.
func ParseComplexity(s string) (Complexity, bool) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// AnyJurisdiction marks a template usable when no jurisdiction-specific one exists.
const AnyJurisdiction = "*"

// GeneralProjectType matches every project type with the lowest specificity.
const GeneralProjectType = "general"

// ContractTemplate is a named set of clause requirements for a kind of project.
type ContractTemplate struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	LegalComplexity Complexity `json:"legal_complexity" yaml:"legal_complexity"`
	ProjectTypes    []string   `json:"project_types" yaml:"project_types"`
	Jurisdictions   []string   `json:"jurisdictions" yaml:"jurisdictions"`
	Clauses         []Clause   `json:"clauses" yaml:"clauses"`
}

// Clause names a requirement the planner expands into fields.
type Clause string

const (
	ClauseParties           Clause = "parties"
	ClauseClientContact     Clause = "client_contact"
	ClauseContractorLicense Clause = "contractor_license"
	ClauseScope             Clause = "scope_of_work"
	ClauseSite              Clause = "project_site"
	ClauseTimeline          Clause = "timeline"
	ClauseMaterials         Clause = "materials"
	ClausePermits           Clause = "permits"
	ClausePayment           Clause = "payment_schedule"
	ClauseLateFees          Clause = "late_fees"
	ClauseInsurance         Clause = "insurance"
	ClauseWarranty          Clause = "warranty"
	ClauseLienNotice        Clause = "lien_notice"
	ClauseDisputes          Clause = "dispute_resolution"
	ClauseChangeOrders      Clause = "change_orders"
	ClauseAcceptance        Clause = "acceptance"
)

// Clauses lists every clause the planner knows how to expand.
var Clauses = []Clause{
	ClauseParties, ClauseClientContact, ClauseContractorLicense, ClauseScope,
	ClauseSite, ClauseTimeline, ClauseMaterials, ClausePermits,
	ClausePayment, ClauseLateFees, ClauseInsurance, ClauseWarranty,
	ClauseLienNotice, ClauseDisputes, ClauseChangeOrders, ClauseAcceptance,
}

func (c Clause) Valid() bool {
	for _, known := range Clauses {
		if c == known {
			return true
		}
	}
	return false
}

// HasClause reports whether the template requires c.
func (t ContractTemplate) HasClause(c Clause) bool {
	for _, have := range t.Clauses {
		if have == c {
			return true
		}
	}
	return false
}
