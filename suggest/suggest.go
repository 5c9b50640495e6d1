// Package suggest computes advisory default values for empty draft fields.
// The engine reads a draft and a contractor profile and never writes to
// either; applying a suggestion is a separate, explicit draft transition.
package suggest

import (
	"sort"
	"time"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/pkg/money"
)

// StandardTerms is offered when a draft has no payment terms.
const StandardTerms = "50% deposit due at signing. Remaining balance due upon completion of work. " +
	"Payments are accepted by check, bank transfer, or card."

const (
	DepositPercent    = 50
	StartDateLeadDays = 7
)

// Suggestion is one proposed value. A Confidence of 100 with an empty Value
// is a flag: the field must be entered explicitly.
type Suggestion struct {
	Path       fieldpath.Path `json:"path"`
	Value      string         `json:"value"`
	Reason     string         `json:"reason"`
	Confidence int            `json:"confidence"`
}

// IsFlag reports whether the suggestion asks for input instead of offering a value.
func (s Suggestion) IsFlag() bool {
	return s.Value == "" && s.Confidence == 100
}

// Engine evaluates the suggestion rules. Each rule looks at its own field
// only, so rule order never changes the result.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock fixes "today" for date rules.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

type profileField struct {
	path  fieldpath.Path
	value func(model.ContractorProfile) string
}

var profileFields = []profileField{
	{model.PathContractorCompany, func(p model.ContractorProfile) string { return p.CompanyName }},
	{model.PathContractorLicense, func(p model.ContractorProfile) string { return p.License }},
	{model.PathContractorPhone, func(p model.ContractorProfile) string { return p.Phone }},
	{model.PathContractorEmail, func(p model.ContractorProfile) string { return p.Email }},
	{model.PathContractorAddress, func(p model.ContractorProfile) string { return p.Address }},
	{model.PathSignerName, func(p model.ContractorProfile) string { return p.OwnerName }},
}

// contactPaths are the client fields the parties communicate through.
var contactPaths = []fieldpath.Path{model.PathClientPhone, model.PathClientEmail}

// CanSuggest reports whether the engine can compute a value for p.
func CanSuggest(p fieldpath.Path) bool {
	switch {
	case p.Equal(model.PathPaymentDeposit), p.Equal(model.PathPaymentTerms), p.Equal(model.PathStartDate):
		return true
	}
	for _, f := range profileFields {
		if f.path.Equal(p) {
			return true
		}
	}
	return false
}

func depositFor(total string) (money.Cents, bool) {
	cents, err := money.Parse(total)
	if err != nil || cents <= 0 {
		return 0, false
	}
	deposit, err := cents.Percent(DepositPercent)
	return deposit, err == nil
}

// Suggest returns suggestions sorted by path.
func (e *Engine) Suggest(d model.ContractDraft, profile model.ContractorProfile) []Suggestion {
	values := d.Values
	var out []Suggestion

	if total := values.Lookup(model.PathPaymentTotal); total != "" && values.Lookup(model.PathPaymentDeposit) == "" {
		if deposit, ok := depositFor(total); ok {
			out = append(out, Suggestion{
				Path:       model.PathPaymentDeposit,
				Value:      deposit.String(),
				Reason:     "standard 50% deposit",
				Confidence: 95,
			})
		}
	}

	if values.Lookup(model.PathPaymentTerms) == "" {
		out = append(out, Suggestion{
			Path:       model.PathPaymentTerms,
			Value:      StandardTerms,
			Reason:     "standard payment terms",
			Confidence: 90,
		})
	}

	for _, p := range contactPaths {
		if values.Lookup(p) == "" {
			out = append(out, Suggestion{
				Path:       p,
				Reason:     "client contact is required for communication; enter it explicitly",
				Confidence: 100,
			})
		}
	}

	if values.Lookup(model.PathStartDate) == "" {
		start := e.now().AddDate(0, 0, StartDateLeadDays)
		out = append(out, Suggestion{
			Path:       model.PathStartDate,
			Value:      start.Format(time.DateOnly),
			Reason:     "one week lead time",
			Confidence: 80,
		})
	}

	for _, f := range profileFields {
		v := f.value(profile)
		if v == "" || values.Lookup(f.path) != "" {
			continue
		}
		out = append(out, Suggestion{
			Path:       f.path,
			Value:      v,
			Reason:     "from company profile",
			Confidence: 85,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path.String() < out[j].Path.String()
	})
	return out
}

// Find returns the suggestion for p, if any.
func Find(list []Suggestion, p fieldpath.Path) (Suggestion, bool) {
	for _, s := range list {
		if s.Path.Equal(p) {
			return s, true
		}
	}
	return Suggestion{}, false
}
