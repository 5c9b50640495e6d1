// Package validation checks a contract draft against its template. Validate
// is pure: it performs no I/O and can run on every edit.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/pkg/money"
	"github.com/g3lasio/owlfenc/planner"
)

// Issue ties a message to the field it concerns.
type Issue struct {
	Path    fieldpath.Path `json:"path"`
	Message string         `json:"message"`
}

// Result is the outcome of one validation pass. Only Errors block.
type Result struct {
	IsValid     bool    `json:"is_valid"`
	Errors      []Issue `json:"errors"`
	Warnings    []Issue `json:"warnings"`
	Suggestions []Issue `json:"suggestions"`
}

// ErrorsFor returns the errors attached to fields of the given step.
func (r Result) ErrorsFor(p planner.Plan, step model.Step) []Issue {
	var out []Issue
	for _, e := range r.Errors {
		if f, ok := p.Field(e.Path); ok && f.Step == step {
			out = append(out, e)
		}
	}
	return out
}

const MsgDepositExceedsTotal = "deposit exceeds total"

var patterns sync.Map // pattern -> *regexp.Regexp

// Validate plans tpl against the draft and checks every planned field.
func Validate(d model.ContractDraft, tpl model.ContractTemplate) Result {
	return ValidatePlan(d, planner.New(tpl, d.Values))
}

// ValidatePlan is Validate for callers that already hold the plan.
func ValidatePlan(d model.ContractDraft, p planner.Plan) Result {
	r := Result{Errors: []Issue{}, Warnings: []Issue{}, Suggestions: []Issue{}}

	for _, f := range p.Fields() {
		checkField(&r, f, d.Values.Lookup(f.Path))
	}
	checkAmounts(&r, d.Values)
	checkDates(&r, d.Values)

	r.IsValid = len(r.Errors) == 0
	return r
}

func checkField(r *Result, f planner.PlannedField, value string) {
	if value == "" {
		if f.MustHaveValue() {
			r.Errors = append(r.Errors, Issue{f.Path, fmt.Sprintf("%s is required", f.Prompt)})
		} else if f.Importance == model.ImportanceInformational {
			r.Suggestions = append(r.Suggestions, Issue{f.Path, fmt.Sprintf("Consider adding %s", strings.ToLower(f.Prompt))})
		}
		return
	}

	switch f.Type {
	case model.FieldNumber:
		cents, err := money.Parse(value)
		if errors.Is(err, money.ErrOutOfRange) {
			r.Errors = append(r.Errors, Issue{f.Path, fmt.Sprintf("%s is too large", f.Prompt)})
			return
		}
		if err != nil {
			r.Errors = append(r.Errors, Issue{f.Path, fmt.Sprintf("%s must be a number", f.Prompt)})
			return
		}
		if cents < 0 {
			r.Errors = append(r.Errors, Issue{f.Path, fmt.Sprintf("%s cannot be negative", f.Prompt)})
		}
	case model.FieldDate:
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			r.Errors = append(r.Errors, Issue{f.Path, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", f.Prompt)})
			return
		}
	case model.FieldChoice:
		if len(f.Options) > 0 && !hasOption(f.Options, value) {
			r.Warnings = append(r.Warnings, Issue{f.Path, fmt.Sprintf("%s is not one of: %s", f.Prompt, strings.Join(f.Options, ", "))})
		}
	}

	if f.Pattern != "" && !compiled(f.Pattern).MatchString(value) {
		r.Warnings = append(r.Warnings, Issue{f.Path, fmt.Sprintf("%s looks invalid", f.Prompt)})
	}
}

// checkAmounts runs on the raw values so a deposit above the total is
// reported whatever the plan contains.
func checkAmounts(r *Result, values fieldpath.Tree) {
	total, err := money.Parse(values.Lookup(model.PathPaymentTotal))
	if err != nil {
		return
	}
	deposit, err := money.Parse(values.Lookup(model.PathPaymentDeposit))
	if err != nil {
		return
	}
	if deposit > total {
		r.Errors = append(r.Errors, Issue{model.PathPaymentDeposit, MsgDepositExceedsTotal})
	}
}

func checkDates(r *Result, values fieldpath.Tree) {
	start, err := time.Parse(time.DateOnly, values.Lookup(model.PathStartDate))
	if err != nil {
		return
	}
	end, err := time.Parse(time.DateOnly, values.Lookup(model.PathCompletionDate))
	if err != nil {
		return
	}
	if start.After(end) {
		r.Errors = append(r.Errors, Issue{model.PathStartDate, "start date is after the completion date"})
	}
}

func hasOption(options []string, v string) bool {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return true
		}
	}
	return false
}

func compiled(pattern string) *regexp.Regexp {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	patterns.Store(pattern, re)
	return re
}
