// Package draft holds the transitions of a contract draft. Every function
// takes a draft by value and returns the next one; callers decide when and
// where to persist it.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/planner"
	"github.com/g3lasio/owlfenc/suggest"
	"github.com/g3lasio/owlfenc/validation"
)

// New starts a draft for tpl seeded with known values.
func New(id, contractorID string, tpl model.ContractTemplate, known fieldpath.Tree, now time.Time) model.ContractDraft {
	return model.ContractDraft{
		ID:           id,
		ContractorID: contractorID,
		TemplateID:   tpl.ID,
		Values:       known.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyFieldChange sets the value at p. A blank value clears the field.
func ApplyFieldChange(d model.ContractDraft, p fieldpath.Path, value string, now time.Time) (model.ContractDraft, error) {
	if d.Finalized {
		return d, model.ErrDraftFinalized
	}
	if len(p) == 0 {
		return d, fmt.Errorf("%w: empty path", fieldpath.ErrInvalidPath)
	}
	if strings.TrimSpace(value) == "" {
		d.Values = d.Values.Without(p)
	} else {
		d.Values = d.Values.With(p, value)
	}
	d.UpdatedAt = now
	return d, nil
}

// ApplyFieldChanges applies a batch of dotted-path edits in key order.
func ApplyFieldChanges(d model.ContractDraft, changes map[string]string, now time.Time) (model.ContractDraft, error) {
	if d.Finalized {
		return d, model.ErrDraftFinalized
	}
	flat, err := fieldpath.FromFlat(changes)
	if err != nil {
		return d, err
	}
	next := d
	var applyErr error
	flat.Walk(func(p fieldpath.Path, v string) {
		if applyErr != nil {
			return
		}
		next, applyErr = ApplyFieldChange(next, p, v, now)
	})
	if applyErr != nil {
		return d, applyErr
	}
	return next, nil
}

// ApplySuggestion writes a suggested value into the draft. Flags carry no
// value and leave the draft unchanged.
func ApplySuggestion(d model.ContractDraft, s suggest.Suggestion, now time.Time) (model.ContractDraft, error) {
	if s.IsFlag() || s.Value == "" {
		if d.Finalized {
			return d, model.ErrDraftFinalized
		}
		return d, nil
	}
	return ApplyFieldChange(d, s.Path, s.Value, now)
}

// CurrentStep returns the step the draft is on within p.
func CurrentStep(d model.ContractDraft, p planner.Plan) (planner.StepPlan, bool) {
	if len(p.Steps) == 0 {
		return planner.StepPlan{}, false
	}
	i := d.Step
	if i < 0 {
		i = 0
	}
	if i >= len(p.Steps) {
		i = len(p.Steps) - 1
	}
	return p.Steps[i], true
}

// AdvanceStep moves to the next step when the current one has no blocking
// errors. On the last step the draft stays put. A blocked advance returns
// the unchanged draft with ErrDraftInvalid and the validation result.
func AdvanceStep(d model.ContractDraft, tpl model.ContractTemplate, now time.Time) (model.ContractDraft, validation.Result, error) {
	if d.Finalized {
		return d, validation.Result{}, model.ErrDraftFinalized
	}
	p := planner.New(tpl, d.Values)
	r := validation.ValidatePlan(d, p)

	step, ok := CurrentStep(d, p)
	if !ok {
		return d, r, nil
	}
	if blocking := r.ErrorsFor(p, step.Step); len(blocking) > 0 {
		return d, r, fmt.Errorf("%w: %d error(s) in %s", model.ErrDraftInvalid, len(blocking), step.Title)
	}
	if d.Step < len(p.Steps)-1 {
		d.Step++
		d.UpdatedAt = now
	}
	return d, r, nil
}

// Finalize freezes a draft with no blocking errors. Its id becomes the
// contract id that signatures refer to.
func Finalize(d model.ContractDraft, tpl model.ContractTemplate, now time.Time) (model.ContractDraft, validation.Result, error) {
	if d.Finalized {
		return d, validation.Result{}, model.ErrDraftFinalized
	}
	if d.TemplateID != tpl.ID {
		return d, validation.Result{}, fmt.Errorf("draft uses template %q, got %q", d.TemplateID, tpl.ID)
	}
	r := validation.Validate(d, tpl)
	if !r.IsValid {
		return d, r, fmt.Errorf("%w: %d error(s)", model.ErrDraftInvalid, len(r.Errors))
	}
	d.Finalized = true
	d.FinalizedAt = &now
	d.UpdatedAt = now
	return d, r, nil
}
