package validation

import (
	"strings"
	"testing"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/internal/testfixture"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fencingAdvanced(t *testing.T) model.ContractTemplate {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	tpl, ok := c.Get("ca-fencing-advanced")
	require.True(t, ok)
	return tpl
}

func draftOf(values fieldpath.Tree) model.ContractDraft {
	return model.ContractDraft{ID: "d1", TemplateID: "ca-fencing-advanced", Values: values}
}

func paths(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Path.String())
	}
	return out
}

func TestCompleteDraftIsValid(t *testing.T) {
	r := Validate(draftOf(testfixture.Tree()), fencingAdvanced(t))
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Empty(t, r.Suggestions)
}

func TestMissingClientPhone(t *testing.T) {
	r := Validate(draftOf(testfixture.Tree("client.phone")), fencingAdvanced(t))

	assert.False(t, r.IsValid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "client.phone", r.Errors[0].Path.String())
	assert.Equal(t, "Client phone number is required", r.Errors[0].Message)
}

func TestBlankValueCountsAsEmpty(t *testing.T) {
	values := testfixture.Tree().With(model.PathClientPhone, "   ")
	r := Validate(draftOf(values), fencingAdvanced(t))
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "client.phone", r.Errors[0].Path.String())
}

func TestCriticalImpliesRequired(t *testing.T) {
	r := Validate(draftOf(testfixture.Tree("legal.lienNoticeAcknowledged")), fencingAdvanced(t))
	assert.False(t, r.IsValid)
	assert.Equal(t, []string{"legal.lienNoticeAcknowledged"}, paths(r.Errors))
}

func TestDepositExceedsTotal(t *testing.T) {
	values := testfixture.Tree().
		With(model.PathPaymentDeposit, "2000").
		With(model.PathPaymentTotal, "1700")
	r := Validate(draftOf(values), fencingAdvanced(t))
	assert.False(t, r.IsValid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, MsgDepositExceedsTotal, r.Errors[0].Message)

	// Reported regardless of the rest of the draft.
	sparse, err := fieldpath.FromFlat(map[string]string{"payment.deposit": "2000", "payment.total": "1700"})
	require.NoError(t, err)
	r = Validate(draftOf(sparse), fencingAdvanced(t))
	var found bool
	for _, e := range r.Errors {
		if e.Message == MsgDepositExceedsTotal {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDepositEqualToTotalIsAllowed(t *testing.T) {
	values := testfixture.Tree().With(model.PathPaymentDeposit, "$1,700")
	r := Validate(draftOf(values), fencingAdvanced(t))
	assert.True(t, r.IsValid, "%v", r.Errors)
}

func TestStartAfterCompletion(t *testing.T) {
	values := testfixture.Tree().With(model.PathStartDate, "2026-05-01")
	r := Validate(draftOf(values), fencingAdvanced(t))
	assert.Equal(t, []string{"timeline.startDate"}, paths(r.Errors))
}

func TestMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		path fieldpath.Path
		val  string
		msg  string
	}{
		{"number", model.PathPaymentTotal, "seventeen hundred", "must be a number"},
		{"too large", model.PathPaymentTotal, "100000000000000000", "is too large"},
		{"negative", model.PathPaymentDeposit, "-5", "cannot be negative"},
		{"date", model.PathCompletionDate, "next tuesday", "must be a date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(draftOf(testfixture.Tree().With(tt.path, tt.val)), fencingAdvanced(t))
			require.Len(t, r.Errors, 1)
			assert.Equal(t, tt.path.String(), r.Errors[0].Path.String())
			assert.Contains(t, r.Errors[0].Message, tt.msg)
		})
	}
}

func TestPatternFailuresWarnOnly(t *testing.T) {
	values := testfixture.Tree().
		With(model.PathClientEmail, "ana-at-example").
		With(model.PathClientPhone, "call me")
	r := Validate(draftOf(values), fencingAdvanced(t))

	assert.True(t, r.IsValid)
	assert.ElementsMatch(t, []string{"client.phone", "client.email"}, paths(r.Warnings))
}

func TestChoiceOutsideOptionsWarns(t *testing.T) {
	values := testfixture.Tree().With(model.PathDisputes, "duel at dawn")
	r := Validate(draftOf(values), fencingAdvanced(t))
	assert.True(t, r.IsValid)
	require.Len(t, r.Warnings, 1)
	assert.True(t, strings.HasPrefix(r.Warnings[0].Message, "Dispute resolution method is not one of"))

	// Options match case-insensitively.
	r = Validate(draftOf(testfixture.Tree().With(model.PathDisputes, "Mediation")), fencingAdvanced(t))
	assert.Empty(t, r.Warnings)
}

func TestEmptyInformationalFieldsAreSuggestions(t *testing.T) {
	r := Validate(draftOf(testfixture.Tree("project.materials", "payment.method")), fencingAdvanced(t))
	assert.True(t, r.IsValid)
	assert.ElementsMatch(t, []string{"project.materials", "payment.method"}, paths(r.Suggestions))
}

func TestValidateIsPure(t *testing.T) {
	values := testfixture.Tree("client.phone")
	before := values.Flatten()
	d := draftOf(values)

	first := Validate(d, fencingAdvanced(t))
	second := Validate(d, fencingAdvanced(t))
	assert.Equal(t, first, second)
	assert.Equal(t, before, d.Values.Flatten())
}

func TestErrorsFor(t *testing.T) {
	tpl := fencingAdvanced(t)
	d := draftOf(testfixture.Tree("client.phone", "insurance.carrier"))
	p := planner.New(tpl, d.Values)
	r := ValidatePlan(d, p)

	assert.Equal(t, []string{"client.phone"}, paths(r.ErrorsFor(p, model.StepBasic)))
	assert.Equal(t, []string{"insurance.carrier"}, paths(r.ErrorsFor(p, model.StepLegal)))
	assert.Empty(t, r.ErrorsFor(p, model.StepFinancial))
}
