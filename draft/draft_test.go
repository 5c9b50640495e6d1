package draft

import (
	"testing"
	"time"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/internal/testfixture"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/planner"
	"github.com/g3lasio/owlfenc/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func fencingAdvanced(t *testing.T) model.ContractTemplate {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	tpl, ok := c.Get("ca-fencing-advanced")
	require.True(t, ok)
	return tpl
}

func TestNewCopiesKnownValues(t *testing.T) {
	known := testfixture.Tree()
	d := New("d1", "ctr-1", fencingAdvanced(t), known, t0)

	assert.Equal(t, "ca-fencing-advanced", d.TemplateID)
	assert.Equal(t, t0, d.CreatedAt)
	assert.Equal(t, known.Flatten(), d.Values.Flatten())

	d2 := New("d2", "ctr-1", fencingAdvanced(t), nil, t0)
	assert.NotNil(t, d2.Values)
	assert.Empty(t, d2.Values.Flatten())
}

func TestApplyFieldChange(t *testing.T) {
	d := New("d1", "ctr-1", fencingAdvanced(t), nil, t0)

	next, err := ApplyFieldChange(d, model.PathClientPhone, "555-0100", t1)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", next.Values.Lookup(model.PathClientPhone))
	assert.Equal(t, t1, next.UpdatedAt)
	assert.Equal(t, "", d.Values.Lookup(model.PathClientPhone), "input draft untouched")

	cleared, err := ApplyFieldChange(next, model.PathClientPhone, "  ", t1)
	require.NoError(t, err)
	_, ok := cleared.Values.Get(model.PathClientPhone)
	assert.False(t, ok)

	_, err = ApplyFieldChange(d, nil, "x", t1)
	assert.ErrorIs(t, err, fieldpath.ErrInvalidPath)
}

func TestApplyFieldChanges(t *testing.T) {
	d := New("d1", "ctr-1", fencingAdvanced(t), nil, t0)
	next, err := ApplyFieldChanges(d, map[string]string{
		"client.name":  "Ana Ruiz",
		"client.phone": "555-0100",
	}, t1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", next.Values.Lookup(model.PathClientName))

	_, err = ApplyFieldChanges(d, map[string]string{"client..name": "x"}, t1)
	assert.ErrorIs(t, err, fieldpath.ErrInvalidPath)
}

func TestApplySuggestion(t *testing.T) {
	d := New("d1", "ctr-1", fencingAdvanced(t), nil, t0)
	d, err := ApplyFieldChange(d, model.PathPaymentTotal, "1700.00", t0)
	require.NoError(t, err)

	s, ok := suggest.Find(suggest.NewEngineWithClock(func() time.Time { return t0 }).Suggest(d, model.ContractorProfile{}), model.PathPaymentDeposit)
	require.True(t, ok)

	next, err := ApplySuggestion(d, s, t1)
	require.NoError(t, err)
	assert.Equal(t, "850.00", next.Values.Lookup(model.PathPaymentDeposit))

	flag := suggest.Suggestion{Path: model.PathClientPhone, Confidence: 100}
	same, err := ApplySuggestion(next, flag, t1)
	require.NoError(t, err)
	assert.Equal(t, next.Values.Flatten(), same.Values.Flatten())
}

func TestAdvanceStepBlocksOnCurrentStepErrors(t *testing.T) {
	tpl := fencingAdvanced(t)
	d := New("d1", "ctr-1", tpl, testfixture.Tree("client.phone", "insurance.carrier"), t0)

	blocked, r, err := AdvanceStep(d, tpl, t1)
	assert.ErrorIs(t, err, model.ErrDraftInvalid)
	assert.Equal(t, 0, blocked.Step)
	assert.False(t, r.IsValid)

	d, err = ApplyFieldChange(d, model.PathClientPhone, "555-0100", t1)
	require.NoError(t, err)

	// Later-step errors do not block earlier steps.
	for i := 1; i <= 3; i++ {
		d, _, err = AdvanceStep(d, tpl, t1)
		require.NoError(t, err)
		assert.Equal(t, i, d.Step)
	}

	p := planner.New(tpl, d.Values)
	step, ok := CurrentStep(d, p)
	require.True(t, ok)
	assert.Equal(t, model.StepLegal, step.Step)

	_, _, err = AdvanceStep(d, tpl, t1)
	assert.ErrorIs(t, err, model.ErrDraftInvalid)
}

func TestAdvanceStepStopsAtLastStep(t *testing.T) {
	tpl := fencingAdvanced(t)
	d := New("d1", "ctr-1", tpl, testfixture.Tree(), t0)
	for i := 0; i < 10; i++ {
		var err error
		d, _, err = AdvanceStep(d, tpl, t1)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, d.Step)
}

func TestFinalize(t *testing.T) {
	tpl := fencingAdvanced(t)
	d := New("d1", "ctr-1", tpl, testfixture.Tree("insurance.carrier"), t0)

	_, r, err := Finalize(d, tpl, t1)
	assert.ErrorIs(t, err, model.ErrDraftInvalid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "insurance.carrier", r.Errors[0].Path.String())

	d, err = ApplyFieldChange(d, model.PathInsuranceCarrier, "Acme Mutual", t1)
	require.NoError(t, err)
	final, r, err := Finalize(d, tpl, t1)
	require.NoError(t, err)
	assert.True(t, r.IsValid)
	assert.True(t, final.Finalized)
	require.NotNil(t, final.FinalizedAt)
	assert.Equal(t, t1, *final.FinalizedAt)

	_, _, err = Finalize(final, tpl, t1)
	assert.ErrorIs(t, err, model.ErrDraftFinalized)
	_, err = ApplyFieldChange(final, model.PathClientName, "x", t1)
	assert.ErrorIs(t, err, model.ErrDraftFinalized)
	_, _, err = AdvanceStep(final, tpl, t1)
	assert.ErrorIs(t, err, model.ErrDraftFinalized)
}

func TestFinalizeRejectsOtherTemplate(t *testing.T) {
	c, err := catalog.Builtin()
	require.NoError(t, err)
	other, ok := c.Get("ca-fencing-basic")
	require.True(t, ok)

	d := New("d1", "ctr-1", fencingAdvanced(t), testfixture.Tree(), t0)
	_, _, err = Finalize(d, other, t1)
	assert.Error(t, err)
}
