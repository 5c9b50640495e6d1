package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/internal/testfixture"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeArchiver struct {
	mu         sync.Mutex
	contracts  []string
	signatures []string
	fail       bool
}

func (f *fakeArchiver) ArchiveContract(_ context.Context, d model.ContractDraft) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts = append(f.contracts, d.ID)
	return ContractObject(d), nil
}

func (f *fakeArchiver) ArchiveSignature(_ context.Context, rec model.SignatureRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signatures = append(f.signatures, string(rec.SignerRole))
	return SignatureObject(rec), nil
}

func (f *fakeArchiver) GetPresignedURL(_ context.Context, name string) (string, error) {
	return "https://archive.test/" + name, nil
}

func newTestService(t *testing.T, archiver Archiver) *ContractService {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	sel, err := catalog.NewSelector(c, catalog.TieBreakFirstDeclared, 16)
	require.NoError(t, err)

	drafts := NewMemoryDraftStore(100)
	return NewContractService(Options{
		Selector: sel,
		Drafts:   drafts,
		Ledger:   ledger.New(ledger.NewMemoryStore(), drafts),
		Profiles: NewStaticProfiles([]model.ContractorProfile{{
			ContractorID: "owl",
			CompanyName:  "Owl Fence Co",
			OwnerName:    "Gil Lasio",
		}}),
		Archiver: archiver,
		Now:      func() time.Time { return testNow },
	})
}

func TestEndToEndFencingCalifornia(t *testing.T) {
	archive := &fakeArchiver{}
	svc := newTestService(t, archive)
	ctx := context.Background()

	view, err := svc.StartDraft(ctx, "owl", StartRequest{
		ProjectType:  "fencing",
		Complexity:   "advanced",
		Jurisdiction: "California",
		Values:       testfixture.Flat("insurance.carrier"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ca-fencing-advanced", view.Template.ID)
	assert.True(t, view.Plan.HasStep(model.StepLegal))

	res, err := svc.Validate(ctx, "owl", view.Draft.ID)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "insurance.carrier", res.Errors[0].Path.String())

	_, err = svc.Finalize(ctx, "owl", view.Draft.ID)
	assert.ErrorIs(t, err, model.ErrDraftInvalid)

	view, err = svc.UpdateFields(ctx, "owl", view.Draft.ID, map[string]string{"insurance.carrier": "Acme Mutual"})
	require.NoError(t, err)
	assert.True(t, view.Validation.IsValid)

	view, err = svc.Finalize(ctx, "owl", view.Draft.ID)
	require.NoError(t, err)
	assert.True(t, view.Draft.Finalized)
	assert.Equal(t, "https://archive.test/contracts/owl/"+view.Draft.ID+"/contract.json", view.ArchiveURL)
	contractID := view.Draft.ID

	r, err := svc.SubmitSignature(ctx, ledger.SignatureRequest{
		ContractID:    contractID,
		SignerName:    "Gil Lasio",
		SignerRole:    model.RoleContractor,
		SignatureType: model.SignatureTyped,
		SignatureData: "Gil Lasio",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusContractorSigned, r.Status)

	r, err = svc.SubmitSignature(ctx, ledger.SignatureRequest{
		ContractID:    contractID,
		SignerName:    "Ana Ruiz",
		SignerRole:    model.RoleClient,
		SignatureType: model.SignatureTyped,
		SignatureData: "Ana Ruiz",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFullySigned, r.Status)

	status, err := svc.SignatureStatus(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFullySigned, status.Status)

	assert.Equal(t, []string{contractID}, archive.contracts)
	assert.Empty(t, archive.signatures, "typed signatures have no image to archive")
}

func TestSignatureBeforeFinalizeIsRejected(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	view, err := svc.StartDraft(ctx, "owl", StartRequest{ProjectType: "fencing", Complexity: "basic", Jurisdiction: "CA"})
	require.NoError(t, err)

	_, err = svc.SubmitSignature(ctx, ledger.SignatureRequest{
		ContractID:    view.Draft.ID,
		SignerName:    "Ana",
		SignerRole:    model.RoleClient,
		SignatureType: model.SignatureTyped,
		SignatureData: "Ana",
	})
	assert.ErrorIs(t, err, model.ErrContractNotFound)
}

func TestStartDraftErrors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.StartDraft(ctx, "owl", StartRequest{ProjectType: "fencing", Complexity: "expert"})
	assert.ErrorIs(t, err, model.ErrInvalidComplexity)

	_, err = svc.StartDraft(ctx, "owl", StartRequest{ProjectType: "fencing", Complexity: "basic", Values: map[string]string{".bad": "x"}})
	assert.Error(t, err)
}

func TestStartDraftSeedsProjectType(t *testing.T) {
	svc := newTestService(t, nil)
	view, err := svc.StartDraft(context.Background(), "owl", StartRequest{ProjectType: "fencing", Complexity: "basic", Jurisdiction: "TX"})
	require.NoError(t, err)
	assert.Equal(t, "fencing", view.Draft.Values.Lookup(model.PathProjectType))
	assert.Equal(t, model.StepBasic, view.CurrentStep)
}

func TestDraftsAreScopedToContractor(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	view, err := svc.StartDraft(ctx, "owl", StartRequest{ProjectType: "fencing", Complexity: "basic"})
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, "someone-else", view.Draft.ID)
	assert.ErrorIs(t, err, model.ErrDraftNotFound)
}

func TestSuggestionsUseProfile(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	view, err := svc.StartDraft(ctx, "owl", StartRequest{
		ProjectType: "fencing", Complexity: "basic", Jurisdiction: "CA",
		Values: map[string]string{"payment.total": "1700.00"},
	})
	require.NoError(t, err)

	list, err := svc.Suggestions(ctx, "owl", view.Draft.ID)
	require.NoError(t, err)

	s, ok := suggest.Find(list, model.PathPaymentDeposit)
	require.True(t, ok)
	assert.Equal(t, "850.00", s.Value)
	s, ok = suggest.Find(list, model.PathContractorCompany)
	require.True(t, ok)
	assert.Equal(t, "Owl Fence Co", s.Value)
	s, ok = suggest.Find(list, model.PathStartDate)
	require.True(t, ok)
	assert.Equal(t, "2026-03-09", s.Value)
}

func TestApplySuggestions(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	view, err := svc.StartDraft(ctx, "owl", StartRequest{
		ProjectType: "fencing", Complexity: "basic",
		Values: map[string]string{"payment.total": "1700.00"},
	})
	require.NoError(t, err)

	view, err = svc.ApplySuggestions(ctx, "owl", view.Draft.ID, []string{"payment.deposit"})
	require.NoError(t, err)
	assert.Equal(t, "850.00", view.Draft.Values.Lookup(model.PathPaymentDeposit))
	assert.Equal(t, "", view.Draft.Values.Lookup(model.PathPaymentTerms), "only the requested path is applied")

	view, err = svc.ApplySuggestions(ctx, "owl", view.Draft.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, suggest.StandardTerms, view.Draft.Values.Lookup(model.PathPaymentTerms))
	assert.Equal(t, "Gil Lasio", view.Draft.Values.Lookup(model.PathSignerName))
	assert.Equal(t, "", view.Draft.Values.Lookup(model.PathClientPhone), "flags never write values")
}

func TestAdvanceReportsBlockingErrors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	view, err := svc.StartDraft(ctx, "owl", StartRequest{ProjectType: "fencing", Complexity: "advanced", Jurisdiction: "CA"})
	require.NoError(t, err)

	blocked, err := svc.Advance(ctx, "owl", view.Draft.ID)
	assert.ErrorIs(t, err, model.ErrDraftInvalid)
	assert.False(t, blocked.Validation.IsValid)
	assert.Equal(t, 0, blocked.Draft.Step)

	_, err = svc.UpdateFields(ctx, "owl", view.Draft.ID, testfixture.Flat())
	require.NoError(t, err)
	next, err := svc.Advance(ctx, "owl", view.Draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StepProject, next.CurrentStep)
}

func TestFinalizeSurvivesArchiveFailure(t *testing.T) {
	svc := newTestService(t, &fakeArchiver{fail: true})
	ctx := context.Background()
	view, err := svc.StartDraft(ctx, "owl", StartRequest{
		ProjectType: "fencing", Complexity: "advanced", Jurisdiction: "CA",
		Values: testfixture.Flat(),
	})
	require.NoError(t, err)

	view, err = svc.Finalize(ctx, "owl", view.Draft.ID)
	require.NoError(t, err)
	assert.True(t, view.Draft.Finalized)
	assert.Empty(t, view.ArchiveURL)

	_, err = svc.UpdateFields(ctx, "owl", view.Draft.ID, map[string]string{"client.name": "x"})
	assert.ErrorIs(t, err, model.ErrDraftFinalized)
}

func TestEnhanceFallsBack(t *testing.T) {
	svc := newTestService(t, nil)
	out, ok := svc.Enhance(context.Background(), "put up fence", "fencing")
	assert.False(t, ok)
	assert.Equal(t, "put up fence", out)
}
