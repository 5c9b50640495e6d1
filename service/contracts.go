package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/draft"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/g3lasio/owlfenc/planner"
	"github.com/g3lasio/owlfenc/suggest"
	"github.com/g3lasio/owlfenc/validation"
	"github.com/google/uuid"
)

// ContractService drives a contract from the first draft to both signatures.
type ContractService struct {
	selector       *catalog.Selector
	drafts         DraftStore
	ledger         *ledger.Ledger
	profiles       ProfileProvider
	suggester      *suggest.Engine
	enhancer       Enhancer
	enhanceTimeout time.Duration
	archiver       Archiver
	archiveTimeout time.Duration
	now            func() time.Time
	newID          func() string
}

// Options wires a ContractService. Enhancer and Archiver are optional.
type Options struct {
	Selector       *catalog.Selector
	Drafts         DraftStore
	Ledger         *ledger.Ledger
	Profiles       ProfileProvider
	Enhancer       Enhancer
	EnhanceTimeout time.Duration
	Archiver       Archiver
	Now            func() time.Time
}

func NewContractService(opts Options) *ContractService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	enhancer := opts.Enhancer
	if enhancer == nil {
		enhancer = NoopEnhancer{}
	}
	timeout := opts.EnhanceTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ContractService{
		selector:       opts.Selector,
		drafts:         opts.Drafts,
		ledger:         opts.Ledger,
		profiles:       opts.Profiles,
		suggester:      suggest.NewEngineWithClock(now),
		enhancer:       enhancer,
		enhanceTimeout: timeout,
		archiver:       opts.Archiver,
		archiveTimeout: 10 * time.Second,
		now:            now,
		newID:          uuid.NewString,
	}
}

// StartRequest selects a template and seeds the new draft.
type StartRequest struct {
	ProjectType  string            `json:"project_type" binding:"required"`
	Complexity   string            `json:"complexity" binding:"required"`
	Jurisdiction string            `json:"jurisdiction"`
	Values       map[string]string `json:"values"`
}

// DraftView is a draft together with everything derived from it.
type DraftView struct {
	Draft       model.ContractDraft    `json:"draft"`
	Template    model.ContractTemplate `json:"template"`
	Plan        planner.Plan           `json:"plan"`
	CurrentStep model.Step             `json:"current_step"`
	Validation  validation.Result      `json:"validation"`
	ArchiveURL  string                 `json:"archive_url,omitempty"`
}

func (s *ContractService) Templates() []model.ContractTemplate {
	return s.selector.Catalog().Templates()
}

// SelectTemplate exposes the selector for the template preview endpoint.
func (s *ContractService) SelectTemplate(projectType, complexity, jurisdiction string) (model.ContractTemplate, error) {
	return s.selector.Select(projectType, model.Complexity(complexity), jurisdiction)
}

func (s *ContractService) StartDraft(ctx context.Context, contractorID string, req StartRequest) (DraftView, error) {
	tpl, err := s.SelectTemplate(req.ProjectType, req.Complexity, req.Jurisdiction)
	if err != nil {
		return DraftView{}, err
	}
	known, err := fieldpath.FromFlat(req.Values)
	if err != nil {
		return DraftView{}, err
	}
	if known.Lookup(model.PathProjectType) == "" && strings.TrimSpace(req.ProjectType) != "" {
		known = known.With(model.PathProjectType, strings.TrimSpace(req.ProjectType))
	}

	d := draft.New(s.newID(), contractorID, tpl, known, s.now())
	if err := s.drafts.Save(ctx, d); err != nil {
		return DraftView{}, err
	}
	logger.Info(ctx, "draft started", "draft_id", d.ID, "template_id", tpl.ID)
	return s.view(d, tpl), nil
}

func (s *ContractService) GetDraft(ctx context.Context, contractorID, id string) (DraftView, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return DraftView{}, err
	}
	return s.view(d, tpl), nil
}

// UpdateFields applies dotted-path edits and auto-saves the draft.
func (s *ContractService) UpdateFields(ctx context.Context, contractorID, id string, changes map[string]string) (DraftView, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return DraftView{}, err
	}
	d, err = draft.ApplyFieldChanges(d, changes, s.now())
	if err != nil {
		return DraftView{}, err
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return DraftView{}, err
	}
	return s.view(d, tpl), nil
}

// ListDrafts returns the contractor's drafts and contracts, newest first.
func (s *ContractService) ListDrafts(ctx context.Context, contractorID string) ([]model.ContractDraft, error) {
	return s.drafts.ListByContractor(ctx, contractorID)
}

// DeleteDraft discards an unfinalized draft. Contracts cannot be deleted.
func (s *ContractService) DeleteDraft(ctx context.Context, contractorID, id string) error {
	if _, _, err := s.load(ctx, contractorID, id); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "draft deleted", "draft_id", id)
	return nil
}

func (s *ContractService) Suggestions(ctx context.Context, contractorID, id string) ([]suggest.Suggestion, error) {
	d, _, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, d), nil
}

// ApplySuggestions applies the current suggestions for the given paths, or
// every value suggestion when paths is empty.
func (s *ContractService) ApplySuggestions(ctx context.Context, contractorID, id string, paths []string) (DraftView, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return DraftView{}, err
	}

	wanted := make(map[string]bool, len(paths))
	for _, p := range paths {
		parsed, err := fieldpath.Parse(p)
		if err != nil {
			return DraftView{}, err
		}
		wanted[parsed.String()] = true
	}

	for _, sg := range s.suggest(ctx, d) {
		if len(wanted) > 0 && !wanted[sg.Path.String()] {
			continue
		}
		if d, err = draft.ApplySuggestion(d, sg, s.now()); err != nil {
			return DraftView{}, err
		}
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return DraftView{}, err
	}
	return s.view(d, tpl), nil
}

func (s *ContractService) Validate(ctx context.Context, contractorID, id string) (validation.Result, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(d, tpl), nil
}

// Advance moves the draft to its next step. When the current step has
// blocking errors the returned view carries them along with ErrDraftInvalid.
func (s *ContractService) Advance(ctx context.Context, contractorID, id string) (DraftView, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return DraftView{}, err
	}
	next, _, err := draft.AdvanceStep(d, tpl, s.now())
	if err != nil {
		return s.view(d, tpl), err
	}
	if err := s.drafts.Save(ctx, next); err != nil {
		return DraftView{}, err
	}
	return s.view(next, tpl), nil
}

// Finalize freezes a valid draft into a contract and archives it when an
// archive is configured. Archive failures are logged, not returned.
func (s *ContractService) Finalize(ctx context.Context, contractorID, id string) (DraftView, error) {
	d, tpl, err := s.load(ctx, contractorID, id)
	if err != nil {
		return DraftView{}, err
	}
	final, _, err := draft.Finalize(d, tpl, s.now())
	if err != nil {
		return s.view(d, tpl), err
	}
	if err := s.drafts.Save(ctx, final); err != nil {
		return DraftView{}, err
	}

	ctx = logger.With(ctx, logger.ContractIDKey, final.ID)
	logger.Info(ctx, "contract finalized", "template_id", tpl.ID)

	view := s.view(final, tpl)
	view.ArchiveURL = s.archiveContract(ctx, final)
	return view, nil
}

// Enhance improves free text with the configured enhancer. It never fails:
// on any problem the original text comes back with enhanced=false.
func (s *ContractService) Enhance(ctx context.Context, text, category string) (string, bool) {
	return EnhanceBestEffort(ctx, s.enhancer, s.enhanceTimeout, text, category)
}

func (s *ContractService) SubmitSignature(ctx context.Context, req ledger.SignatureRequest) (ledger.Receipt, error) {
	r, err := s.ledger.StoreSignature(ctx, req)
	if err != nil {
		return ledger.Receipt{}, err
	}
	if r.Created {
		s.archiveSignature(ctx, r.Record)
	}
	return r, nil
}

func (s *ContractService) SignatureStatus(ctx context.Context, contractID string) (ledger.StatusView, error) {
	return s.ledger.GetStatus(ctx, contractID)
}

func (s *ContractService) load(ctx context.Context, contractorID, id string) (model.ContractDraft, model.ContractTemplate, error) {
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return model.ContractDraft{}, model.ContractTemplate{}, err
	}
	if d.ContractorID != contractorID {
		return model.ContractDraft{}, model.ContractTemplate{}, model.ErrDraftNotFound
	}
	tpl, ok := s.selector.Catalog().Get(d.TemplateID)
	if !ok {
		return model.ContractDraft{}, model.ContractTemplate{}, fmt.Errorf("%w: %s", model.ErrTemplateNotFound, d.TemplateID)
	}
	return d, tpl, nil
}

func (s *ContractService) suggest(ctx context.Context, d model.ContractDraft) []suggest.Suggestion {
	profile, err := s.profiles.Profile(ctx, d.ContractorID)
	if err != nil {
		logger.Warn(ctx, "profile unavailable, suggesting without it", "error", err)
		profile = model.ContractorProfile{}
	}
	return s.suggester.Suggest(d, profile)
}

func (s *ContractService) view(d model.ContractDraft, tpl model.ContractTemplate) DraftView {
	p := planner.New(tpl, d.Values)
	v := DraftView{
		Draft:      d,
		Template:   tpl,
		Plan:       p,
		Validation: validation.ValidatePlan(d, p),
	}
	if step, ok := draft.CurrentStep(d, p); ok {
		v.CurrentStep = step.Step
	}
	return v
}

func (s *ContractService) archiveContract(ctx context.Context, d model.ContractDraft) string {
	if s.archiver == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, s.archiveTimeout)
	defer cancel()

	name, err := s.archiver.ArchiveContract(ctx, d)
	if err != nil {
		logger.Warn(ctx, "failed to archive contract", "error", err)
		return ""
	}
	url, err := s.archiver.GetPresignedURL(ctx, name)
	if err != nil {
		logger.Warn(ctx, "failed to presign contract archive", "object", name, "error", err)
		return ""
	}
	return url
}

func (s *ContractService) archiveSignature(ctx context.Context, rec model.SignatureRecord) {
	if s.archiver == nil || rec.SignatureType != model.SignatureDrawn {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.archiveTimeout)
	defer cancel()

	if _, err := s.archiver.ArchiveSignature(ctx, rec); err != nil {
		logger.Warn(ctx, "failed to archive signature image", "contract_id", rec.ContractID, "signer_role", rec.SignerRole, "error", err)
	}
}
