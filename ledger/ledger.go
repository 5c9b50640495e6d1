// Package ledger records contractor and client signatures and derives the
// aggregate signing status of a contract from them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
)

// ContractLookup resolves contract ids to drafts. Only finalized drafts are
// contracts.
type ContractLookup interface {
	GetDraft(ctx context.Context, id string) (model.ContractDraft, error)
}

// SignatureRequest is one party's signature submission.
type SignatureRequest struct {
	ContractID    string
	SignerName    string
	SignerRole    model.SignerRole
	SignatureType model.SignatureType
	SignatureData string
	Metadata      map[string]string
}

// Receipt is the outcome of StoreSignature. Created is false when the role
// had already signed and the existing record was returned.
type Receipt struct {
	Record  model.SignatureRecord
	Created bool
	Status  model.SignatureStatus
}

// StatusView is the read model of a contract's signatures.
type StatusView struct {
	ContractID          string                 `json:"contractId"`
	ContractorSignature *model.SignatureRecord `json:"contractorSignature,omitempty"`
	ClientSignature     *model.SignatureRecord `json:"clientSignature,omitempty"`
	Status              model.SignatureStatus  `json:"status"`
}

type Ledger struct {
	store     RecordStore
	contracts ContractLookup
	now       func() time.Time
}

func New(store RecordStore, contracts ContractLookup) *Ledger {
	return &Ledger{store: store, contracts: contracts, now: time.Now}
}

// WithClock sets the time source used for SignedAt.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// StoreSignature records the signature for req.SignerRole unless that role
// has already signed. A repeat by the same signer returns the existing
// record; a repeat under a different name fails with ErrSignatureConflict.
// The returned status is read back from the store after the write.
func (l *Ledger) StoreSignature(ctx context.Context, req SignatureRequest) (Receipt, error) {
	if !req.SignerRole.Valid() {
		return Receipt{}, fmt.Errorf("%w: unknown signer role %q", model.ErrInvalidSignature, req.SignerRole)
	}
	if strings.TrimSpace(req.SignerName) == "" {
		return Receipt{}, fmt.Errorf("%w: signer name is blank", model.ErrInvalidSignature)
	}
	if err := CheckPayload(req.SignatureType, req.SignatureData); err != nil {
		return Receipt{}, err
	}
	if err := l.requireContract(ctx, req.ContractID); err != nil {
		return Receipt{}, err
	}

	ctx = logger.With(ctx, logger.ContractIDKey, req.ContractID)
	ctx = logger.With(ctx, logger.SignerRoleKey, string(req.SignerRole))

	rec := model.SignatureRecord{
		ContractID:    req.ContractID,
		SignerRole:    req.SignerRole,
		SignerName:    strings.TrimSpace(req.SignerName),
		SignatureType: req.SignatureType,
		SignatureData: req.SignatureData,
		SignedAt:      l.now().UTC(),
		Metadata:      req.Metadata,
	}
	if req.SignatureType == model.SignatureTyped {
		rec.SignatureData = strings.TrimSpace(req.SignatureData)
	}

	stored, created, err := l.store.InsertIfAbsent(ctx, rec)
	if err != nil {
		logger.Error(ctx, "failed to store signature", "error", err)
		return Receipt{}, fmt.Errorf("store signature: %w", err)
	}
	if !created && !sameSigner(stored.SignerName, rec.SignerName) {
		logger.Warn(ctx, "conflicting signature resubmission", "stored_signer", stored.SignerName, "signer", rec.SignerName)
		return Receipt{}, fmt.Errorf("%w: %s already signed as %q", model.ErrSignatureConflict, req.SignerRole, stored.SignerName)
	}

	view, err := l.status(ctx, req.ContractID)
	if err != nil {
		return Receipt{}, err
	}
	if created {
		logger.Info(ctx, "signature recorded", "type", rec.SignatureType, "status", view.Status)
	} else {
		logger.Info(ctx, "signature resubmitted", "status", view.Status)
	}
	return Receipt{Record: stored, Created: created, Status: view.Status}, nil
}

// GetStatus returns both role slots and the derived status. It has no side
// effects.
func (l *Ledger) GetStatus(ctx context.Context, contractID string) (StatusView, error) {
	if err := l.requireContract(ctx, contractID); err != nil {
		return StatusView{}, err
	}
	return l.status(ctx, contractID)
}

func (l *Ledger) status(ctx context.Context, contractID string) (StatusView, error) {
	records, err := l.store.List(ctx, contractID)
	if err != nil {
		return StatusView{}, fmt.Errorf("read signatures: %w", err)
	}

	view := StatusView{ContractID: contractID}
	for i := range records {
		rec := records[i]
		switch rec.SignerRole {
		case model.RoleContractor:
			view.ContractorSignature = &rec
		case model.RoleClient:
			view.ClientSignature = &rec
		}
	}
	view.Status = Resolve(view.ContractorSignature, view.ClientSignature)
	return view, nil
}

func (l *Ledger) requireContract(ctx context.Context, contractID string) error {
	if strings.TrimSpace(contractID) == "" {
		return fmt.Errorf("%w: empty contract id", model.ErrContractNotFound)
	}
	d, err := l.contracts.GetDraft(ctx, contractID)
	if errors.Is(err, model.ErrDraftNotFound) {
		return fmt.Errorf("%w: %s", model.ErrContractNotFound, contractID)
	}
	if err != nil {
		return fmt.Errorf("look up contract: %w", err)
	}
	if !d.Finalized {
		return fmt.Errorf("%w: %s is not finalized", model.ErrContractNotFound, contractID)
	}
	return nil
}

func sameSigner(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}
