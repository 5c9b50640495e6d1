package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/g3lasio/owlfenc/model"
)

// DraftStore persists drafts. Saves overwrite in place (last write wins).
// Finalized drafts are contracts: they are never evicted, replaced or
// deleted, and the signature ledger resolves contract ids through GetDraft.
type DraftStore interface {
	// Save stores d. Overwriting a finalized draft fails with ErrDraftFinalized.
	Save(ctx context.Context, d model.ContractDraft) error
	// GetDraft returns the draft with id or ErrDraftNotFound.
	GetDraft(ctx context.Context, id string) (model.ContractDraft, error)
	// ListByContractor returns a contractor's drafts, newest first.
	ListByContractor(ctx context.Context, contractorID string) ([]model.ContractDraft, error)
	// Delete removes an unfinalized draft.
	Delete(ctx context.Context, id string) error
}

// MemoryDraftStore is a process-local DraftStore. Contracts live only as
// long as the process.
type MemoryDraftStore struct {
	drafts    map[string]model.ContractDraft
	mu        sync.RWMutex
	maxDrafts int // Maximum unfinalized drafts to keep, 0 = unlimited
}

func NewMemoryDraftStore(maxDrafts int) *MemoryDraftStore {
	if maxDrafts < 0 {
		maxDrafts = 0
	}
	slog.Info("draft store initialized", "driver", "memory", "max_drafts", maxDrafts)
	return &MemoryDraftStore{
		drafts:    make(map[string]model.ContractDraft),
		maxDrafts: maxDrafts,
	}
}

func (s *MemoryDraftStore) Save(_ context.Context, d model.ContractDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.drafts[d.ID]; ok && existing.Finalized {
		return model.ErrDraftFinalized
	}
	d.Values = d.Values.Clone()
	s.drafts[d.ID] = d

	s.cleanupIfNeeded()
	return nil
}

func (s *MemoryDraftStore) GetDraft(_ context.Context, id string) (model.ContractDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return model.ContractDraft{}, model.ErrDraftNotFound
	}
	d.Values = d.Values.Clone()
	return d, nil
}

func (s *MemoryDraftStore) ListByContractor(_ context.Context, contractorID string) ([]model.ContractDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.ContractDraft{}
	for _, d := range s.drafts {
		if d.ContractorID == contractorID {
			d.Values = d.Values.Clone()
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return model.ErrDraftNotFound
	}
	if d.Finalized {
		return model.ErrDraftFinalized
	}
	delete(s.drafts, id)
	return nil
}

// cleanupIfNeeded removes the oldest unfinalized drafts while there are more
// than maxDrafts of them.
// Must be called with lock held
func (s *MemoryDraftStore) cleanupIfNeeded() {
	if s.maxDrafts <= 0 {
		return // Unlimited
	}

	open := make([]model.ContractDraft, 0, len(s.drafts))
	for _, d := range s.drafts {
		if !d.Finalized {
			open = append(open, d)
		}
	}
	if len(open) <= s.maxDrafts {
		return
	}

	sort.Slice(open, func(i, j int) bool {
		return open[i].UpdatedAt.Before(open[j].UpdatedAt)
	})

	removeCount := len(open) - s.maxDrafts
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting stale draft",
			"draft_id", open[i].ID,
			"contractor_id", open[i].ContractorID,
			"updated_at", open[i].UpdatedAt,
		)
		delete(s.drafts, open[i].ID)
	}
}

// Count returns the number of drafts in the store
func (s *MemoryDraftStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

func encodeDraft(d model.ContractDraft) ([]byte, error) {
	d.Values = d.Values.Clone()
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return b, nil
}

func decodeDraft(b []byte) (model.ContractDraft, error) {
	var d model.ContractDraft
	if err := json.Unmarshal(b, &d); err != nil {
		return model.ContractDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	d.Values = d.Values.Clone()
	return d, nil
}
