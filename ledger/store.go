package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/g3lasio/owlfenc/model"
)

// RecordStore persists signature records keyed by (contract id, role).
type RecordStore interface {
	// InsertIfAbsent atomically stores rec unless its key already holds a
	// record. It returns the record now stored under the key and whether
	// this call created it.
	InsertIfAbsent(ctx context.Context, rec model.SignatureRecord) (model.SignatureRecord, bool, error)
	// List returns the records of a contract ordered by role.
	List(ctx context.Context, contractID string) ([]model.SignatureRecord, error)
	Close() error
}

type recordKey struct {
	contractID string
	role       model.SignerRole
}

// MemoryStore is a process-local RecordStore.
type MemoryStore struct {
	mu      sync.Mutex
	records map[recordKey]model.SignatureRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]model.SignatureRecord)}
}

func (s *MemoryStore) InsertIfAbsent(_ context.Context, rec model.SignatureRecord) (model.SignatureRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{rec.ContractID, rec.SignerRole}
	if existing, ok := s.records[key]; ok {
		return cloneRecord(existing), false, nil
	}
	rec = cloneRecord(rec)
	s.records[key] = rec
	return cloneRecord(rec), true, nil
}

func (s *MemoryStore) List(_ context.Context, contractID string) ([]model.SignatureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.SignatureRecord
	for key, rec := range s.records {
		if key.contractID == contractID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SignerRole < out[j].SignerRole })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneRecord(rec model.SignatureRecord) model.SignatureRecord {
	if rec.Metadata != nil {
		md := make(map[string]string, len(rec.Metadata))
		for k, v := range rec.Metadata {
			md[k] = v
		}
		rec.Metadata = md
	}
	return rec
}
