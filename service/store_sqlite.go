package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/g3lasio/owlfenc/model"
)

var sqliteDraftSchema = []string{`
CREATE TABLE IF NOT EXISTS contract_drafts (
	id            TEXT PRIMARY KEY,
	contractor_id TEXT NOT NULL,
	finalized     INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL,
	body          TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS contract_drafts_contractor ON contract_drafts (contractor_id, created_at)`,
}

// SQLiteDraftStore keeps drafts in the SQLite database the signature ledger
// uses, so contracts and their signatures survive restarts together.
// Timestamps are stored as Unix microseconds.
type SQLiteDraftStore struct {
	db        *sql.DB
	maxDrafts int
}

// NewSQLiteDraftStore creates the drafts table in db if needed. The caller
// owns db.
func NewSQLiteDraftStore(ctx context.Context, db *sql.DB, maxDrafts int) (*SQLiteDraftStore, error) {
	for _, stmt := range sqliteDraftSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create draft schema: %w", err)
		}
	}
	if maxDrafts < 0 {
		maxDrafts = 0
	}
	slog.Info("draft store initialized", "driver", "sqlite", "max_drafts", maxDrafts)
	return &SQLiteDraftStore{db: db, maxDrafts: maxDrafts}, nil
}

func (s *SQLiteDraftStore) Save(ctx context.Context, d model.ContractDraft) error {
	body, err := encodeDraft(d)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO contract_drafts (id, contractor_id, finalized, created_at, updated_at, body)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	contractor_id = excluded.contractor_id,
	finalized     = excluded.finalized,
	created_at    = excluded.created_at,
	updated_at    = excluded.updated_at,
	body          = excluded.body
WHERE contract_drafts.finalized = 0`,
		d.ID, d.ContractorID, d.Finalized, d.CreatedAt.UnixMicro(), d.UpdatedAt.UnixMicro(), string(body))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrDraftFinalized
	}

	if !d.Finalized && s.maxDrafts > 0 {
		return s.evict(ctx)
	}
	return nil
}

// evict removes the oldest unfinalized drafts beyond maxDrafts.
func (s *SQLiteDraftStore) evict(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM contract_drafts
WHERE finalized = 0 AND id IN (
	SELECT id FROM contract_drafts
	WHERE finalized = 0
	ORDER BY updated_at DESC, id DESC
	LIMIT -1 OFFSET ?
)`, s.maxDrafts)
	if err != nil {
		return fmt.Errorf("evict drafts: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("evicted stale drafts", "count", n)
	}
	return nil
}

func (s *SQLiteDraftStore) GetDraft(ctx context.Context, id string) (model.ContractDraft, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM contract_drafts WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContractDraft{}, model.ErrDraftNotFound
	}
	if err != nil {
		return model.ContractDraft{}, fmt.Errorf("get draft: %w", err)
	}
	return decodeDraft([]byte(body))
}

func (s *SQLiteDraftStore) ListByContractor(ctx context.Context, contractorID string) ([]model.ContractDraft, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT body FROM contract_drafts
WHERE contractor_id = ?
ORDER BY created_at DESC, id`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := []model.ContractDraft{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		d, err := decodeDraft([]byte(body))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteDraftStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contract_drafts WHERE id = ? AND finalized = 0`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	var finalized bool
	err = s.db.QueryRowContext(ctx, `SELECT finalized FROM contract_drafts WHERE id = ?`, id).Scan(&finalized)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrDraftNotFound
	}
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return model.ErrDraftFinalized
}
