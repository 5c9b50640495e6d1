package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/g3lasio/owlfenc/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresDraftSchema = `
CREATE TABLE IF NOT EXISTS contract_drafts (
	id            TEXT PRIMARY KEY,
	contractor_id TEXT NOT NULL,
	finalized     BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	body          JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS contract_drafts_contractor ON contract_drafts (contractor_id, created_at);`

// PostgresDraftStore keeps drafts in the Postgres database the signature
// ledger uses.
type PostgresDraftStore struct {
	db        *pgxpool.Pool
	maxDrafts int
}

// NewPostgresDraftStore creates the drafts table if needed. The caller owns db.
func NewPostgresDraftStore(ctx context.Context, db *pgxpool.Pool, maxDrafts int) (*PostgresDraftStore, error) {
	if _, err := db.Exec(ctx, postgresDraftSchema); err != nil {
		return nil, fmt.Errorf("create draft schema: %w", err)
	}
	if maxDrafts < 0 {
		maxDrafts = 0
	}
	slog.Info("draft store initialized", "driver", "postgres", "max_drafts", maxDrafts)
	return &PostgresDraftStore{db: db, maxDrafts: maxDrafts}, nil
}

func (s *PostgresDraftStore) Save(ctx context.Context, d model.ContractDraft) error {
	body, err := encodeDraft(d)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
INSERT INTO contract_drafts (id, contractor_id, finalized, created_at, updated_at, body)
VALUES ($1, $2, $3, $4, $5, $6::jsonb)
ON CONFLICT (id) DO UPDATE SET
	contractor_id = EXCLUDED.contractor_id,
	finalized     = EXCLUDED.finalized,
	created_at    = EXCLUDED.created_at,
	updated_at    = EXCLUDED.updated_at,
	body          = EXCLUDED.body
WHERE contract_drafts.finalized = false
`, d.ID, d.ContractorID, d.Finalized, d.CreatedAt.UTC(), d.UpdatedAt.UTC(), string(body))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDraftFinalized
	}

	if !d.Finalized && s.maxDrafts > 0 {
		tag, err := s.db.Exec(ctx, `
DELETE FROM contract_drafts
WHERE NOT finalized AND id IN (
	SELECT id FROM contract_drafts
	WHERE NOT finalized
	ORDER BY updated_at DESC, id DESC
	OFFSET $1
)`, s.maxDrafts)
		if err != nil {
			return fmt.Errorf("evict drafts: %w", err)
		}
		if n := tag.RowsAffected(); n > 0 {
			slog.Info("evicted stale drafts", "count", n)
		}
	}
	return nil
}

func (s *PostgresDraftStore) GetDraft(ctx context.Context, id string) (model.ContractDraft, error) {
	var body []byte
	err := s.db.QueryRow(ctx, `SELECT body FROM contract_drafts WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ContractDraft{}, model.ErrDraftNotFound
	}
	if err != nil {
		return model.ContractDraft{}, fmt.Errorf("get draft: %w", err)
	}
	return decodeDraft(body)
}

func (s *PostgresDraftStore) ListByContractor(ctx context.Context, contractorID string) ([]model.ContractDraft, error) {
	rows, err := s.db.Query(ctx, `
SELECT body FROM contract_drafts
WHERE contractor_id = $1
ORDER BY created_at DESC, id
`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := []model.ContractDraft{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		d, err := decodeDraft(body)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresDraftStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contract_drafts WHERE id = $1 AND NOT finalized`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var finalized bool
	err = s.db.QueryRow(ctx, `SELECT finalized FROM contract_drafts WHERE id = $1`, id).Scan(&finalized)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrDraftNotFound
	}
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return model.ErrDraftFinalized
}
