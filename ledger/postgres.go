package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/g3lasio/owlfenc/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS signature_records (
	contract_id    TEXT NOT NULL,
	signer_role    TEXT NOT NULL CHECK (signer_role IN ('contractor', 'client')),
	signer_name    TEXT NOT NULL,
	signature_type TEXT NOT NULL CHECK (signature_type IN ('drawn', 'typed')),
	signature_data TEXT NOT NULL,
	signed_at      TIMESTAMPTZ NOT NULL,
	metadata       JSONB NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (contract_id, signer_role)
);`

// PostgresStore keeps records in Postgres.
type PostgresStore struct {
	DB *pgxpool.Pool
}

// OpenPostgres connects to dsn and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{DB: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertIfAbsent(ctx context.Context, rec model.SignatureRecord) (model.SignatureRecord, bool, error) {
	md, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return model.SignatureRecord{}, false, err
	}

	var inserted string
	err = s.DB.QueryRow(ctx, `
INSERT INTO signature_records (contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
ON CONFLICT (contract_id, signer_role) DO NOTHING
RETURNING contract_id
`, rec.ContractID, string(rec.SignerRole), rec.SignerName, string(rec.SignatureType), rec.SignatureData, rec.SignedAt.UTC(), md).Scan(&inserted)
	created := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.SignatureRecord{}, false, fmt.Errorf("insert signature: %w", err)
		}
		created = false
	}

	stored, err := s.get(ctx, rec.ContractID, rec.SignerRole)
	if err != nil {
		return model.SignatureRecord{}, false, err
	}
	return stored, created, nil
}

func (s *PostgresStore) get(ctx context.Context, contractID string, role model.SignerRole) (model.SignatureRecord, error) {
	row := s.DB.QueryRow(ctx, `
SELECT contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata::text
FROM signature_records
WHERE contract_id = $1 AND signer_role = $2
`, contractID, string(role))
	rec, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SignatureRecord{}, fmt.Errorf("signature for %s/%s vanished after insert", contractID, role)
	}
	return rec, err
}

func (s *PostgresStore) List(ctx context.Context, contractID string) ([]model.SignatureRecord, error) {
	rows, err := s.DB.Query(ctx, `
SELECT contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata::text
FROM signature_records
WHERE contract_id = $1
ORDER BY signer_role
`, contractID)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	var out []model.SignatureRecord
	for rows.Next() {
		rec, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.DB.Close()
	return nil
}

func scanPostgres(row pgx.Row) (model.SignatureRecord, error) {
	var (
		rec       model.SignatureRecord
		role, typ string
		md        string
	)
	if err := row.Scan(&rec.ContractID, &role, &rec.SignerName, &typ, &rec.SignatureData, &rec.SignedAt, &md); err != nil {
		return model.SignatureRecord{}, err
	}
	rec.SignerRole = model.SignerRole(role)
	rec.SignatureType = model.SignatureType(typ)

	var err error
	if rec.Metadata, err = decodeMetadata([]byte(md)); err != nil {
		return model.SignatureRecord{}, err
	}
	return rec, nil
}
