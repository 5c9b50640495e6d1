package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/g3lasio/owlfenc/model"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS signature_records (
	contract_id    TEXT NOT NULL,
	signer_role    TEXT NOT NULL,
	signer_name    TEXT NOT NULL,
	signature_type TEXT NOT NULL,
	signature_data TEXT NOT NULL,
	signed_at      TEXT NOT NULL,
	metadata       TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (contract_id, signer_role)
);`

// SQLiteStore keeps records in an embedded SQLite database. The primary key
// on (contract_id, signer_role) makes insert-if-absent atomic.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, rec model.SignatureRecord) (model.SignatureRecord, bool, error) {
	md, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return model.SignatureRecord{}, false, err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO signature_records (contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (contract_id, signer_role) DO NOTHING`,
		rec.ContractID, string(rec.SignerRole), rec.SignerName, string(rec.SignatureType), rec.SignatureData,
		rec.SignedAt.UTC().Format(time.RFC3339Nano), md)
	if err != nil {
		return model.SignatureRecord{}, false, fmt.Errorf("insert signature: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.SignatureRecord{}, false, err
	}

	stored, err := s.get(ctx, rec.ContractID, rec.SignerRole)
	if err != nil {
		return model.SignatureRecord{}, false, err
	}
	return stored, n == 1, nil
}

func (s *SQLiteStore) get(ctx context.Context, contractID string, role model.SignerRole) (model.SignatureRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata
FROM signature_records
WHERE contract_id = ? AND signer_role = ?`, contractID, string(role))
	rec, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SignatureRecord{}, fmt.Errorf("signature for %s/%s vanished after insert", contractID, role)
	}
	return rec, err
}

func (s *SQLiteStore) List(ctx context.Context, contractID string) ([]model.SignatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT contract_id, signer_role, signer_name, signature_type, signature_data, signed_at, metadata
FROM signature_records
WHERE contract_id = ?
ORDER BY signer_role`, contractID)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	var out []model.SignatureRecord
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DB exposes the underlying database so other tables can share the file.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (model.SignatureRecord, error) {
	var (
		rec               model.SignatureRecord
		role, typ, at, md string
	)
	if err := row.Scan(&rec.ContractID, &role, &rec.SignerName, &typ, &rec.SignatureData, &at, &md); err != nil {
		return model.SignatureRecord{}, err
	}
	rec.SignerRole = model.SignerRole(role)
	rec.SignatureType = model.SignatureType(typ)

	signedAt, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return model.SignatureRecord{}, fmt.Errorf("parse signed_at: %w", err)
	}
	rec.SignedAt = signedAt

	if rec.Metadata, err = decodeMetadata([]byte(md)); err != nil {
		return model.SignatureRecord{}, err
	}
	return rec, nil
}

func encodeMetadata(md map[string]string) (string, error) {
	if md == nil {
		md = map[string]string{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func decodeMetadata(b []byte) (map[string]string, error) {
	var md map[string]string
	if err := json.Unmarshal(b, &md); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if len(md) == 0 {
		return nil, nil
	}
	return md, nil
}
