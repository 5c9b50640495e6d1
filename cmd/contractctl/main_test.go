package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/g3lasio/owlfenc/internal/testfixture"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeValues(t *testing.T, values map[string]string) string {
	t.Helper()
	data, err := yaml.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "ca-fencing-advanced")
	assert.Contains(t, out, "default-general-basic")
}

func TestSelectCommand(t *testing.T) {
	out, err := run(t, "select", "fencing", "advanced", "-j", "California")
	require.NoError(t, err)
	assert.Contains(t, out, "ca-fencing-advanced")

	_, err = run(t, "select", "fencing", "expert")
	assert.ErrorIs(t, err, model.ErrInvalidComplexity)
}

func TestPlanCommand(t *testing.T) {
	path := writeValues(t, map[string]string{"client.phone": "555-0100"})
	out, err := run(t, "plan", "ca-fencing-advanced", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Legal Protections")
	assert.Regexp(t, `insurance\.carrier\s+critical\s+missing`, out)
	assert.Regexp(t, `client\.phone\s+critical\s+confirm`, out)

	_, err = run(t, "plan", "no-such-template")
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "ca-fencing-advanced", "-f", writeValues(t, testfixture.Flat()))
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, err = run(t, "validate", "ca-fencing-advanced", "-f", writeValues(t, testfixture.Flat("client.phone")))
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "Client phone number is required")
}

func TestValidateAcceptsNestedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"payment": {"total": 1700, "deposit": "2000"}}`), 0o600))

	out, err := run(t, "validate", "ca-fencing-basic", "-f", path)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "deposit exceeds total")
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "suggest", "-f", writeValues(t, map[string]string{"payment.total": "1700.00"}))
	require.NoError(t, err)
	assert.Regexp(t, `payment\.deposit\s+850\.00\s+95`, out)
	assert.Regexp(t, `client\.phone\s+\(needs input\)`, out)
}

func TestSuggestWithProfile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`profiles:
  - contractor_id: owl
    company_name: Owl Fence Co
    owner_name: Gil Lasio
`), 0o600))

	out, err := run(t, "suggest", "--config", cfgPath, "--contractor", "owl")
	require.NoError(t, err)
	assert.Contains(t, out, "Owl Fence Co")

	_, err = run(t, "suggest", "--config", cfgPath, "--contractor", "nobody")
	assert.Error(t, err)
}

func TestSignaturesCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "signatures.db")

	store, err := ledger.OpenSQLite(dsn)
	require.NoError(t, err)
	_, created, err := store.InsertIfAbsent(context.Background(), model.SignatureRecord{
		ContractID:    "c-1",
		SignerRole:    model.RoleContractor,
		SignerName:    "Gil Lasio",
		SignatureType: model.SignatureTyped,
		SignatureData: "Gil Lasio",
		SignedAt:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, store.Close())

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ledger:\n  driver: sqlite\n  dsn: "+dsn+"\n"), 0o600))

	out, err := run(t, "signatures", "c-1", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Gil Lasio")
	assert.Regexp(t, `status\s+contractor-signed`, out)

	out, err = run(t, "signatures", "c-2", "--config", cfgPath)
	require.NoError(t, err)
	assert.Regexp(t, `status\s+pending`, out)
}

func TestSignaturesRejectsMemoryLedger(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ledger:\n  driver: memory\n"), 0o600))

	_, err := run(t, "signatures", "c-1", "--config", cfgPath)
	assert.Error(t, err)
}
