// Package app assembles the contract service from configuration. It is shared
// by the HTTP server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/service"
)

type App struct {
	Config   *config.Config
	Selector *catalog.Selector
	Drafts   service.DraftStore
	Records  ledger.RecordStore
	Service  *service.ContractService
}

// LoadSelector loads the configured catalog, or the built-in one when no
// path is set, and wraps it in a selector.
func LoadSelector(cfg *config.CatalogConfig) (*catalog.Selector, error) {
	c, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	tieBreak, err := catalog.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}
	return catalog.NewSelector(c, tieBreak, cfg.CacheSize)
}

// OpenRecordStore opens the signature record store named by cfg.Driver.
func OpenRecordStore(ctx context.Context, cfg *config.LedgerConfig) (ledger.RecordStore, error) {
	switch cfg.Driver {
	case config.LedgerMemory:
		return ledger.NewMemoryStore(), nil
	case config.LedgerSQLite:
		return ledger.OpenSQLite(cfg.DSN)
	case config.LedgerPostgres:
		return ledger.OpenPostgres(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
}

// OpenDraftStore keeps drafts next to the signature records: in the same
// database for the durable drivers, in memory otherwise. A contract must
// outlive a restart whenever its signatures do.
func OpenDraftStore(ctx context.Context, records ledger.RecordStore, cfg *config.StoreConfig) (service.DraftStore, error) {
	switch r := records.(type) {
	case *ledger.SQLiteStore:
		return service.NewSQLiteDraftStore(ctx, r.DB(), cfg.MaxDrafts)
	case *ledger.PostgresStore:
		return service.NewPostgresDraftStore(ctx, r.DB, cfg.MaxDrafts)
	}
	return service.NewMemoryDraftStore(cfg.MaxDrafts), nil
}

// New wires every component. Close releases the record store, which owns
// the database the draft store shares.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	sel, err := LoadSelector(&cfg.Catalog)
	if err != nil {
		return nil, err
	}

	records, err := OpenRecordStore(ctx, &cfg.Ledger)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	slog.Info("signature ledger ready", "driver", cfg.Ledger.Driver)

	drafts, err := OpenDraftStore(ctx, records, &cfg.Store)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open draft store: %w", err), records.Close())
	}

	enhancer, err := service.NewEnhancer(ctx, &cfg.Enhancer)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init enhancer: %w", err), records.Close())
	}

	var archiver service.Archiver
	if cfg.Minio.Enabled {
		store, err := service.NewArtifactStore(&cfg.Minio)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("init archive: %w", err), records.Close())
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("ensure archive bucket: %w", err), records.Close())
		}
		archiver = store
	}

	svc := service.NewContractService(service.Options{
		Selector:       sel,
		Drafts:         drafts,
		Ledger:         ledger.New(records, drafts),
		Profiles:       service.NewStaticProfiles(cfg.Profiles),
		Enhancer:       enhancer,
		EnhanceTimeout: time.Duration(cfg.Enhancer.TimeoutSeconds) * time.Second,
		Archiver:       archiver,
	})

	return &App{
		Config:   cfg,
		Selector: sel,
		Drafts:   drafts,
		Records:  records,
		Service:  svc,
	}, nil
}

func (a *App) Close() error {
	return a.Records.Close()
}
