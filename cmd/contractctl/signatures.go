package main

import (
	"fmt"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/internal/app"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/spf13/cobra"
)

func newSignaturesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "signatures <contract-id>",
		Short: "Show the stored signatures and status of a contract",
		Long:  "Reads the ledger configured in --config. Only durable drivers (sqlite, postgres) hold data outside the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.Ledger.Driver == config.LedgerMemory {
				return fmt.Errorf("ledger driver %q keeps no data outside the server", cfg.Ledger.Driver)
			}

			store, err := app.OpenRecordStore(cmd.Context(), &cfg.Ledger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSignatures(cmd, records)
		},
	}
}

func printSignatures(cmd *cobra.Command, records []model.SignatureRecord) error {
	var contractor, client *model.SignatureRecord
	w := newTable(cmd)
	for i := range records {
		rec := &records[i]
		switch rec.SignerRole {
		case model.RoleContractor:
			contractor = rec
		case model.RoleClient:
			client = rec
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.SignerRole, rec.SignerName, rec.SignatureType, rec.SignedAt.Format("2006-01-02 15:04:05Z07:00"))
	}
	fmt.Fprintf(w, "status\t%s\t\t\n", ledger.Resolve(contractor, client))
	return w.Flush()
}
