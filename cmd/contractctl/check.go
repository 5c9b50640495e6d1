package main

import (
	"errors"
	"fmt"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/suggest"
	"github.com/g3lasio/owlfenc/validation"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("contract values have blocking errors")

func newValidateCmd(opts *options) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "validate <template-id>",
		Short: "Validate a values file against a template",
		Long:  "Validate prints errors, warnings and suggestions and exits non-zero when any error blocks the contract.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := opts.template(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			res := validation.Validate(model.ContractDraft{TemplateID: tpl.ID, Values: values}, tpl)
			w := newTable(cmd)
			for _, group := range []struct {
				label  string
				issues []validation.Issue
			}{
				{"error", res.Errors},
				{"warning", res.Warnings},
				{"suggestion", res.Suggestions},
			} {
				for _, is := range group.issues {
					fmt.Fprintf(w, "%s\t%s\t%s\n", group.label, is.Path, is.Message)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !res.IsValid {
				return fmt.Errorf("%w: %d", errInvalid, len(res.Errors))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", "YAML or JSON file of contract values")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	var (
		valuesPath   string
		contractorID string
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print suggestions for a values file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			var profile model.ContractorProfile
			if contractorID != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				p, ok := cfg.FindProfile(contractorID)
				if !ok {
					return fmt.Errorf("no profile for contractor %q in %s", contractorID, opts.configPath)
				}
				profile = p
			}

			list := suggest.NewEngine().Suggest(model.ContractDraft{Values: values}, profile)
			w := newTable(cmd)
			fmt.Fprintln(w, "PATH\tVALUE\tCONFIDENCE\tREASON")
			for _, s := range list {
				value := s.Value
				if s.IsFlag() {
					value = "(needs input)"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Path, value, s.Confidence, s.Reason)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", "YAML or JSON file of contract values")
	cmd.Flags().StringVar(&contractorID, "contractor", "", "contractor whose profile feeds suggestions (read from --config)")
	return cmd
}
