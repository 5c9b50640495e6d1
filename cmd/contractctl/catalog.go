package main

import (
	"fmt"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/planner"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List catalog templates in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := opts.selector()
			if err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tTIER\tPROJECT TYPES\tJURISDICTIONS\tNAME")
			for _, t := range sel.Catalog().Templates() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.LegalComplexity, join(t.ProjectTypes), join(t.Jurisdictions), t.Name)
			}
			return w.Flush()
		},
	}
}

func newSelectCmd(opts *options) *cobra.Command {
	var jurisdiction string
	cmd := &cobra.Command{
		Use:   "select <project-type> <complexity>",
		Short: "Show which template a request selects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := opts.selector()
			if err != nil {
				return err
			}
			tpl, err := sel.Select(args[0], model.Complexity(args[1]), jurisdiction)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tpl.ID, tpl.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "state name or code; empty selects the defaults")
	return cmd
}

func newPlanCmd(opts *options) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "plan <template-id>",
		Short: "Print the steps and fields a template asks for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := opts.template(args[0])
			if err != nil {
				return err
			}
			known, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			w := newTable(cmd)
			for _, step := range planner.New(tpl, known).Steps {
				fmt.Fprintf(w, "%s\t\t\t\n", step.Title)
				for _, f := range step.Fields {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", f.ID, f.Importance, fieldState(f), f.Prompt)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&valuesPath, "values", "f", "", "YAML or JSON file of known values")
	return cmd
}

func fieldState(f planner.PlannedField) string {
	switch {
	case f.NeedsInput && f.MustHaveValue():
		return "missing"
	case f.NeedsInput:
		return "optional"
	case f.NeedsConfirmation:
		return "confirm"
	}
	return "ok"
}
