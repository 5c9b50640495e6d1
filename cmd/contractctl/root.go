package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/internal/app"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	catalogPath string
	tieBreak    string
	configPath  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "contractctl",
		Short:         "Inspect contract templates, plans and signatures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "template catalog YAML (default: built-in)")
	root.PersistentFlags().StringVar(&opts.tieBreak, "tie-break", string(catalog.TieBreakFirstDeclared), "tie-break between equally specific templates: first_declared or lowest_id")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "server config, used for profiles and the ledger")

	root.AddCommand(
		newTemplatesCmd(opts),
		newSelectCmd(opts),
		newPlanCmd(opts),
		newValidateCmd(opts),
		newSuggestCmd(opts),
		newSignaturesCmd(opts),
	)
	return root
}

func (o *options) selector() (*catalog.Selector, error) {
	return app.LoadSelector(&config.CatalogConfig{Path: o.catalogPath, TieBreak: o.tieBreak})
}

func (o *options) template(id string) (model.ContractTemplate, error) {
	sel, err := o.selector()
	if err != nil {
		return model.ContractTemplate{}, err
	}
	tpl, ok := sel.Catalog().Get(id)
	if !ok {
		return model.ContractTemplate{}, fmt.Errorf("%w: %s", model.ErrTemplateNotFound, id)
	}
	return tpl, nil
}

// readValues loads a YAML or JSON file of contract values. Keys may be nested
// objects or dotted paths.
func readValues(path string) (fieldpath.Tree, error) {
	if path == "" {
		return fieldpath.Tree{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fieldpath.FromFlat(fieldpath.Normalize(raw).Flatten())
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func join(list []string) string {
	return strings.Join(list, ",")
}
