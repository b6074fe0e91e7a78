package main

import (
	"github.com/evdnx/solid/strategy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newParamsCmd(a *app) *cobra.Command {
	var valuesOnly bool
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the tunable parameters with their current values",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.paramSet()
			if err != nil {
				return err
			}
			var doc interface{} = set
			if valuesOnly {
				doc = set.Current()
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(doc)
		},
	}
	cmd.Flags().BoolVar(&valuesOnly, "values", false, "print only the values, in overlay file layout")
	return cmd
}

func newProtectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "protections",
		Short: "Print the account-level protections for the current parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.strategyConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(strategy.Protections(cfg))
		},
	}
}
