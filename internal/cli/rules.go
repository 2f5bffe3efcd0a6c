package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/rule"
)

// NewRulesCmd lists the rule names accepted by --disable and rules.disabled.
func NewRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range rule.Names() {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), name))
			}

			return nil
		},
	}
}

// NewSchemaCmd prints the JSON schema of the configuration file.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := config.Schema()
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

			return nil
		},
	}
}
