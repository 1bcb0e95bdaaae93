package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/stsysd/calheat/model"
	"gopkg.in/yaml.v3"
)

// NewOptionsCommand creates the 'options' subcommand that prints the default chart options.
func NewOptionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the default chart options",
		Long: `Print the default chart options. The output can be edited and passed to
'calheat render --options'. Keys that are left out keep their default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := model.DefaultVisConfig()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}
