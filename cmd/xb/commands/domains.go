package commands

import (
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/spf13/cobra"
)

func CmdDomains() *cobra.Command {
	format := ""
	resources := false
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List the configured domains.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.UnwrapConfig(cmd.Context())
			if resources {
				doc, err := cfg.Document()
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), format, doc.Domains)
			}
			domains, err := cfg.Domains()
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), format, domains)
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&resources, "resources", false, "Include contracts and resources of each domain")
	return cmd
}
