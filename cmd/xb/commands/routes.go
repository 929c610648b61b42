package commands

import (
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/client"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/fee"
	"github.com/spf13/cobra"
)

// candidateRoutes pairs every resource of the source with each other domain that also lists it
func candidateRoutes(cfg *config.Config, source config.DomainConfig) ([]fee.Route, error) {
	domains, err := cfg.Domains()
	if err != nil {
		return nil, err
	}
	routes := []fee.Route{}
	for _, resource := range source.Resources {
		for _, destination := range domains {
			if destination.ID == source.ID {
				continue
			}
			if _, err := cfg.ResolveResource(destination.ID, xb.ResourceByID(resource.ResourceID)); err != nil {
				continue
			}
			routes = append(routes, fee.Route{
				Source:      source.ID,
				Destination: destination.ID,
				ResourceID:  resource.ResourceID,
			})
		}
	}
	return routes, nil
}

func CmdRoutes() *cobra.Command {
	format := ""
	onlyMissing := false
	cmd := &cobra.Command{
		Use:   "routes <domain>",
		Short: "Check which routes out of an EVM domain have a fee handler.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := setup.UnwrapConfig(ctx)
			ref, err := xb.ParseDomainRef(args[0])
			if err != nil {
				return err
			}
			source, err := cfg.ResolveDomain(ref)
			if err != nil {
				return err
			}
			if source.Type != xb.NetworkEVM {
				return fmt.Errorf("domain %d is %s, routes are only checked on evm", source.ID, source.Type)
			}
			routes, err := candidateRoutes(cfg, source)
			if err != nil {
				return err
			}
			evmClient, err := client.Dial(ctx, source)
			if err != nil {
				return err
			}
			statuses, err := evmClient.CheckRoutes(ctx, routes)
			if err != nil {
				return err
			}
			if onlyMissing {
				missing := []client.RouteStatus{}
				for _, status := range statuses {
					if !status.Registered() {
						missing = append(missing, status)
					}
				}
				statuses = missing
			}
			return printOutput(cmd.OutOrStdout(), format, statuses)
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&onlyMissing, "missing", false, "Only list routes without a fee handler")
	return cmd
}
