package commands

import (
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/cordialsys/xbridge/transfer"
	"github.com/spf13/cobra"
)

func CmdDepositData() *cobra.Command {
	var f transferFlags
	cmd := &cobra.Command{
		Use:   "deposit-data",
		Short: "Encode the deposit payload of a transfer without touching the network.",
		Long:  "Encode the deposit payload of a transfer without touching the network. Fungible payloads carry the gross amount since the fee is not known offline.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := newTransferContext(cmd, &f)
			if err != nil {
				return err
			}
			data, err := transfer.DepositData(tc, tc.Amount())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), f.format, map[string]any{
				"source":      tc.Source().ID,
				"destination": tc.Destination().ID,
				"resource_id": tc.Resource().ResourceID,
				"data":        hex.Hex(data),
			})
		},
	}
	addTransferFlags(cmd, &f)
	return cmd
}
