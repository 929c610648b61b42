package commands

import (
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm"
	"github.com/cordialsys/xbridge/chain/evm/client"
	"github.com/cordialsys/xbridge/chain/evm/tx"
	"github.com/cordialsys/xbridge/chain/evm/tx_input"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type unsignedEvmTx struct {
	*tx.Tx
	Input      *tx_input.TxInput `json:"input"`
	Sighash    hex.Hex           `json:"sighash"`
	Serialized hex.Hex           `json:"serialized"`
}

func CmdEvmTransfer() *cobra.Command {
	var f transferFlags
	priority := ""
	cmd := &cobra.Command{
		Use:   "evm-transfer",
		Short: "Build the unsigned approvals and deposit of a transfer from an EVM domain.",
		Long: "Build the unsigned approvals and deposit of a transfer from an EVM domain. " +
			"Gas of the deposit is estimated against current state, so submit the approvals first.",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gasPriority, err := xb.NewPriority(priority)
			if err != nil {
				return err
			}
			tc, err := newTransferContext(cmd, &f)
			if err != nil {
				return err
			}
			evmClient, err := client.Dial(ctx, tc.Source())
			if err != nil {
				return err
			}
			bridge, err := evm.NewTransfer(ctx, tc, evmClient, newOracle(ctx))
			if err != nil {
				return err
			}
			result, err := bridge.GetFee(ctx)
			if err != nil {
				return err
			}
			approvals, err := bridge.GetApprovalTransactions(ctx)
			if err != nil {
				return err
			}
			deposit, err := bridge.GetTransferTransaction(ctx)
			if err != nil {
				return err
			}

			all := append(approvals, deposit)
			inputs := make([]*tx_input.TxInput, len(all))
			for i, trans := range all {
				inputs[i], err = evmClient.FetchTxInput(ctx, trans, gasPriority)
				if err != nil {
					return err
				}
			}
			if err := bridge.CheckFeeLimits(ctx, all, inputs); err != nil {
				return err
			}

			txs := []unsignedEvmTx{}
			for i, trans := range all {
				input := inputs[i]
				serialized, err := trans.Serialize(input)
				if err != nil {
					return err
				}
				txs = append(txs, unsignedEvmTx{
					Tx:         trans,
					Input:      input,
					Sighash:    trans.Sighash(input),
					Serialized: serialized,
				})
				logrus.WithFields(logrus.Fields{
					"label": trans.Label,
					"nonce": input.Nonce,
					"gas":   input.GasLimit,
				}).Info("built transaction")
			}
			return printOutput(cmd.OutOrStdout(), f.format, map[string]any{
				"fee":          result,
				"stage":        tc.Stage().String(),
				"transactions": txs,
			})
		},
	}
	addTransferFlags(cmd, &f)
	cmd.Flags().StringVar(&priority, "priority", string(xb.Market), "Gas priority: low, market, aggressive, very-aggressive or a multiplier")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}
