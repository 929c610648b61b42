package commands

import (
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/bitcoin"
	"github.com/cordialsys/xbridge/chain/bitcoin/client"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdBtcTransfer() *cobra.Command {
	var f transferFlags
	publicKey := ""
	changeAddress := ""
	feeRate := ""
	priority := ""
	target := client.DefaultConfirmationTarget
	cmd := &cobra.Command{
		Use:   "btc-transfer",
		Short: "Build an unsigned PSBT depositing bitcoin into the bridge.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gasPriority, err := xb.NewPriority(priority)
			if err != nil {
				return err
			}
			key, err := parseHexFlag("public-key", publicKey)
			if err != nil {
				return err
			}
			tc, err := newTransferContext(cmd, &f)
			if err != nil {
				return err
			}
			bridge, err := bitcoin.NewTransfer(tc)
			if err != nil {
				return err
			}
			url, err := tc.Source().Rpc.LoadNonEmpty()
			if err != nil {
				return fmt.Errorf("domain %d has no indexer url: %v", tc.Source().ID, err)
			}
			indexer := client.NewClient(url, setup.HttpClient(setup.UnwrapArgs(ctx)), nil)

			var rate xb.AmountHumanReadable
			if feeRate != "" {
				rate, err = xb.NewAmountHumanReadableFromStr(feeRate)
			} else {
				rate, err = indexer.FeeRate(ctx, target)
			}
			if err != nil {
				return err
			}
			rate, err = gasPriority.ApplyRate(rate)
			if err != nil {
				return err
			}
			utxos, err := indexer.UnspentOutputs(ctx, tc.Sender())
			if err != nil {
				return err
			}
			result, err := bridge.GetFee(ctx)
			if err != nil {
				return err
			}
			deposit, err := bridge.GetTransferTransaction(ctx, utxos, rate, key, xb.Address(changeAddress))
			if err != nil {
				return err
			}
			packet, err := deposit.PsbtBase64()
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"inputs":    len(deposit.Inputs),
				"vsize":     deposit.VirtualSize,
				"fee_rate":  rate.String(),
				"miner_fee": deposit.MinerFee.String(),
			}).Info("built deposit")
			return printOutput(cmd.OutOrStdout(), f.format, map[string]any{
				"fee":          result,
				"hash":         deposit.Hash(),
				"inputs":       deposit.Inputs,
				"outputs":      deposit.Recipients,
				"miner_fee":    deposit.MinerFee,
				"virtual_size": deposit.VirtualSize,
				"psbt":         packet,
			})
		},
	}
	addTransferFlags(cmd, &f)
	cmd.Flags().StringVar(&publicKey, "public-key", "", "Hex public key of the sender, the x-only internal key for taproot")
	cmd.Flags().StringVar(&changeAddress, "change", "", "Change address, defaults to the sender")
	cmd.Flags().StringVar(&feeRate, "fee-rate", "", "Fee rate in sats per vbyte, estimated by the indexer when unset")
	cmd.Flags().IntVar(&target, "target", target, "Confirmation target in blocks for the fee estimate")
	cmd.Flags().StringVar(&priority, "priority", string(xb.Market), "Multiplier applied to the fee rate")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func CmdBtcBroadcast() *cobra.Command {
	return &cobra.Command{
		Use:   "btc-broadcast <domain> <signed-tx-hex>",
		Short: "Broadcast a signed bitcoin transaction through the domain indexer.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.UnwrapConfig(cmd.Context())
			ref, err := xb.ParseDomainRef(args[0])
			if err != nil {
				return err
			}
			domain, err := cfg.ResolveDomain(ref)
			if err != nil {
				return err
			}
			if domain.Type != xb.NetworkBitcoin {
				return fmt.Errorf("domain %d is %s, not btc", domain.ID, domain.Type)
			}
			signed, err := hex.DecodeString(args[1])
			if err != nil {
				return err
			}
			url, err := domain.Rpc.LoadNonEmpty()
			if err != nil {
				return err
			}
			txid, err := client.NewClient(url, setup.HttpClient(setup.UnwrapArgs(cmd.Context())), nil).SubmitTx(cmd.Context(), signed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txid)
			return nil
		},
	}
}
