package commands

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate"
	"github.com/cordialsys/xbridge/chain/substrate/client"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdSubstrateTransfer() *cobra.Command {
	var f transferFlags
	signature := ""
	priority := ""
	cmd := &cobra.Command{
		Use:   "substrate-transfer",
		Short: "Build the deposit extrinsic of a transfer from a substrate domain.",
		Long: "Build the deposit extrinsic of a transfer from a substrate domain. " +
			"With --signature the sr25519 signature of the sighash is attached and the extrinsic is submitted.",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tipPriority, err := xb.NewPriority(priority)
			if err != nil {
				return err
			}
			tc, err := newTransferContext(cmd, &f)
			if err != nil {
				return err
			}
			substrateClient, err := client.Dial(tc.Source())
			if err != nil {
				return err
			}
			bridge, err := substrate.NewTransfer(tc, substrateClient)
			if err != nil {
				return err
			}
			bridge.SetPriority(tipPriority)
			result, err := bridge.GetFee(ctx)
			if err != nil {
				return err
			}
			extrinsic, err := bridge.GetTransferTransaction(ctx)
			if err != nil {
				return err
			}
			call, err := codec.Encode(extrinsic.Call())
			if err != nil {
				return err
			}
			sighash, err := extrinsic.Sighash()
			if err != nil {
				return err
			}

			output := map[string]any{
				"fee":     result,
				"call":    hex.Hex(call),
				"sighash": hex.Hex(sighash),
			}
			if signature != "" {
				sig, err := parseHexFlag("signature", signature)
				if err != nil {
					return err
				}
				if err := extrinsic.SetSignature(sig); err != nil {
					return err
				}
				hash, err := substrateClient.SubmitTx(ctx, extrinsic)
				if err != nil {
					return err
				}
				logrus.WithField("hash", hash).Info("submitted extrinsic")
				output["hash"] = hash
			}
			serialized, err := extrinsic.Serialize()
			if err != nil {
				return fmt.Errorf("could not serialize extrinsic: %v", err)
			}
			output["serialized"] = hex.Hex(serialized)
			return printOutput(cmd.OutOrStdout(), f.format, output)
		},
	}
	addTransferFlags(cmd, &f)
	cmd.Flags().StringVar(&priority, "priority", string(xb.Market), "Tip priority: low, market, aggressive, very-aggressive or a multiplier")
	cmd.Flags().StringVar(&signature, "signature", "", "Hex sr25519 signature over the sighash, submits the extrinsic when set")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}
