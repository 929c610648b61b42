package commands

import (
	"context"
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/bitcoin"
	"github.com/cordialsys/xbridge/chain/evm"
	evmclient "github.com/cordialsys/xbridge/chain/evm/client"
	"github.com/cordialsys/xbridge/chain/substrate"
	substrateclient "github.com/cordialsys/xbridge/chain/substrate/client"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/fee/oracle"
	"github.com/cordialsys/xbridge/transfer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type feeGetter interface {
	GetFee(ctx context.Context) (xb.Fee, error)
}

// newOracle returns nil when no oracle is configured, dynamic routes then fail with a configuration error
func newOracle(ctx context.Context) fee.Oracle {
	url := setup.UnwrapConfig(ctx).FeeOracleUrl()
	if url == "" {
		return nil
	}
	return oracle.NewClient(url, setup.HttpClient(setup.UnwrapArgs(ctx)), nil)
}

func newFeeGetter(ctx context.Context, tc *transfer.Context) (feeGetter, error) {
	switch tc.Source().Type {
	case xb.NetworkEVM:
		client, err := evmclient.Dial(ctx, tc.Source())
		if err != nil {
			return nil, err
		}
		return evm.NewTransfer(ctx, tc, client, newOracle(ctx))
	case xb.NetworkSubstrate:
		client, err := substrateclient.Dial(tc.Source())
		if err != nil {
			return nil, err
		}
		return substrate.NewTransfer(tc, client)
	case xb.NetworkBitcoin:
		return bitcoin.NewTransfer(tc)
	}
	return nil, fmt.Errorf("unsupported network %q", tc.Source().Type)
}

func CmdFee() *cobra.Command {
	var f transferFlags
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Compute the bridge fee of a transfer.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := newTransferContext(cmd, &f)
			if err != nil {
				return err
			}
			getter, err := newFeeGetter(cmd.Context(), tc)
			if err != nil {
				return err
			}
			result, err := getter.GetFee(cmd.Context())
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"route": fmt.Sprintf("%d->%d", tc.Source().ID, tc.Destination().ID),
				"type":  result.Type,
			}).Info("computed fee")
			return printOutput(cmd.OutOrStdout(), f.format, result)
		},
	}
	addTransferFlags(cmd, &f)
	return cmd
}
