// Package substrate prepares bridge transfers that start on a substrate domain
package substrate

import (
	"context"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/address"
	"github.com/cordialsys/xbridge/chain/substrate/client"
	"github.com/cordialsys/xbridge/chain/substrate/location"
	"github.com/cordialsys/xbridge/chain/substrate/tx"
	"github.com/cordialsys/xbridge/chain/substrate/tx_input"
	"github.com/cordialsys/xbridge/deposit"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/transfer"
	"github.com/sirupsen/logrus"
)

// Transfer builds the unsigned SygmaBridge.deposit extrinsic of a fungible transfer
type Transfer struct {
	*transfer.Context
	chain    client.Chain
	priority xb.GasFeePriority
}

func NewTransfer(tc *transfer.Context, chain client.Chain) (*Transfer, error) {
	if tc.Source().Type != xb.NetworkSubstrate {
		return nil, errors.Errorf(errors.ConfigurationError, "domain %d is %s, not substrate", tc.Source().ID, tc.Source().Type)
	}
	if tc.Kind() != transfer.Fungible {
		return nil, errors.Wrapf(errors.ErrResourceTypeMismatch, "substrate domains only bridge fungible assets, not %s", tc.Kind())
	}
	if len(tc.Resource().AssetLocation) == 0 {
		return nil, errors.Errorf(errors.ConfigurationError, "resource %s has no asset location", tc.Resource().ResourceID)
	}
	return &Transfer{Context: tc, chain: chain}, nil
}

// SetPriority scales the tip of the extrinsic, the default is market
func (t *Transfer) SetPriority(priority xb.GasFeePriority) {
	t.priority = priority
}

func (t *Transfer) feeRequest() fee.Request {
	return fee.Request{
		Route: fee.Route{
			Source:      t.Source().ID,
			Destination: t.Destination().ID,
			ResourceID:  t.Resource().ResourceID,
		},
		Resource: t.Resource(),
		Sender:   t.Sender(),
		Amount:   t.Amount(),
	}
}

// GetFee reads the fee pallets, the fee is taken by the bridge pallet out of the deposited amount
func (t *Transfer) GetFee(ctx context.Context) (xb.Fee, error) {
	reader := client.NewFeeReader(t.Source(), t.chain)
	result, err := fee.Calculate(ctx, reader, nil, t.feeRequest())
	if err != nil {
		return xb.Fee{}, err
	}
	t.Advance(transfer.FeeComputed)
	return result, nil
}

// GetTransferTransaction checks the free balance of the sender and builds the deposit extrinsic
func (t *Transfer) GetTransferTransaction(ctx context.Context) (*tx.Tx, error) {
	result, err := t.GetFee(ctx)
	if err != nil {
		return nil, err
	}
	amount := t.Amount()
	if amount.Cmp(&result.Fee) <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "amount %s does not cover the fee %s", amount.String(), result.Fee.String())
	}
	input, err := t.chain.FetchTxInput(ctx, t.Sender())
	if err != nil {
		return nil, err
	}
	if err := input.SetGasFeePriority(t.priority); err != nil {
		return nil, err
	}
	if err := t.checkBalance(ctx, input.GetFeeLimit()); err != nil {
		return nil, err
	}

	sender, err := address.DecodeMulti(t.Sender())
	if err != nil {
		return nil, err
	}
	destination := t.Destination()
	recipient, err := deposit.RecipientBytes(destination.Type, t.Recipient(), destination.ParachainID)
	if err != nil {
		return nil, err
	}
	dest, err := location.ForDeposit(recipient, destination.ID)
	if err != nil {
		return nil, err
	}
	asset := location.MultiAsset{
		Location: t.Resource().AssetLocation,
		Amount:   amount.Int(),
	}

	call, err := tx_input.NewCall(&input.Meta, tx_input.DepositCall, asset, dest)
	if err != nil {
		return nil, err
	}
	extrinsic, err := tx.NewTx(call, sender, input)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"resource":    t.Resource().ResourceID.String(),
		"destination": destination.ID,
		"amount":      amount.String(),
		"nonce":       input.Nonce,
		"tip":         input.Tip,
	}).Debug("built deposit extrinsic")
	t.Advance(transfer.TransferTransactionBuilt)
	return extrinsic, nil
}

// checkBalance requires the tip in free balance, plus the whole amount for native assets.
// Weight fees are not known up front so a zero balance is always refused.
func (t *Transfer) checkBalance(ctx context.Context, feeLimit xb.AmountBlockchain) error {
	account, err := client.FetchAccount(ctx, t.chain, t.Sender())
	if err != nil {
		return err
	}
	free := account.Free()
	required := feeLimit
	if t.Resource().Native {
		amount := t.Amount()
		required = required.Add(&amount)
	}
	if free.Cmp(&required) < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s free, needs %s", t.Sender(), free.String(), required.String())
	}
	if !free.IsPositive() {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s has no free %s to pay for the extrinsic", t.Sender(), t.Source().NativeTokenSymbol)
	}
	return nil
}
