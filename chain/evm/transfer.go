// Package evm prepares bridge transfers that start on an EVM domain
package evm

import (
	"context"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/client"
	"github.com/cordialsys/xbridge/chain/evm/tx"
	"github.com/cordialsys/xbridge/chain/evm/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/transfer"
	"github.com/sirupsen/logrus"
)

// Transfer builds the unsigned approval and deposit transactions of a transfer
type Transfer struct {
	*transfer.Context
	client *client.Client
	oracle fee.Oracle
}

// NewTransfer fails with ErrHandlerNotRegistered when the bridge has no handler for the resource.
// oracle may be nil when no route of the transfer uses a dynamic fee.
func NewTransfer(ctx context.Context, tc *transfer.Context, evmClient *client.Client, oracle fee.Oracle) (*Transfer, error) {
	if tc.Source().Type != xb.NetworkEVM {
		return nil, errors.Errorf(errors.ConfigurationError, "domain %d is %s, not evm", tc.Source().ID, tc.Source().Type)
	}
	if evmClient.Domain.ID != tc.Source().ID {
		return nil, errors.Errorf(errors.ConfigurationError, "client is for domain %d but the transfer starts on %d", evmClient.Domain.ID, tc.Source().ID)
	}
	t := &Transfer{
		Context: tc,
		client:  evmClient,
		oracle:  oracle,
	}
	if _, err := t.assetHandler(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transfer) assetHandler(ctx context.Context) (xb.Address, error) {
	handler, err := t.client.HandlerAddress(ctx, t.Resource().ResourceID)
	if err != nil {
		return "", err
	}
	if handler == "" {
		return "", errors.Wrapf(errors.ErrHandlerNotRegistered, "resource %s on domain %d", t.Resource().ResourceID, t.Source().ID)
	}
	return handler, nil
}

func (t *Transfer) feeRequest() (fee.Request, error) {
	req := fee.Request{
		Route: fee.Route{
			Source:      t.Source().ID,
			Destination: t.Destination().ID,
			ResourceID:  t.Resource().ResourceID,
		},
		Resource: t.Resource(),
		Sender:   t.Sender(),
	}
	if t.Kind() == transfer.Fungible {
		req.Amount = t.Amount()
	}
	data, err := transfer.DepositData(t.Context, req.Amount)
	if err != nil {
		return fee.Request{}, err
	}
	req.DepositData = data
	return req, nil
}

// GetFee computes the fee for the current amount, it is never reused between calls
func (t *Transfer) GetFee(ctx context.Context) (xb.Fee, error) {
	req, err := t.feeRequest()
	if err != nil {
		return xb.Fee{}, err
	}
	result, err := fee.Calculate(ctx, t.client.FeeReader(), t.oracle, req)
	if err != nil {
		return xb.Fee{}, err
	}
	t.Advance(transfer.FeeComputed)
	return result, nil
}

// GetApprovalTransactions returns the approvals still missing, at most one for the fee and one for the asset
func (t *Transfer) GetApprovalTransactions(ctx context.Context) ([]*tx.Tx, error) {
	result, err := t.GetFee(ctx)
	if err != nil {
		return nil, err
	}
	handler, err := t.assetHandler(ctx)
	if err != nil {
		return nil, err
	}
	sender := t.Sender()
	resource := t.Resource()
	approvals := []*tx.Tx{}

	if !result.IsNative() && result.Fee.IsPositive() {
		allowance, err := t.client.Allowance(ctx, result.TokenAddress, sender, result.HandlerAddress)
		if err != nil {
			return nil, err
		}
		if allowance.Cmp(&result.Fee) < 0 {
			approval, err := tx.ApproveERC20(sender, result.TokenAddress, result.HandlerAddress, result.Fee)
			if err != nil {
				return nil, err
			}
			approvals = append(approvals, approval)
		}
	}

	switch t.Kind() {
	case transfer.Fungible:
		if resource.Native {
			break
		}
		allowance, err := t.client.Allowance(ctx, resource.Address, sender, handler)
		if err != nil {
			return nil, err
		}
		if allowance.Cmp(&result.NetAmount) < 0 {
			approval, err := tx.ApproveERC20(sender, resource.Address, handler, result.NetAmount)
			if err != nil {
				return nil, err
			}
			approvals = append(approvals, approval)
		}
	case transfer.NonFungible:
		approved, err := t.client.GetApproved(ctx, resource.Address, t.TokenID())
		if err != nil {
			return nil, err
		}
		if !approved.EqualFold(handler) {
			approval, err := tx.ApproveERC721(sender, resource.Address, handler, t.TokenID())
			if err != nil {
				return nil, err
			}
			approvals = append(approvals, approval)
		}
	case transfer.SemiFungible:
		approved, err := t.client.IsApprovedForAll(ctx, resource.Address, sender, handler)
		if err != nil {
			return nil, err
		}
		if !approved {
			approval, err := tx.SetApprovalForAll(sender, resource.Address, handler)
			if err != nil {
				return nil, err
			}
			approvals = append(approvals, approval)
		}
	}

	logrus.WithFields(logrus.Fields{
		"resource":  resource.ResourceID.String(),
		"approvals": len(approvals),
	}).Debug("built approvals")
	t.Advance(transfer.ApprovalsBuilt)
	return approvals, nil
}

// GetTransferTransaction checks the sender can afford the transfer and builds the deposit
func (t *Transfer) GetTransferTransaction(ctx context.Context) (*tx.Tx, error) {
	result, err := t.GetFee(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.checkBalances(ctx, result); err != nil {
		return nil, err
	}
	data, err := transfer.DepositData(t.Context, result.NetAmount)
	if err != nil {
		return nil, err
	}
	deposit, err := tx.Deposit(t.Sender(), t.Source().Bridge, t.Destination().ID, t.Resource().ResourceID, data, result.FeeData, t.value(result))
	if err != nil {
		return nil, err
	}
	t.Advance(transfer.TransferTransactionBuilt)
	return deposit, nil
}

// value is the native currency sent along: native fees and native transfer amounts
func (t *Transfer) value(result xb.Fee) xb.AmountBlockchain {
	value := xb.NewAmountBlockchainFromUint64(0)
	if result.IsNative() {
		value = value.Add(&result.Fee)
	}
	if t.Kind() == transfer.Fungible && t.Resource().Native {
		value = value.Add(&result.NetAmount)
	}
	return value
}

// CheckFeeLimits requires the sender to hold the value of every tx plus its worst case gas spend.
// inputs are the fetched inputs of txs, in the same order.
func (t *Transfer) CheckFeeLimits(ctx context.Context, txs []*tx.Tx, inputs []*tx_input.TxInput) error {
	if len(txs) != len(inputs) {
		return errors.Errorf(errors.ConfigurationError, "%d transactions but %d inputs", len(txs), len(inputs))
	}
	required := xb.NewAmountBlockchainFromUint64(0)
	for i, trans := range txs {
		limit := inputs[i].GetFeeLimit()
		required = required.Add(&limit)
		required = required.Add(&trans.Value)
	}
	balance, err := t.client.NativeBalance(ctx, t.Sender())
	if err != nil {
		return err
	}
	if balance.Cmp(&required) < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s native, needs %s including gas", t.Sender(), balance.String(), required.String())
	}
	return nil
}

func (t *Transfer) checkBalances(ctx context.Context, result xb.Fee) error {
	sender := t.Sender()
	resource := t.Resource()

	value := t.value(result)
	if value.IsPositive() {
		balance, err := t.client.NativeBalance(ctx, sender)
		if err != nil {
			return err
		}
		if balance.Cmp(&value) < 0 {
			return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s native, needs %s", sender, balance.String(), value.String())
		}
	}

	switch t.Kind() {
	case transfer.Fungible:
		if resource.Native {
			return nil
		}
		required := result.NetAmount
		if !result.IsNative() && result.TokenAddress.EqualFold(resource.Address) {
			required = required.Add(&result.Fee)
		}
		balance, err := t.client.TokenBalance(ctx, resource.Address, sender)
		if err != nil {
			return err
		}
		if balance.Cmp(&required) < 0 {
			return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s %s, needs %s", sender, balance.String(), resource.Symbol, required.String())
		}
	case transfer.NonFungible:
		owner, err := t.client.OwnerOf(ctx, resource.Address, t.TokenID())
		if err != nil {
			return err
		}
		if !owner.EqualFold(sender) {
			return errors.Wrapf(errors.ErrInsufficientBalance, "token %s of %s is owned by %s", t.TokenID().String(), resource.Symbol, owner)
		}
	case transfer.SemiFungible:
		params := t.Params()
		for i, id := range params.TokenIDs {
			balance, err := t.client.SemiFungibleBalance(ctx, resource.Address, sender, id)
			if err != nil {
				return err
			}
			if balance.Cmp(&params.Amounts[i]) < 0 {
				return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s of token %s, needs %s", sender, balance.String(), id.String(), params.Amounts[i].String())
			}
		}
	}
	return nil
}
