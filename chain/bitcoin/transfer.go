// Package bitcoin prepares bridge deposits that start on a bitcoin domain
package bitcoin

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/bitcoin/address"
	"github.com/cordialsys/xbridge/chain/bitcoin/params"
	"github.com/cordialsys/xbridge/chain/bitcoin/tx"
	"github.com/cordialsys/xbridge/chain/bitcoin/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/transfer"
	log "github.com/sirupsen/logrus"
)

// Transfer builds the unsigned deposit transaction of a bitcoin transfer
type Transfer struct {
	*transfer.Context
	network *chaincfg.Params
}

func NewTransfer(tc *transfer.Context) (*Transfer, error) {
	if tc.Source().Type != xb.NetworkBitcoin {
		return nil, errors.Errorf(errors.ConfigurationError, "domain %d is %s, not btc", tc.Source().ID, tc.Source().Type)
	}
	if tc.Kind() != transfer.Fungible {
		return nil, errors.Wrapf(errors.ErrResourceTypeMismatch, "bitcoin domains only bridge fungible assets, not %s", tc.Kind())
	}
	network, err := params.GetParams(tc.Source().Domain)
	if err != nil {
		return nil, err
	}
	if tc.Resource().Address == "" {
		return nil, errors.Errorf(errors.ConfigurationError, "resource %s has no bridge address", tc.Resource().ResourceID)
	}
	return &Transfer{Context: tc, network: network}, nil
}

func (t *Transfer) Network() *chaincfg.Params {
	return t.network
}

// GetFee prices the transfer from the fee settings of the resource
func (t *Transfer) GetFee(ctx context.Context) (xb.Fee, error) {
	req := fee.Request{
		Route: fee.Route{
			Source:      t.Source().ID,
			Destination: t.Destination().ID,
			ResourceID:  t.Resource().ResourceID,
		},
		Resource: t.Resource(),
		Sender:   t.Sender(),
		Amount:   t.Amount(),
	}
	result, err := fee.Calculate(ctx, NewFeeReader(t.Source()), nil, req)
	if err != nil {
		return xb.Fee{}, err
	}
	t.Advance(transfer.FeeComputed)
	return result, nil
}

// GetTransferTransaction spends utxos of the sender, whose address type decides how inputs are signed.
// publicKey is the compressed key for segwit senders and the internal key for taproot senders.
// feeRate is in sats per vbyte.
func (t *Transfer) GetTransferTransaction(ctx context.Context, utxos []tx_input.Utxo, feeRate xb.AmountHumanReadable, publicKey []byte, changeAddress xb.Address) (*tx.Tx, error) {
	result, err := t.GetFee(ctx)
	if err != nil {
		return nil, err
	}
	sender, err := address.Decode(t.Sender(), t.network)
	if err != nil {
		return nil, err
	}
	addressType, err := address.TypeOf(sender)
	if err != nil {
		return nil, err
	}
	if changeAddress == "" {
		changeAddress = t.Sender()
	}
	deposit, err := tx.Build(tx.Params{
		Network:            t.network,
		PublicKey:          publicKey,
		AddressType:        addressType,
		Utxos:              utxos,
		Amount:             result.NetAmount,
		FeeAmount:          result.Fee,
		FeeRate:            feeRate,
		BridgeAddress:      t.Resource().Address,
		FeeAddress:         result.HandlerAddress,
		ChangeAddress:      changeAddress,
		DestinationAddress: t.Recipient(),
		DestinationDomain:  t.Destination().ID,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"resource":    t.Resource().ResourceID.String(),
		"destination": t.Destination().ID,
		"fee":         result.Fee.String(),
		"miner_fee":   deposit.MinerFee.String(),
	}).Debug("built bitcoin deposit")
	t.Advance(transfer.TransferTransactionBuilt)
	return deposit, nil
}
