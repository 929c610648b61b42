package client

import (
	"context"
	"fmt"
	"strings"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/tx"
	"github.com/cordialsys/xbridge/chain/evm/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

const DEFAULT_GAS_TIP = 3_000_000_000

// used when the node cannot estimate, e.g. because an approval is still pending
const DefaultGasLimit = 500_000

// FetchTxInput gathers nonce, fee caps and a gas estimate for an unsigned tx
func (client *Client) FetchTxInput(ctx context.Context, trans *tx.Tx, priority xb.GasFeePriority) (*tx_input.TxInput, error) {
	backend, ok := client.Backend.(InputBackend)
	if !ok {
		return nil, fmt.Errorf("backend %T cannot build transaction input", client.Backend)
	}
	from := common.HexToAddress(string(trans.From))
	result := tx_input.NewTxInput()

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Networkf(err, "nonce of %s", trans.From)
	}
	result.Nonce = nonce

	chainId, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Networkf(err, "could not lookup chain_id")
	}
	result.ChainId = xb.NewAmountBlockchainFromBig(chainId)

	latestHeader, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Networkf(err, "latest header")
	}
	gasTipCap, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		logrus.WithError(err).Debug("could not suggest gas tip, using default")
		result.GasTipCap = xb.NewAmountBlockchainFromUint64(DEFAULT_GAS_TIP)
	} else {
		result.GasTipCap = xb.NewAmountBlockchainFromBig(gasTipCap)
	}
	if latestHeader.BaseFee != nil {
		// leave room for the base fee to double
		baseFee := xb.NewAmountBlockchainFromBig(latestHeader.BaseFee)
		two := xb.NewAmountBlockchainFromUint64(2)
		result.GasFeeCap = baseFee.Mul(&two)
	}
	if err := result.SetGasFeePriority(priority); err != nil {
		return nil, err
	}
	result.GasFeeCap = result.GasFeeCap.Add(&result.GasTipCap)

	gasLimit, err := backend.EstimateGas(ctx, trans.CallMsg())
	if err != nil {
		if strings.Contains(err.Error(), "insufficient") || strings.Contains(err.Error(), "allowance") {
			logrus.WithError(err).WithField("label", trans.Label).Debug("could not estimate gas, using default limit")
			gasLimit = DefaultGasLimit
		} else {
			return nil, errors.Networkf(err, "could not simulate %s tx", trans.Label)
		}
	}
	result.GasLimit = gasLimit
	return result, nil
}
