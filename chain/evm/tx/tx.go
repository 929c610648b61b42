package tx

import (
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/tx_input"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Tx is an unsigned contract call. The caller signs and submits it.
type Tx struct {
	From  xb.Address          `json:"from"`
	To    xb.Address          `json:"to"`
	Data  hex.Hex             `json:"data"`
	Value xb.AmountBlockchain `json:"value"`
	// Describes what the tx does, e.g. "approve" or "deposit"
	Label string `json:"label,omitempty"`
}

func New(label string, from xb.Address, to xb.Address, data []byte, value xb.AmountBlockchain) *Tx {
	return &Tx{
		From:  from,
		To:    to,
		Data:  data,
		Value: value,
		Label: label,
	}
}

// CallMsg is used to simulate the tx or estimate its gas
func (tx *Tx) CallMsg() ethereum.CallMsg {
	to := common.HexToAddress(string(tx.To))
	return ethereum.CallMsg{
		From:  common.HexToAddress(string(tx.From)),
		To:    &to,
		Value: tx.Value.Int(),
		Data:  tx.Data,
	}
}

// BuildEthTx returns the unsigned EIP-1559 transaction
func (tx *Tx) BuildEthTx(input *tx_input.TxInput) *types.Transaction {
	to := common.HexToAddress(string(tx.To))
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   input.ChainId.Int(),
		Nonce:     input.Nonce,
		GasTipCap: input.GasTipCap.Int(),
		GasFeeCap: input.GasFeeCap.Int(),
		Gas:       input.GasLimit,
		To:        &to,
		Value:     tx.Value.Int(),
		Data:      tx.Data,
	})
}

// Sighash is the digest the sender signs
func (tx *Tx) Sighash(input *tx_input.TxInput) []byte {
	signer := types.LatestSignerForChainID(input.ChainId.Int())
	return signer.Hash(tx.BuildEthTx(input)).Bytes()
}

// Serialize returns the unsigned transaction in its typed envelope
func (tx *Tx) Serialize(input *tx_input.TxInput) ([]byte, error) {
	return tx.BuildEthTx(input).MarshalBinary()
}

func (tx *Tx) IsPayable() bool {
	return tx.Value.Int().Cmp(big.NewInt(0)) > 0
}
