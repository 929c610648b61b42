package tx_input

import (
	xb "github.com/cordialsys/xbridge"
)

// TxInput is the network state needed to turn a call into an EIP-1559 transaction
type TxInput struct {
	Nonce    uint64 `json:"nonce,omitempty"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
	// maxPriorityFeePerGas
	GasTipCap xb.AmountBlockchain `json:"gas_tip_cap,omitempty"`
	// maxFeePerGas
	GasFeeCap xb.AmountBlockchain `json:"gas_fee_cap,omitempty"`
	ChainId   xb.AmountBlockchain `json:"chain_id,omitempty"`
}

func NewTxInput() *TxInput {
	return &TxInput{}
}

func (input *TxInput) SetGasFeePriority(priority xb.GasFeePriority) error {
	tipCap, err := priority.Apply(input.GasTipCap)
	if err != nil {
		return err
	}
	input.GasTipCap = tipCap
	if input.GasFeeCap.Cmp(&input.GasTipCap) < 0 {
		// increase max fee cap to accomodate tip if needed
		input.GasFeeCap = input.GasTipCap
	}
	return nil
}

// GetFeeLimit is the most the transaction can spend on gas
func (input *TxInput) GetFeeLimit() xb.AmountBlockchain {
	gasLimit := xb.NewAmountBlockchainFromUint64(input.GasLimit)
	return input.GasFeeCap.Mul(&gasLimit)
}
