package tx_input

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xb "github.com/cordialsys/xbridge"
)

// TxInput is the chain state an extrinsic is built against
type TxInput struct {
	Meta          Metadata             `json:"meta,omitempty"`
	GenesisHash   types.Hash           `json:"genesis_hash,omitempty"`
	CurHash       types.Hash           `json:"current_hash,omitempty"`
	Rv            types.RuntimeVersion `json:"runtime_version,omitempty"`
	CurrentHeight uint64               `json:"current_height,omitempty"`
	Tip           uint64               `json:"tip,omitempty"`
	Nonce         uint64               `json:"account_nonce,omitempty"`
}

func NewTxInput() *TxInput {
	return &TxInput{}
}

func (input *TxInput) SetGasFeePriority(priority xb.GasFeePriority) error {
	tip, err := priority.Apply(xb.NewAmountBlockchainFromUint64(input.Tip))
	if err != nil {
		return err
	}
	input.Tip = tip.Uint64()
	return nil
}

// GetFeeLimit is only the tip, the weight fee is charged by the runtime
func (input *TxInput) GetFeeLimit() xb.AmountBlockchain {
	return xb.NewAmountBlockchainFromUint64(input.Tip)
}
