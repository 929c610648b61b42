package deposit

import (
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
)

type ercOptions struct {
	gas     *big.Int
	message []byte
}

type Option func(*ercOptions)

// WithMessage appends a gas limit and a message for the destination to execute after the transfer
func WithMessage(gas xb.AmountBlockchain, message []byte) Option {
	return func(o *ercOptions) {
		o.gas = gas.Int()
		o.message = message
	}
}

// ERCDepositData is the fungible and non-fungible payload:
// amount or token id, recipient length, recipient, then optionally gas, message length and message.
func ERCDepositData(amountOrID xb.AmountBlockchain, recipient []byte, options ...Option) ([]byte, error) {
	opts := ercOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if len(recipient) == 0 {
		return nil, errors.Wrapf(errors.ErrMissingField, "recipient")
	}
	amount, err := word(amountOrID.Int())
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, 64+len(recipient))
	data = append(data, amount...)
	data = append(data, lengthWord(len(recipient))...)
	data = append(data, recipient...)

	if opts.gas != nil {
		gas, err := word(opts.gas)
		if err != nil {
			return nil, err
		}
		data = append(data, gas...)
		data = append(data, lengthWord(len(opts.message))...)
		data = append(data, opts.message...)
	}
	return data, nil
}
