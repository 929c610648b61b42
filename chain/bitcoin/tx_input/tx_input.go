package tx_input

import (
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/go-playground/validator/v10"
)

// Utxo is an unspent output as reported by an indexer.
// Vout and Value are pointers so that a missing field is never mistaken for zero.
type Utxo struct {
	TxID  string  `json:"txid" validate:"required,len=64,hexadecimal"`
	Vout  *uint32 `json:"vout" validate:"required"`
	// at most 21 million btc
	Value *uint64 `json:"value" validate:"required,max=2100000000000000"`
}

func NewUtxo(txid string, vout uint32, value uint64) Utxo {
	return Utxo{TxID: txid, Vout: &vout, Value: &value}
}

func (u *Utxo) String() string {
	if u.Vout == nil {
		return u.TxID + ":?"
	}
	return fmt.Sprintf("%s:%d", u.TxID, *u.Vout)
}

func (u *Utxo) Amount() xb.AmountBlockchain {
	if u.Value == nil {
		return xb.NewAmountBlockchainFromUint64(0)
	}
	return xb.NewAmountBlockchainFromUint64(*u.Value)
}

var validate = validator.New()

// Validate rejects partially specified utxos
func Validate(utxos []Utxo) error {
	for i := range utxos {
		if err := validate.Struct(&utxos[i]); err != nil {
			return errors.Wrapf(errors.ErrMalformedUtxo, "utxo %d (%s): %v", i, utxos[i].String(), err)
		}
	}
	return nil
}

func SumUtxos(utxos []Utxo) xb.AmountBlockchain {
	sum := xb.NewAmountBlockchainFromUint64(0)
	for _, utxo := range utxos {
		amount := utxo.Amount()
		sum = sum.Add(&amount)
	}
	return sum
}

// SelectUtxos returns the shortest prefix of utxos whose total is strictly greater than amount.
// The order given by the caller is kept.
func SelectUtxos(utxos []Utxo, amount xb.AmountBlockchain) ([]Utxo, error) {
	if err := Validate(utxos); err != nil {
		return nil, err
	}
	sum := xb.NewAmountBlockchainFromUint64(0)
	for i := range utxos {
		value := utxos[i].Amount()
		sum = sum.Add(&value)
		if sum.Cmp(&amount) > 0 {
			return append([]Utxo(nil), utxos[:i+1]...), nil
		}
	}
	return nil, errors.Wrapf(errors.ErrInsufficientFunds, "utxos total %s but %s is required", sum.String(), amount.String())
}
