package deposit

import (
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

var semiFungibleArguments = func() abi.Arguments {
	uintsTy, _ := abi.NewType("uint256[]", "", nil)
	bytesTy, _ := abi.NewType("bytes", "", nil)
	return abi.Arguments{{Type: uintsTy}, {Type: uintsTy}, {Type: bytesTy}, {Type: bytesTy}}
}()

// SemiFungibleDepositData is abi.encode(uint256[] ids, uint256[] amounts, bytes recipient, bytes data)
func SemiFungibleDepositData(ids []xb.AmountBlockchain, amounts []xb.AmountBlockchain, recipient []byte, data []byte) ([]byte, error) {
	if len(ids) == 0 {
		return nil, errors.Wrapf(errors.ErrMissingField, "token ids")
	}
	if len(ids) != len(amounts) {
		return nil, errors.Wrapf(errors.ErrEncoding, "%d token ids but %d amounts", len(ids), len(amounts))
	}
	if len(recipient) == 0 {
		return nil, errors.Wrapf(errors.ErrMissingField, "recipient")
	}
	idInts := make([]*big.Int, len(ids))
	amountInts := make([]*big.Int, len(amounts))
	for i := range ids {
		for _, value := range []xb.AmountBlockchain{ids[i], amounts[i]} {
			if _, err := word(value.Int()); err != nil {
				return nil, err
			}
		}
		idInts[i] = ids[i].Int()
		amountInts[i] = amounts[i].Int()
	}
	if data == nil {
		data = []byte{}
	}
	bz, err := semiFungibleArguments.Pack(idInts, amountInts, recipient, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "semi-fungible deposit: %v", err)
	}
	return bz, nil
}
