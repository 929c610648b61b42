// Package deposit encodes the payloads destination handlers decode from a deposit.
// Every encoder returns either the complete payload or an error, never a partial payload.
package deposit

import (
	"math/big"

	"github.com/cordialsys/xbridge/errors"
	"github.com/holiman/uint256"
)

func word(value *big.Int) ([]byte, error) {
	if value == nil {
		return nil, errors.Wrapf(errors.ErrMissingField, "integer value")
	}
	if value.Sign() < 0 {
		return nil, errors.Wrapf(errors.ErrEncoding, "negative integer %s", value.String())
	}
	w, overflow := uint256.FromBig(value)
	if overflow {
		return nil, errors.Wrapf(errors.ErrEncoding, "%s does not fit in 256 bits", value.String())
	}
	bz := w.Bytes32()
	return bz[:], nil
}

func lengthWord(n int) []byte {
	bz := uint256.NewInt(uint64(n)).Bytes32()
	return bz[:]
}

func shortLength(name string, bz []byte) (byte, error) {
	if len(bz) > 0xff {
		return 0, errors.Wrapf(errors.ErrEncoding, "%s is %d bytes, at most 255 fit", name, len(bz))
	}
	return byte(len(bz)), nil
}
