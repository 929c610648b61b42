package deposit

import (
	"unicode/utf8"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/location"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/common"
)

// RecipientBytes encodes a recipient the way handlers on the destination network expect it
func RecipientBytes(network xb.NetworkType, recipient string, parachainID uint32) ([]byte, error) {
	if recipient == "" {
		return nil, errors.Wrapf(errors.ErrMissingField, "recipient")
	}
	switch network {
	case xb.NetworkEVM:
		if !common.IsHexAddress(recipient) {
			return nil, errors.Wrapf(errors.ErrInvalidAddress, "%q is not an evm address", recipient)
		}
		return common.HexToAddress(recipient).Bytes(), nil
	case xb.NetworkSubstrate:
		loc, err := location.ForAccount(xb.Address(recipient), parachainID)
		if err != nil {
			return nil, err
		}
		return loc.Bytes()
	case xb.NetworkBitcoin:
		if !utf8.ValidString(recipient) {
			return nil, errors.Wrapf(errors.ErrInvalidAddress, "%q is not valid utf-8", recipient)
		}
		return []byte(recipient), nil
	}
	return nil, errors.Wrapf(errors.ErrUnsupportedAddressType, "network %q", network)
}
