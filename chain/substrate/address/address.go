package address

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/vedhavyas/go-subkey/v2"
	"golang.org/x/crypto/blake2b"
)

var ss58Preimage = []byte("SS58PRE")

// Encode returns the SS58 address of a 32 byte public key
func Encode(publicKey []byte, prefix uint16) (xb.Address, error) {
	if len(publicKey) == 33 {
		publicKey = publicKey[1:]
	}
	if len(publicKey) != 32 {
		return "", errors.Wrapf(errors.ErrInvalidAddress, "expecting %d byte public key but got %d", 32, len(publicKey))
	}
	return xb.Address(subkey.SS58Encode(publicKey, prefix)), nil
}

// Decode checks the SS58 checksum and returns the account id and network prefix
func Decode(addr xb.Address) (*types.AccountID, uint16, error) {
	decoded := base58.Decode(string(addr))
	if len(decoded) < 35 {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAddress, "address %q is too short", addr)
	}
	prefixLen := 1
	prefix := uint16(decoded[0])
	if decoded[0]&0x40 != 0 {
		prefixLen = 2
		prefix = uint16(decoded[0]&0x3f)<<2 | uint16(decoded[1])>>6 | uint16(decoded[1]&0x3f)<<8
	}
	if len(decoded) != prefixLen+32+2 {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAddress, "address %q has unexpected length %d", addr, len(decoded))
	}
	payload := decoded[:prefixLen+32]
	checksum := blake2b.Sum512(append(append([]byte{}, ss58Preimage...), payload...))
	if !bytes.Equal(checksum[:2], decoded[prefixLen+32:]) {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAddress, "address %q has a bad checksum", addr)
	}
	account, err := types.NewAccountID(payload[prefixLen:])
	if err != nil {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAddress, "%s: %v", addr, err)
	}
	return account, prefix, nil
}

func DecodeMulti(addr xb.Address) (types.MultiAddress, error) {
	account, _, err := Decode(addr)
	if err != nil {
		return types.MultiAddress{}, err
	}
	multi, err := types.NewMultiAddressFromAccountID(account.ToBytes())
	if err != nil {
		return types.MultiAddress{}, fmt.Errorf("invalid address %s: %v", addr, err)
	}
	return multi, nil
}
