package address

import (
	"fmt"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
)

type AddressType string

const (
	AddressTypeSegWit  AddressType = "segwit"
	AddressTypeTaproot AddressType = "taproot"
)

func Decode(addr xb.Address, params *chaincfg.Params) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(string(addr), params)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAddress, "%s: %v", addr, err)
	}
	if !decoded.IsForNet(params) {
		return nil, errors.Wrapf(errors.ErrInvalidAddress, "%s is not a %s address", addr, params.Name)
	}
	return decoded, nil
}

// TypeOf only recognizes the witness address types deposits can be made from
func TypeOf(addr btcutil.Address) (AddressType, error) {
	switch addr.(type) {
	case *btcutil.AddressWitnessPubKeyHash:
		return AddressTypeSegWit, nil
	case *btcutil.AddressTaproot:
		return AddressTypeTaproot, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedAddressType, "%T", addr)
}

// PayToAddress returns the output script for an address string
func PayToAddress(addr xb.Address, params *chaincfg.Params) ([]byte, error) {
	decoded, err := Decode(addr, params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(decoded)
}

func GetSegWitAddress(publicKey []byte, params *chaincfg.Params) (xb.Address, error) {
	pubkey, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidAddress, "invalid public key: %v", err)
	}
	hash := btcutil.Hash160(pubkey.SerializeCompressed())
	address, err := btcutil.NewAddressWitnessPubKeyHash(hash, params)
	if err != nil {
		return "", err
	}
	return xb.Address(address.EncodeAddress()), nil
}

// ParseInternalKey accepts a 32 byte x-only key or a 33 byte compressed key
func ParseInternalKey(publicKey []byte) (*btcec.PublicKey, error) {
	switch len(publicKey) {
	case 32:
		return schnorr.ParsePubKey(publicKey)
	case 33:
		return schnorr.ParsePubKey(publicKey[1:])
	}
	return nil, fmt.Errorf("invalid key length, taproot only supports compressed public keys (32/33 bytes), got: %d", len(publicKey))
}

// GetTaprootAddress derives the BIP86 key-path-only address for an internal key
func GetTaprootAddress(internalKey []byte, params *chaincfg.Params) (xb.Address, error) {
	key, err := ParseInternalKey(internalKey)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidAddress, "%v", err)
	}
	outputKey := txscript.ComputeTaprootKeyNoScript(key)
	address, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return "", err
	}
	return xb.Address(address.EncodeAddress()), nil
}
