package location

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/cordialsys/xbridge/errors"
)

// MultiAsset is a fungible amount of the asset at an already encoded location
type MultiAsset struct {
	Location []byte
	Amount   *big.Int
}

func (a MultiAsset) Encode(encoder scale.Encoder) error {
	if len(a.Location) == 0 {
		return errors.Wrapf(errors.ErrMissingField, "asset location")
	}
	if a.Amount == nil || a.Amount.Sign() < 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "asset amount must be set and not negative")
	}
	// AssetId::Concrete
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	if err := encoder.Write(a.Location); err != nil {
		return err
	}
	// Fungibility::Fungible
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	return encoder.Encode(types.NewUCompact(a.Amount))
}

func (a MultiAsset) Bytes() ([]byte, error) {
	bz, err := codec.Encode(a)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "multiasset: %v", err)
	}
	return bz, nil
}
