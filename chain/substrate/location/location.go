package location

import (
	"encoding/json"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/address"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/pkg/hex"
)

type JunctionKind uint8

// variant indexes of the xcm Junction enum
const (
	JunctionParachain   JunctionKind = 0
	JunctionAccountId32 JunctionKind = 1
	JunctionGeneralKey  JunctionKind = 6
)

// X1 to X8
const MaxJunctions = 8

type Junction struct {
	Kind      JunctionKind
	Parachain uint32
	AccountID [32]byte
	// GeneralKey data, at most 32 bytes
	Key []byte
}

func Parachain(id uint32) Junction {
	return Junction{Kind: JunctionParachain, Parachain: id}
}

func AccountId32(id [32]byte) Junction {
	return Junction{Kind: JunctionAccountId32, AccountID: id}
}

func GeneralKey(key []byte) (Junction, error) {
	if len(key) > 32 {
		return Junction{}, errors.Wrapf(errors.ErrEncoding, "general key is %d bytes, at most 32 fit", len(key))
	}
	return Junction{Kind: JunctionGeneralKey, Key: append([]byte(nil), key...)}, nil
}

func (j Junction) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(byte(j.Kind)); err != nil {
		return err
	}
	switch j.Kind {
	case JunctionParachain:
		return encoder.Encode(types.NewUCompactFromUInt(uint64(j.Parachain)))
	case JunctionAccountId32:
		// network: any
		if err := encoder.PushByte(0); err != nil {
			return err
		}
		return encoder.Write(j.AccountID[:])
	case JunctionGeneralKey:
		if err := encoder.PushByte(byte(len(j.Key))); err != nil {
			return err
		}
		var data [32]byte
		copy(data[:], j.Key)
		return encoder.Write(data[:])
	}
	return errors.Wrapf(errors.ErrEncoding, "unsupported junction %d", j.Kind)
}

func (j Junction) MarshalJSON() ([]byte, error) {
	switch j.Kind {
	case JunctionParachain:
		return json.Marshal(map[string]uint32{"parachain": j.Parachain})
	case JunctionAccountId32:
		return json.Marshal(map[string]any{
			"AccountId32": map[string]any{
				"network": map[string]any{"any": nil},
				"id":      hex.Hex(j.AccountID[:]).String(),
			},
		})
	case JunctionGeneralKey:
		var data [32]byte
		copy(data[:], j.Key)
		return json.Marshal(map[string]any{
			"generalKey": map[string]any{
				"length": len(j.Key),
				"data":   hex.Hex(data[:]).String(),
			},
		})
	}
	return nil, errors.Wrapf(errors.ErrEncoding, "unsupported junction %d", j.Kind)
}

// MultiLocation is an xcm location relative to the current consensus system
type MultiLocation struct {
	Parents  uint8
	Interior []Junction
}

func (m MultiLocation) Encode(encoder scale.Encoder) error {
	if len(m.Interior) > MaxJunctions {
		return errors.Wrapf(errors.ErrEncoding, "%d junctions, at most %d are supported", len(m.Interior), MaxJunctions)
	}
	if err := encoder.PushByte(m.Parents); err != nil {
		return err
	}
	// Here is 0, X1 is 1, and so on
	if err := encoder.PushByte(byte(len(m.Interior))); err != nil {
		return err
	}
	for _, junction := range m.Interior {
		if err := encoder.Encode(junction); err != nil {
			return err
		}
	}
	return nil
}

// Bytes is the SCALE encoding of the location
func (m MultiLocation) Bytes() ([]byte, error) {
	bz, err := codec.Encode(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "multilocation: %v", err)
	}
	return bz, nil
}

func (m MultiLocation) MarshalJSON() ([]byte, error) {
	var interior any
	switch len(m.Interior) {
	case 0:
		interior = "Here"
	case 1:
		interior = map[string]Junction{"X1": m.Interior[0]}
	default:
		if len(m.Interior) > MaxJunctions {
			return nil, errors.Wrapf(errors.ErrEncoding, "%d junctions, at most %d are supported", len(m.Interior), MaxJunctions)
		}
		interior = map[string][]Junction{"X" + string(rune('0'+len(m.Interior))): m.Interior}
	}
	return json.Marshal(struct {
		Parents  uint8 `json:"parents"`
		Interior any   `json:"interior"`
	}{m.Parents, interior})
}

// ForAccount locates an account on the relay chain, or on a parachain when parachainID is set
func ForAccount(recipient xb.Address, parachainID uint32) (MultiLocation, error) {
	account, _, err := address.Decode(recipient)
	if err != nil {
		return MultiLocation{}, err
	}
	var id [32]byte
	copy(id[:], account.ToBytes())
	if parachainID == 0 {
		return MultiLocation{Parents: 0, Interior: []Junction{AccountId32(id)}}, nil
	}
	return MultiLocation{Parents: 1, Interior: []Junction{Parachain(parachainID), AccountId32(id)}}, nil
}

// ForDeposit is the destination the bridge pallet expects: the recipient and the destination domain as general keys
func ForDeposit(recipient []byte, destination xb.DomainID) (MultiLocation, error) {
	if len(recipient) == 0 {
		return MultiLocation{}, errors.Wrapf(errors.ErrMissingField, "recipient")
	}
	recipientKey, err := GeneralKey(recipient)
	if err != nil {
		return MultiLocation{}, err
	}
	domainKey, err := GeneralKey([]byte{byte(destination)})
	if err != nil {
		return MultiLocation{}, err
	}
	return MultiLocation{Parents: 0, Interior: []Junction{recipientKey, domainKey}}, nil
}
