package tx

import (
	"math/bits"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/extrinsic"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/extrinsic/extensions"
	"github.com/cordialsys/xbridge/chain/substrate/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"golang.org/x/crypto/blake2b"
)

// MortalPeriod is how many blocks an extrinsic stays valid for
const MortalPeriod = 4096

// Tx is an unsigned extrinsic together with the payload its sender has to sign
type Tx struct {
	extrinsic   extrinsic.DynamicExtrinsic
	meta        tx_input.Metadata
	sender      types.MultiAddress
	genesisHash types.Hash
	curHash     types.Hash
	era         types.ExtrinsicEra
	rv          types.RuntimeVersion
	tip, nonce  uint64
	payload     *extrinsic.Payload
}

func NewTx(call types.Call, sender types.MultiAddress, txInput *tx_input.TxInput) (*Tx, error) {
	tx := &Tx{
		meta:        txInput.Meta,
		extrinsic:   extrinsic.NewDynamicExtrinsic(&call),
		sender:      sender,
		nonce:       txInput.Nonce,
		genesisHash: txInput.GenesisHash,
		curHash:     txInput.CurHash,
		era:         MortalEra(txInput.CurrentHeight),
		rv:          txInput.Rv,
		tip:         txInput.Tip,
	}
	err := tx.build()
	return tx, err
}

// MortalEra encodes the era of MortalPeriod blocks starting at height.
// The low 4 bits are log2(period)-1, the phase is stored above them.
func MortalEra(height uint64) types.ExtrinsicEra {
	phase := height % MortalPeriod
	encoded := uint16(phase<<4) | uint16(bits.TrailingZeros64(MortalPeriod)-1)
	return types.ExtrinsicEra{
		IsMortalEra: true,
		AsMortalEra: types.MortalEra{First: byte(encoded), Second: byte(encoded >> 8)},
	}
}

func (tx *Tx) build() error {
	if tx.extrinsic.Type() != types.ExtrinsicVersion4 {
		return errors.Wrapf(errors.ErrEncoding, "unsupported extrinsic version: %v", tx.extrinsic.Version)
	}
	encodedMethod, err := codec.Encode(tx.extrinsic.Method)
	if err != nil {
		return errors.Wrapf(errors.ErrEncoding, "encode method: %v", err)
	}
	fieldValues := extrinsic.SignedFieldValues{}

	opts := []extrinsic.SigningOption{
		extrinsic.WithEra(tx.era, tx.curHash),
		extrinsic.WithNonce(types.NewUCompactFromUInt(tx.nonce)),
		extrinsic.WithTip(types.NewUCompactFromUInt(tx.tip)),
		extrinsic.WithSpecVersion(tx.rv.SpecVersion),
		extrinsic.WithTransactionVersion(tx.rv.TransactionVersion),
		extrinsic.WithGenesisHash(tx.genesisHash),
		extrinsic.WithMetadataMode(extensions.CheckMetadataModeDisabled, extensions.CheckMetadataHash{Hash: types.NewEmptyOption[types.H256]()}),
	}
	for _, opt := range opts {
		opt(fieldValues)
	}

	payload, err := tx_input.CreatePayload(&tx.meta, encodedMethod)
	if err != nil {
		return err
	}
	if err := payload.MutateSignedFields(fieldValues); err != nil {
		return errors.Wrapf(errors.ErrEncoding, "mutate signed fields: %v", err)
	}
	tx.payload = payload
	return nil
}

// Call is the runtime call carried by the extrinsic
func (tx *Tx) Call() types.Call {
	return *tx.extrinsic.Method
}

// Era is the mortal era the extrinsic is signed with, anchored at the latest block
func (tx *Tx) Era() types.ExtrinsicEra {
	return tx.era
}

func HashSerialized(serialized []byte) []byte {
	hash := blake2b.Sum256(serialized)
	return hash[:]
}

// Hash is the blake2b hash of the serialized extrinsic, it changes once signed
func (tx *Tx) Hash() string {
	ser, err := tx.Serialize()
	if err != nil {
		return ""
	}
	return codec.HexEncodeToString(HashSerialized(ser))
}

// Sighash returns the payload to sign
func (tx *Tx) Sighash() ([]byte, error) {
	b, err := codec.Encode(tx.payload)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "encode payload: %v", err)
	}
	// payloads longer than 256 bytes are signed by hash
	if len(b) > 256 {
		h := blake2b.Sum256(b)
		b = h[:]
	}
	return b, nil
}

// SetSignature attaches an sr25519 signature over Sighash
func (tx *Tx) SetSignature(signature []byte) error {
	if len(signature) != 64 {
		return errors.Wrapf(errors.ErrEncoding, "signature must be 64 bytes, got %d", len(signature))
	}
	tx.extrinsic.Signature = &extrinsic.Signature{
		Signer: tx.sender,
		Signature: types.MultiSignature{
			IsSr25519: true,
			AsSr25519: types.NewSignature(signature),
		},
		SignedFields: tx.payload.SignedFields,
	}
	tx.extrinsic.Version |= types.ExtrinsicBitSigned
	return nil
}

func (tx *Tx) IsSigned() bool {
	return tx.extrinsic.IsSigned()
}

// Serialize returns the SCALE encoded extrinsic
func (tx *Tx) Serialize() ([]byte, error) {
	return codec.Encode(tx.extrinsic)
}
