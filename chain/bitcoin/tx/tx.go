package tx

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/mempool"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/bitcoin/address"
	"github.com/cordialsys/xbridge/chain/bitcoin/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const TxVersion int32 = 2

var maxSatoshi = xb.NewAmountBlockchainFromUint64(btcutil.MaxSatoshi)

// Params describe a bridge deposit from a single key
type Params struct {
	Network *chaincfg.Params
	// Compressed public key of the signer, or the x-only internal key for taproot
	PublicKey   []byte
	AddressType address.AddressType
	Utxos       []tx_input.Utxo

	Amount    xb.AmountBlockchain
	FeeAmount xb.AmountBlockchain
	// sats per vbyte
	FeeRate xb.AmountHumanReadable

	BridgeAddress xb.Address
	FeeAddress    xb.Address
	ChangeAddress xb.Address

	DestinationAddress string
	DestinationDomain  xb.DomainID
}

// DepositMarker is the OP_RETURN payload relayers read the destination from
func DepositMarker(destination string, domain xb.DomainID) []byte {
	return []byte(destination + "_" + strconv.Itoa(int(domain)))
}

type Recipient struct {
	// Empty for the OP_RETURN output
	To    xb.Address          `json:"to,omitempty"`
	Value xb.AmountBlockchain `json:"value"`
}

// Tx is an unsigned deposit transaction
type Tx struct {
	MsgTx       *wire.MsgTx
	Packet      *psbt.Packet
	Inputs      []tx_input.Utxo
	Recipients  []Recipient
	MinerFee    xb.AmountBlockchain
	VirtualSize int64
}

func (tx *Tx) Hash() string {
	return tx.MsgTx.TxHash().String()
}

func (tx *Tx) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := tx.MsgTx.Serialize(buf); err != nil {
		return []byte{}, err
	}
	return buf.Bytes(), nil
}

func (tx *Tx) PsbtBase64() (string, error) {
	return tx.Packet.B64Encode()
}

// everything resolved from Params before a transaction is touched
type plan struct {
	params      Params
	selected    []tx_input.Utxo
	outpoints   []*wire.OutPoint
	sum         xb.AmountBlockchain
	inputScript []byte
	internalKey []byte
	marker      []byte
	feeScript   []byte
	bridge      []byte
	change      []byte
}

func newPlan(params Params) (*plan, error) {
	if params.Network == nil {
		return nil, errors.Wrapf(errors.ErrMissingField, "network params")
	}
	if !params.Amount.IsPositive() || !params.Amount.Int().IsInt64() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "%s", params.Amount.String())
	}
	if params.FeeAmount.Sign() < 0 || !params.FeeAmount.Int().IsInt64() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "negative fee %s", params.FeeAmount.String())
	}
	if params.FeeRate.Decimal().IsNegative() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "negative fee rate %s", params.FeeRate.String())
	}
	if params.DestinationAddress == "" {
		return nil, errors.Wrapf(errors.ErrMissingField, "destination address")
	}
	p := &plan{params: params}
	var err error
	if p.selected, err = tx_input.SelectUtxos(params.Utxos, params.Amount); err != nil {
		return nil, err
	}
	p.sum = tx_input.SumUtxos(p.selected)
	if p.sum.Cmp(&maxSatoshi) > 0 {
		return nil, errors.Wrapf(errors.ErrMalformedUtxo, "selected utxos total %s, more than can exist", p.sum.String())
	}
	for _, utxo := range p.selected {
		// NewHashFromStr takes the reversed display order used by indexers
		hash, err := chainhash.NewHashFromStr(utxo.TxID)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedUtxo, "%s: %v", utxo.String(), err)
		}
		p.outpoints = append(p.outpoints, wire.NewOutPoint(hash, *utxo.Vout))
	}

	switch params.AddressType {
	case address.AddressTypeSegWit:
		if len(params.PublicKey) != 33 {
			return nil, errors.Wrapf(errors.ErrInvalidAddress, "segwit inputs need a compressed public key, got %d bytes", len(params.PublicKey))
		}
		addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(params.PublicKey), params.Network)
		if err != nil {
			return nil, err
		}
		if p.inputScript, err = txscript.PayToAddrScript(addr); err != nil {
			return nil, err
		}
	case address.AddressTypeTaproot:
		key, err := address.ParseInternalKey(params.PublicKey)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidAddress, "%v", err)
		}
		p.internalKey = schnorr.SerializePubKey(key)
		if p.inputScript, err = txscript.PayToTaprootScript(txscript.ComputeTaprootKeyNoScript(key)); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedAddressType, "%q", params.AddressType)
	}

	if p.marker, err = txscript.NullDataScript(DepositMarker(params.DestinationAddress, params.DestinationDomain)); err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "deposit marker: %v", err)
	}
	if params.FeeAmount.IsPositive() {
		if p.feeScript, err = address.PayToAddress(params.FeeAddress, params.Network); err != nil {
			return nil, err
		}
	}
	if p.bridge, err = address.PayToAddress(params.BridgeAddress, params.Network); err != nil {
		return nil, err
	}
	if p.change, err = address.PayToAddress(params.ChangeAddress, params.Network); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *plan) dummyWitness() wire.TxWitness {
	if p.params.AddressType == address.AddressTypeTaproot {
		return wire.TxWitness{make([]byte, 64)}
	}
	return wire.TxWitness{make([]byte, 72), make([]byte, 33)}
}

// assemble never fails once the plan is resolved; a negative change is left to the caller.
// Change below the dust limit gets no output and is returned as dust instead.
func (p *plan) assemble(minerFee xb.AmountBlockchain, withWitness bool) (msgTx *wire.MsgTx, recipients []Recipient, change xb.AmountBlockchain, dust xb.AmountBlockchain) {
	msgTx = wire.NewMsgTx(TxVersion)
	for _, outpoint := range p.outpoints {
		txIn := wire.NewTxIn(outpoint, nil, nil)
		if withWitness {
			txIn.Witness = p.dummyWitness()
		}
		msgTx.AddTxIn(txIn)
	}

	spent := p.params.Amount.Add(&p.params.FeeAmount)
	spent = spent.Add(&minerFee)
	change = p.sum.Sub(&spent)
	dust = xb.NewAmountBlockchainFromUint64(0)

	recipients = []Recipient{{Value: xb.NewAmountBlockchainFromUint64(0)}}
	msgTx.AddTxOut(wire.NewTxOut(0, p.marker))
	if p.params.FeeAmount.IsPositive() {
		recipients = append(recipients, Recipient{To: p.params.FeeAddress, Value: p.params.FeeAmount})
		msgTx.AddTxOut(wire.NewTxOut(p.params.FeeAmount.Int().Int64(), p.feeScript))
	}
	recipients = append(recipients, Recipient{To: p.params.BridgeAddress, Value: p.params.Amount})
	msgTx.AddTxOut(wire.NewTxOut(p.params.Amount.Int().Int64(), p.bridge))
	if change.IsPositive() {
		out := wire.NewTxOut(change.Int().Int64(), p.change)
		if mempool.IsDust(out, mempool.DefaultMinRelayTxFee) {
			dust, change = change, dust
		} else {
			recipients = append(recipients, Recipient{To: p.params.ChangeAddress, Value: change})
			msgTx.AddTxOut(out)
		}
	}
	return msgTx, recipients, change, dust
}

func (p *plan) virtualSize() int64 {
	msgTx, _, _, _ := p.assemble(xb.NewAmountBlockchainFromUint64(0), true)
	return mempool.GetTxVirtualSize(btcutil.NewTx(msgTx))
}

// EstimateSize measures the virtual size of the deposit with a zero miner fee and placeholder witnesses
func EstimateSize(params Params) (int64, error) {
	p, err := newPlan(params)
	if err != nil {
		return 0, err
	}
	return p.virtualSize(), nil
}

// AssembleFinal builds the unsigned deposit paying the given miner fee
func AssembleFinal(params Params, minerFee xb.AmountBlockchain) (*Tx, error) {
	p, err := newPlan(params)
	if err != nil {
		return nil, err
	}
	return p.final(minerFee, 0)
}

func (p *plan) final(minerFee xb.AmountBlockchain, vsize int64) (*Tx, error) {
	msgTx, recipients, change, dust := p.assemble(minerFee, false)
	if change.Sign() < 0 {
		fees := p.params.FeeAmount.Add(&minerFee)
		left := p.sum.Sub(&p.params.Amount)
		return nil, errors.Wrapf(errors.ErrInsufficientFunds,
			"not enough funds for fees, bridge fee plus miner fee is %s but only %s is left after transfer",
			fees.ToHuman(8).String(), left.ToHuman(8).String(),
		)
	}

	if dust.IsPositive() {
		log.WithFields(log.Fields{
			"change":  dust.String(),
			"address": p.params.ChangeAddress,
		}).Warn("change is below the dust limit, leaving it to the miner")
		minerFee = minerFee.Add(&dust)
	}

	packet, err := psbt.NewFromUnsignedTx(msgTx)
	if err != nil {
		return nil, fmt.Errorf("could not create psbt: %v", err)
	}
	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, fmt.Errorf("could not create psbt updater: %v", err)
	}
	for i, utxo := range p.selected {
		prevOut := wire.NewTxOut(int64(*utxo.Value), p.inputScript)
		if err := updater.AddInWitnessUtxo(prevOut, i); err != nil {
			return nil, fmt.Errorf("could not add witness utxo %d: %v", i, err)
		}
		if p.internalKey != nil {
			packet.Inputs[i].TaprootInternalKey = p.internalKey
		}
	}

	log.WithFields(log.Fields{
		"inputs":    len(msgTx.TxIn),
		"outputs":   len(msgTx.TxOut),
		"miner_fee": minerFee.String(),
		"change":    change.String(),
		"vsize":     vsize,
	}).Debug("assembled bitcoin deposit")

	return &Tx{
		MsgTx:       msgTx,
		Packet:      packet,
		Inputs:      p.selected,
		Recipients:  recipients,
		MinerFee:    minerFee,
		VirtualSize: vsize,
	}, nil
}

// MinerFee is floor(feeRate * vsize)
func MinerFee(feeRate xb.AmountHumanReadable, vsize int64) xb.AmountBlockchain {
	fee := feeRate.Decimal().Mul(decimal.NewFromInt(vsize)).Floor()
	return xb.NewAmountBlockchainFromBig(fee.BigInt())
}

// Build measures the deposit, prices it at the fee rate and assembles the final transaction
func Build(params Params) (*Tx, error) {
	p, err := newPlan(params)
	if err != nil {
		return nil, err
	}
	vsize := p.virtualSize()
	return p.final(MinerFee(params.FeeRate, vsize), vsize)
}
