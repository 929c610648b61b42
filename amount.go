package xbridge

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AmountBlockchain is an integer amount in the smallest unit of an asset (wei, planck, sats)
type AmountBlockchain big.Int

// AmountHumanReadable is a decimal amount in whole units, or a fractional rate
type AmountHumanReadable decimal.Decimal

func (amount AmountBlockchain) Int() *big.Int {
	bigInt := big.Int(amount)
	return &bigInt
}

func (amount AmountBlockchain) Bytes() []byte {
	return amount.Int().Bytes()
}

func (amount AmountBlockchain) String() string {
	return amount.Int().String()
}

func (amount AmountBlockchain) Sign() int {
	return amount.Int().Sign()
}

// Uint64 truncates amounts that do not fit
func (amount AmountBlockchain) Uint64() uint64 {
	return amount.Int().Uint64()
}

func (amount *AmountBlockchain) Cmp(other *AmountBlockchain) int {
	return amount.Int().Cmp(other.Int())
}

func (amount *AmountBlockchain) binary(x *AmountBlockchain, op func(z, a, b *big.Int) *big.Int) AmountBlockchain {
	return AmountBlockchain(*op(new(big.Int), amount.Int(), x.Int()))
}

func (amount *AmountBlockchain) Add(x *AmountBlockchain) AmountBlockchain {
	return amount.binary(x, (*big.Int).Add)
}

func (amount *AmountBlockchain) Sub(x *AmountBlockchain) AmountBlockchain {
	return amount.binary(x, (*big.Int).Sub)
}

func (amount *AmountBlockchain) Mul(x *AmountBlockchain) AmountBlockchain {
	return amount.binary(x, (*big.Int).Mul)
}

func (amount *AmountBlockchain) IsZero() bool {
	return amount.Int().Sign() == 0
}

func (amount *AmountBlockchain) IsPositive() bool {
	return amount.Int().Sign() > 0
}

func (amount *AmountBlockchain) ToHuman(decimals int32) AmountHumanReadable {
	return AmountHumanReadable(decimal.NewFromBigInt(amount.Int(), -decimals))
}

// Bytes32 returns the amount as a 32-byte big-endian word.
// Negative amounts and amounts wider than 256 bits are rejected.
func (amount AmountBlockchain) Bytes32() ([32]byte, error) {
	bigInt := amount.Int()
	if bigInt.Sign() < 0 {
		return [32]byte{}, fmt.Errorf("negative amount %s cannot be encoded", bigInt.String())
	}
	word, overflow := uint256.FromBig(bigInt)
	if overflow {
		return [32]byte{}, fmt.Errorf("amount %s does not fit in 256 bits", bigInt.String())
	}
	return word.Bytes32(), nil
}

func NewAmountBlockchainFromUint64(u64 uint64) AmountBlockchain {
	return AmountBlockchain(*new(big.Int).SetUint64(u64))
}

// NewAmountBlockchainFromBig copies bigInt, nil is zero
func NewAmountBlockchainFromBig(bigInt *big.Int) AmountBlockchain {
	if bigInt == nil {
		return NewAmountBlockchainFromUint64(0)
	}
	return AmountBlockchain(*new(big.Int).Set(bigInt))
}

// NewAmountBlockchainFromStr parses decimal or 0x hex, anything else is zero
func NewAmountBlockchainFromStr(str string) AmountBlockchain {
	bigInt, ok := new(big.Int).SetString(str, 0)
	if !ok {
		return NewAmountBlockchainFromUint64(0)
	}
	return AmountBlockchain(*bigInt)
}

func parseAmountBlockchain(str string) (AmountBlockchain, error) {
	str = strings.Trim(strings.TrimSpace(str), "\"")
	bigInt, ok := new(big.Int).SetString(str, 0)
	if !ok {
		return AmountBlockchain{}, fmt.Errorf("not a valid big integer: %s", str)
	}
	return AmountBlockchain(*bigInt), nil
}

func NewAmountHumanReadableFromStr(str string) (AmountHumanReadable, error) {
	dec, err := decimal.NewFromString(str)
	return AmountHumanReadable(dec), err
}

func NewAmountHumanReadableFromFloat(float float64) AmountHumanReadable {
	return AmountHumanReadable(decimal.NewFromFloat(float))
}

func (amount AmountHumanReadable) Decimal() decimal.Decimal {
	return decimal.Decimal(amount)
}

// ToBlockchain scales by 10^decimals and truncates what is left below the smallest unit
func (amount AmountHumanReadable) ToBlockchain(decimals int32) AmountBlockchain {
	return AmountBlockchain(*amount.Decimal().Shift(decimals).BigInt())
}

func (amount AmountHumanReadable) String() string {
	return amount.Decimal().String()
}

func (amount AmountHumanReadable) IsZero() bool {
	return amount.Decimal().IsZero()
}

var _ json.Marshaler = AmountHumanReadable{}
var _ json.Unmarshaler = &AmountHumanReadable{}
var _ yaml.Marshaler = AmountHumanReadable{}
var _ yaml.Unmarshaler = &AmountHumanReadable{}
var _ yaml.IsZeroer = AmountHumanReadable{}

func (amount AmountHumanReadable) MarshalJSON() ([]byte, error) {
	return json.Marshal(amount.String())
}

func (amount *AmountHumanReadable) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	dec, err := decimal.NewFromString(strings.Trim(string(p), "\""))
	if err != nil {
		return fmt.Errorf("invalid decimal amount: %v", err)
	}
	*amount = AmountHumanReadable(dec)
	return nil
}

func (amount AmountHumanReadable) MarshalYAML() (interface{}, error) {
	return amount.String(), nil
}

func (amount *AmountHumanReadable) UnmarshalYAML(node *yaml.Node) error {
	return amount.UnmarshalJSON([]byte(strings.TrimSpace(node.Value)))
}

var _ json.Marshaler = AmountBlockchain{}
var _ json.Unmarshaler = &AmountBlockchain{}
var _ yaml.Marshaler = AmountBlockchain{}
var _ yaml.Unmarshaler = &AmountBlockchain{}

// Amounts serialize as strings since they routinely exceed 2^53
func (amount AmountBlockchain) MarshalJSON() ([]byte, error) {
	return json.Marshal(amount.String())
}

func (amount *AmountBlockchain) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	parsed, err := parseAmountBlockchain(string(p))
	if err != nil {
		return err
	}
	*amount = parsed
	return nil
}

func (amount AmountBlockchain) MarshalYAML() (interface{}, error) {
	return amount.String(), nil
}

func (amount *AmountBlockchain) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseAmountBlockchain(node.Value)
	if err != nil {
		return err
	}
	*amount = parsed
	return nil
}
