package xbridge_test

import (
	"encoding/json"
	"math/big"

	. "github.com/cordialsys/xbridge"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func (s *XbridgeTestSuite) TestNewAmountBlockchainFromUint64() {
	require := s.Require()
	amount := NewAmountBlockchainFromUint64(123)
	require.NotNil(amount)
	require.Equal(amount.Uint64(), uint64(123))
	require.Equal(amount.String(), "123")
}

func (s *XbridgeTestSuite) TestAmountHumanReadable() {
	require := s.Require()
	amountDec, _ := decimal.NewFromString("10.3")
	amount := AmountHumanReadable(amountDec)
	require.NotNil(amount)
	require.Equal(amount.String(), "10.3")
}

func (s *XbridgeTestSuite) TestNewAmountHumanReadableFromStr() {
	require := s.Require()
	amount, err := NewAmountHumanReadableFromStr("10.3")
	require.NoError(err)
	require.Equal(amount.String(), "10.3")

	amount, err = NewAmountHumanReadableFromStr("0")
	require.NoError(err)
	require.Equal(amount.String(), "0")

	amount, err = NewAmountHumanReadableFromStr("")
	require.Error(err)
	require.Equal(amount.String(), "0")

	amount, err = NewAmountHumanReadableFromStr("invalid")
	require.Error(err)
	require.Equal(amount.String(), "0")
}

func (s *XbridgeTestSuite) TestNewBlockchainAmountStr() {
	require := s.Require()
	amount := NewAmountBlockchainFromStr("10")
	require.EqualValues(amount.Uint64(), 10)

	amount = NewAmountBlockchainFromStr("10.1")
	require.EqualValues(amount.Uint64(), 0)

	amount = NewAmountBlockchainFromStr("0x10")
	require.EqualValues(amount.Uint64(), 16)
}

func (s *XbridgeTestSuite) TestHumanToBlockchain() {
	require := s.Require()
	human, err := NewAmountHumanReadableFromStr("1.5")
	require.NoError(err)
	require.Equal("1500000000000000000", human.ToBlockchain(18).String())

	amount := NewAmountBlockchainFromUint64(150_000_000)
	require.Equal("1.5", amount.ToHuman(8).String())
}

func (s *XbridgeTestSuite) TestAmountBytes32() {
	require := s.Require()
	word, err := NewAmountBlockchainFromUint64(100).Bytes32()
	require.NoError(err)
	require.EqualValues(100, word[31])
	require.Equal(make([]byte, 31), word[:31])

	_, err = NewAmountBlockchainFromBig(big.NewInt(-1)).Bytes32()
	require.ErrorContains(err, "negative")

	tooWide := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = NewAmountBlockchainFromBig(tooWide).Bytes32()
	require.ErrorContains(err, "256 bits")
}

func (s *XbridgeTestSuite) TestAmountArithmetic() {
	require := s.Require()
	a := NewAmountBlockchainFromUint64(10)
	b := NewAmountBlockchainFromUint64(4)
	require.EqualValues(14, a.Add(&b).Uint64())
	require.EqualValues(6, a.Sub(&b).Uint64())
	require.EqualValues(40, a.Mul(&b).Uint64())
	require.Equal(1, a.Cmp(&b))
	require.True(a.IsPositive())

	diff := b.Sub(&a)
	require.False(diff.IsPositive())
	require.Equal("-6", diff.String())
}

func (s *XbridgeTestSuite) TestAmountSerialization() {
	require := s.Require()
	type holder struct {
		Amount AmountBlockchain `json:"amount" yaml:"amount"`
	}
	var h holder
	require.NoError(json.Unmarshal([]byte(`{"amount":"1000"}`), &h))
	require.EqualValues(1000, h.Amount.Uint64())

	require.NoError(yaml.Unmarshal([]byte(`amount: 250`), &h))
	require.EqualValues(250, h.Amount.Uint64())

	require.NoError(yaml.Unmarshal([]byte(`amount: "0x10"`), &h))
	require.EqualValues(16, h.Amount.Uint64())

	require.Error(yaml.Unmarshal([]byte(`amount: abc`), &h))

	bz, err := json.Marshal(h)
	require.NoError(err)
	require.JSONEq(`{"amount":"16"}`, string(bz))
}
