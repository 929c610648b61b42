package deposit_test

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/deposit"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/testutil"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

const (
	evmRecipient = "0x1234567890123456789012345678901234567890"
	depositor    = "0x5c1f5961696bad2e73f73417f07ef55c62a2dc5b"
	substrateAcc = "5CDQJk6kxvBcjauhrogUc9B8vhbdXhRscp1tGEUmniryF1Vt"
	accountID    = "06a220edf5f82b84fc5f9270f8a30a17636bf29c05a5c16279405ca20918aa39"
)

// hex of a 32 byte big endian word
func w(v uint64) string {
	bz := make([]byte, 32)
	new(big.Int).SetUint64(v).FillBytes(bz)
	return hex.EncodeToString(bz)
}

type DepositTestSuite struct {
	suite.Suite
}

func TestDepositTestSuite(t *testing.T) {
	suite.Run(t, new(DepositTestSuite))
}

func (s *DepositTestSuite) TestERCDepositData() {
	require := s.Require()
	recipient, err := deposit.RecipientBytes(xb.NetworkEVM, evmRecipient, 0)
	require.NoError(err)

	data, err := deposit.ERCDepositData(xb.NewAmountBlockchainFromUint64(100), recipient)
	require.NoError(err)
	require.Equal(testutil.FromHex(w(100)+w(20)+"1234567890123456789012345678901234567890"), data)
	require.Len(data, 84)
}

func (s *DepositTestSuite) TestERCDepositDataWithMessage() {
	require := s.Require()
	recipient := testutil.FromHex(evmRecipient)
	data, err := deposit.ERCDepositData(
		xb.NewAmountBlockchainFromUint64(5),
		recipient,
		deposit.WithMessage(xb.NewAmountBlockchainFromUint64(200_000), []byte{0xaa, 0xbb}),
	)
	require.NoError(err)
	expected := w(5) + w(20) + "1234567890123456789012345678901234567890" + w(200_000) + w(2) + "aabb"
	require.Equal(testutil.FromHex(expected), data)
}

func (s *DepositTestSuite) TestERCDepositDataSubstrate() {
	require := s.Require()
	recipient, err := deposit.RecipientBytes(xb.NetworkSubstrate, substrateAcc, 2004)
	require.NoError(err)
	require.Equal(testutil.FromHex("010200511f0100"+accountID), recipient)

	data, err := deposit.ERCDepositData(xb.NewAmountBlockchainFromUint64(1), recipient)
	require.NoError(err)
	require.Equal(testutil.FromHex(w(1)+w(uint64(len(recipient)))+"010200511f0100"+accountID), data)
}

func (s *DepositTestSuite) TestRecipientBytes() {
	require := s.Require()
	btc, err := deposit.RecipientBytes(xb.NetworkBitcoin, "tb1q6qe0pcqqunr89n3m8ghwf437fhzq3jjd3hj4ux", 0)
	require.NoError(err)
	require.Equal([]byte("tb1q6qe0pcqqunr89n3m8ghwf437fhzq3jjd3hj4ux"), btc)

	relay, err := deposit.RecipientBytes(xb.NetworkSubstrate, substrateAcc, 0)
	require.NoError(err)
	require.Equal(testutil.FromHex("00010100"+accountID), relay)

	_, err = deposit.RecipientBytes(xb.NetworkEVM, substrateAcc, 0)
	require.ErrorIs(err, errors.ErrInvalidAddress)
	_, err = deposit.RecipientBytes(xb.NetworkSubstrate, evmRecipient, 0)
	require.ErrorIs(err, errors.ErrInvalidAddress)
	_, err = deposit.RecipientBytes(xb.NetworkEVM, "", 0)
	require.ErrorIs(err, errors.ErrMissingField)
	_, err = deposit.RecipientBytes("cosmos", evmRecipient, 0)
	require.ErrorIs(err, errors.ErrUnsupportedAddressType)
}

func (s *DepositTestSuite) TestEncodingErrors() {
	require := s.Require()
	negative := xb.NewAmountBlockchainFromBig(big.NewInt(-1))
	_, err := deposit.ERCDepositData(negative, testutil.FromHex(evmRecipient))
	require.ErrorIs(err, errors.ErrEncoding)

	tooBig := xb.NewAmountBlockchainFromBig(new(big.Int).Lsh(big.NewInt(1), 256))
	data, err := deposit.ERCDepositData(tooBig, testutil.FromHex(evmRecipient))
	require.ErrorIs(err, errors.ErrEncoding)
	require.Nil(data)

	_, err = deposit.ERCDepositData(xb.NewAmountBlockchainFromUint64(1), nil)
	require.ErrorIs(err, errors.ErrMissingField)

	_, err = deposit.ERCDepositData(xb.NewAmountBlockchainFromUint64(1), testutil.FromHex(evmRecipient),
		deposit.WithMessage(negative, nil))
	require.ErrorIs(err, errors.ErrEncoding)
}

func (s *DepositTestSuite) TestEmptyActionMessage() {
	require := s.Require()
	msg := deposit.ActionMessage{TransactionID: [32]byte{31: 0x01}, Receiver: depositor}
	data, err := msg.Encode()
	require.NoError(err)
	require.Len(data, 128)
	expected := w(1) + w(0x60) + "000000000000000000000000" + strings.TrimPrefix(depositor, "0x") + w(0)
	require.Equal(testutil.FromHex(expected), data)
}

func (s *DepositTestSuite) TestActionMessage() {
	require := s.Require()
	msg := deposit.ActionMessage{
		Actions: []deposit.Action{{
			NativeValue: xb.NewAmountBlockchainFromUint64(7),
			CallTo:      evmRecipient,
			Data:        []byte{1, 2, 3, 4},
		}},
		Receiver: depositor,
	}
	data, err := msg.Encode()
	require.NoError(err)
	require.Len(data, 13*32)
	word := func(i int) []byte { return data[i*32 : (i+1)*32] }
	// array length, element offset, native value, callTo
	require.Equal(testutil.FromHex(w(1)), word(3))
	require.Equal(testutil.FromHex(w(0x20)), word(4))
	require.Equal(testutil.FromHex(w(7)), word(5))
	require.Equal(testutil.FromHex(evmRecipient), word(6)[12:])
	// data offset within the tuple, its length and content
	require.Equal(testutil.FromHex(w(0xc0)), word(10))
	require.Equal(testutil.FromHex(w(4)), word(11))
	require.Equal([]byte{1, 2, 3, 4}, word(12)[:4])

	msg.Actions[0].ApproveTo = "not-an-address"
	_, err = msg.Encode()
	require.ErrorIs(err, errors.ErrInvalidAddress)
}

const storageABI = `[{"type":"function","name":"storeData","stateMutability":"nonpayable","inputs":[{"name":"depositor","type":"address"},{"name":"data","type":"bytes32"}],"outputs":[]},
{"type":"function","name":"noDepositor","stateMutability":"nonpayable","inputs":[{"name":"data","type":"bytes32"}],"outputs":[]}]`

func (s *DepositTestSuite) TestGenericCallDepositData() {
	require := s.Require()
	parsed, err := abi.JSON(strings.NewReader(storageABI))
	require.NoError(err)

	payload := [32]byte{0: 0xab, 31: 0xcd}
	call, err := deposit.PackGenericCall(evmRecipient, parsed, "storeData", payload)
	require.NoError(err)
	require.Len(call.Calldata, 4+64)

	data, err := deposit.GenericCallDepositData(xb.NewAmountBlockchainFromUint64(3_000_000), call, depositor)
	require.NoError(err)

	selector := crypto.Keccak256([]byte("storeData(address,bytes32)"))[:4]
	expected := testutil.FromHex(w(3_000_000))
	expected = append(expected, 4)
	expected = append(expected, selector...)
	expected = append(expected, 20)
	expected = append(expected, testutil.FromHex(evmRecipient)...)
	expected = append(expected, 20)
	expected = append(expected, testutil.FromHex(depositor)...)
	expected = append(expected, payload[:]...)
	require.Equal(expected, data)

	_, err = deposit.PackGenericCall(evmRecipient, parsed, "noDepositor", payload)
	require.ErrorIs(err, errors.ErrEncoding)
	_, err = deposit.PackGenericCall(evmRecipient, parsed, "missing")
	require.ErrorIs(err, errors.ErrEncoding)

	_, err = deposit.GenericCallDepositData(xb.NewAmountBlockchainFromUint64(1), deposit.GenericCall{Contract: evmRecipient, Calldata: selector}, depositor)
	require.ErrorIs(err, errors.ErrEncoding)
	_, err = deposit.GenericCallDepositData(xb.NewAmountBlockchainFromUint64(1), call, "")
	require.ErrorIs(err, errors.ErrMissingField)
}

func (s *DepositTestSuite) TestPermissionlessDepositData() {
	require := s.Require()
	data, err := deposit.PermissionlessDepositData(
		xb.NewAmountBlockchainFromUint64(10),
		testutil.FromHex("deadbeef"),
		evmRecipient,
		depositor,
		testutil.FromHex("01020304"),
	)
	require.NoError(err)
	expected := w(10) + "0004" + "deadbeef" +
		"14" + strings.TrimPrefix(evmRecipient, "0x") +
		"14" + strings.TrimPrefix(depositor, "0x") +
		"01020304"
	require.Equal(testutil.FromHex(expected), data)

	_, err = deposit.PermissionlessDepositData(xb.NewAmountBlockchainFromUint64(10), nil, evmRecipient, depositor, nil)
	require.ErrorIs(err, errors.ErrMissingField)
}

func (s *DepositTestSuite) TestSemiFungibleDepositData() {
	require := s.Require()
	ids := []xb.AmountBlockchain{xb.NewAmountBlockchainFromUint64(1), xb.NewAmountBlockchainFromUint64(2)}
	amounts := []xb.AmountBlockchain{xb.NewAmountBlockchainFromUint64(10), xb.NewAmountBlockchainFromUint64(20)}
	recipient := testutil.FromHex(evmRecipient)

	data, err := deposit.SemiFungibleDepositData(ids, amounts, recipient, nil)
	require.NoError(err)
	expected := w(0x80) + w(0xe0) + w(0x140) + w(0x180) +
		w(2) + w(1) + w(2) +
		w(2) + w(10) + w(20) +
		w(20) + strings.TrimPrefix(evmRecipient, "0x") + "000000000000000000000000" +
		w(0)
	require.Equal(testutil.FromHex(expected), data)

	_, err = deposit.SemiFungibleDepositData(ids, amounts[:1], recipient, nil)
	require.ErrorIs(err, errors.ErrEncoding)
	_, err = deposit.SemiFungibleDepositData(nil, nil, recipient, nil)
	require.ErrorIs(err, errors.ErrMissingField)
}
