package deposit

import (
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Action is one call the destination executes with the transferred tokens
type Action struct {
	NativeValue  xb.AmountBlockchain
	CallTo       xb.Address
	ApproveTo    xb.Address
	TokenSend    xb.Address
	TokenReceive xb.Address
	Data         []byte
}

// ActionMessage is the optional message of a fungible transfer
type ActionMessage struct {
	TransactionID [32]byte
	Actions       []Action
	// Receives whatever is left once the actions ran
	Receiver xb.Address
}

// field names must match the tuple component names
type actionTuple struct {
	NativeValue  *big.Int
	CallTo       common.Address
	ApproveTo    common.Address
	TokenSend    common.Address
	TokenReceive common.Address
	Data         []byte
}

var actionMessageArguments = func() abi.Arguments {
	bytes32Ty, _ := abi.NewType("bytes32", "", nil)
	addressTy, _ := abi.NewType("address", "", nil)
	actionsTy, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "nativeValue", Type: "uint256"},
		{Name: "callTo", Type: "address"},
		{Name: "approveTo", Type: "address"},
		{Name: "tokenSend", Type: "address"},
		{Name: "tokenReceive", Type: "address"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: bytes32Ty}, {Type: actionsTy}, {Type: addressTy}}
}()

func evmAddress(name string, addr xb.Address) (common.Address, error) {
	if addr == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(string(addr)) {
		return common.Address{}, errors.Wrapf(errors.ErrInvalidAddress, "%s %q is not an evm address", name, addr)
	}
	return common.HexToAddress(string(addr)), nil
}

// Encode ABI encodes the message as (bytes32, (uint256,address,address,address,address,bytes)[], address)
func (m *ActionMessage) Encode() ([]byte, error) {
	receiver, err := evmAddress("receiver", m.Receiver)
	if err != nil {
		return nil, err
	}
	actions := make([]actionTuple, len(m.Actions))
	for i, action := range m.Actions {
		if action.NativeValue.Sign() < 0 {
			return nil, errors.Wrapf(errors.ErrEncoding, "action %d has a negative native value", i)
		}
		tuple := actionTuple{NativeValue: action.NativeValue.Int(), Data: action.Data}
		if tuple.Data == nil {
			tuple.Data = []byte{}
		}
		if tuple.CallTo, err = evmAddress("callTo", action.CallTo); err != nil {
			return nil, err
		}
		if tuple.ApproveTo, err = evmAddress("approveTo", action.ApproveTo); err != nil {
			return nil, err
		}
		if tuple.TokenSend, err = evmAddress("tokenSend", action.TokenSend); err != nil {
			return nil, err
		}
		if tuple.TokenReceive, err = evmAddress("tokenReceive", action.TokenReceive); err != nil {
			return nil, err
		}
		actions[i] = tuple
	}
	bz, err := actionMessageArguments.Pack(m.TransactionID, actions, receiver)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "action message: %v", err)
	}
	return bz, nil
}
