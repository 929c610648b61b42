package deposit

import (
	"encoding/binary"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// GenericCall is a contract call executed on the destination by the permissioned generic handler.
// Calldata is standard abi calldata whose first parameter is a depositor placeholder.
type GenericCall struct {
	Contract xb.Address
	Calldata []byte
}

// PackGenericCall packs a call, inserting the zero address as the depositor placeholder.
// The method's first input must be an address.
func PackGenericCall(contract xb.Address, contractABI abi.ABI, method string, args ...interface{}) (GenericCall, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return GenericCall{}, errors.Wrapf(errors.ErrEncoding, "method %q not found in abi", method)
	}
	if len(m.Inputs) == 0 || m.Inputs[0].Type.T != abi.AddressTy {
		return GenericCall{}, errors.Wrapf(errors.ErrEncoding, "the first input of %s must be the depositor address", m.Sig)
	}
	calldata, err := contractABI.Pack(method, append([]interface{}{common.Address{}}, args...)...)
	if err != nil {
		return GenericCall{}, errors.Wrapf(errors.ErrEncoding, "%s: %v", m.Sig, err)
	}
	return GenericCall{Contract: contract, Calldata: calldata}, nil
}

// GenericCallDepositData is max fee, selector, contract and depositor each prefixed with a one byte length,
// followed by the call parameters without the placeholder. The relayer injects the real depositor.
func GenericCallDepositData(maxFee xb.AmountBlockchain, call GenericCall, depositor xb.Address) ([]byte, error) {
	if len(call.Calldata) < 4+32 {
		return nil, errors.Wrapf(errors.ErrEncoding, "calldata is %d bytes, it needs a selector and a depositor placeholder", len(call.Calldata))
	}
	contract, err := requiredAddress("contract", call.Contract)
	if err != nil {
		return nil, err
	}
	from, err := requiredAddress("depositor", depositor)
	if err != nil {
		return nil, err
	}
	fee, err := word(maxFee.Int())
	if err != nil {
		return nil, err
	}
	selector := call.Calldata[:4]
	params := call.Calldata[4+32:]

	data := append([]byte{}, fee...)
	data = append(data, byte(len(selector)))
	data = append(data, selector...)
	data = append(data, byte(len(contract)))
	data = append(data, contract...)
	data = append(data, byte(len(from)))
	data = append(data, from...)
	data = append(data, params...)
	return data, nil
}

// PermissionlessDepositData is max fee, function signature with a two byte length,
// contract and depositor with one byte lengths, then the execution data as is.
func PermissionlessDepositData(maxFee xb.AmountBlockchain, functionSig []byte, contract xb.Address, depositor xb.Address, executionData []byte) ([]byte, error) {
	if len(functionSig) == 0 {
		return nil, errors.Wrapf(errors.ErrMissingField, "function signature")
	}
	if len(functionSig) > 0xffff {
		return nil, errors.Wrapf(errors.ErrEncoding, "function signature is %d bytes", len(functionSig))
	}
	contractBz, err := requiredAddress("contract", contract)
	if err != nil {
		return nil, err
	}
	from, err := requiredAddress("depositor", depositor)
	if err != nil {
		return nil, err
	}
	fee, err := word(maxFee.Int())
	if err != nil {
		return nil, err
	}

	data := append([]byte{}, fee...)
	data = binary.BigEndian.AppendUint16(data, uint16(len(functionSig)))
	data = append(data, functionSig...)
	data = append(data, byte(len(contractBz)))
	data = append(data, contractBz...)
	data = append(data, byte(len(from)))
	data = append(data, from...)
	data = append(data, executionData...)
	return data, nil
}

func requiredAddress(name string, addr xb.Address) ([]byte, error) {
	if addr == "" {
		return nil, errors.Wrapf(errors.ErrMissingField, "%s", name)
	}
	parsed, err := evmAddress(name, addr)
	if err != nil {
		return nil, err
	}
	return parsed.Bytes(), nil
}
