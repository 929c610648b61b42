package multicall

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed abi.json
var abiJson string
var Abi abi.ABI

func NewAbi() abi.ABI {
	a, err := abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		panic(err)
	}
	return a
}

func init() {
	Abi = NewAbi()
}

// Call3 field names must match the tuple components
type Call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type Result struct {
	Success    bool
	ReturnData []byte
}

func PackAggregate3(calls []Call3) ([]byte, error) {
	return Abi.Pack("aggregate3", calls)
}

func UnpackAggregate3(data []byte) ([]Result, error) {
	out, err := Abi.Unpack("aggregate3", data)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("aggregate3 returned %d values", len(out))
	}
	results := []Result{}
	converted := abi.ConvertType(out[0], &results).(*[]Result)
	return *converted, nil
}

// PackResults encodes results the way the multicall contract returns them
func PackResults(results []Result) ([]byte, error) {
	return Abi.Methods["aggregate3"].Outputs.Pack(results)
}
