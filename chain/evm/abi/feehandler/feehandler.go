// Package feehandler covers the fee router and the fee handlers it dispatches to.
// They share calculateFee, so a single ABI serves all of them.
package feehandler

import (
	_ "embed"
	"strings"

	xb "github.com/cordialsys/xbridge"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed abi.json
var abiJson string
var Abi abi.ABI

// Percentage handlers store rates scaled by this
const HundredPercent = 100_000_000

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

func PackFeeHandlerAddress(destination xb.DomainID, resourceID xb.ResourceID) ([]byte, error) {
	return Abi.Pack("_domainResourceIDToFeeHandlerAddress", uint8(destination), [32]byte(resourceID))
}

func PackFeeHandlerType() ([]byte, error) {
	return Abi.Pack("feeHandlerType")
}

func PackCalculateFee(sender common.Address, source xb.DomainID, destination xb.DomainID, resourceID xb.ResourceID, depositData []byte, feeData []byte) ([]byte, error) {
	if feeData == nil {
		feeData = []byte{}
	}
	if depositData == nil {
		depositData = []byte{}
	}
	return Abi.Pack("calculateFee", sender, uint8(source), uint8(destination), [32]byte(resourceID), depositData, feeData)
}

func PackDomainResourceFee(destination xb.DomainID, resourceID xb.ResourceID) ([]byte, error) {
	return Abi.Pack("_domainResourceIDToFee", uint8(destination), [32]byte(resourceID))
}

func PackFeeBounds(resourceID xb.ResourceID) ([]byte, error) {
	return Abi.Pack("_resourceIDToFeeBounds", [32]byte(resourceID))
}
