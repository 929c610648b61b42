package bridge

import (
	_ "embed"
	"strings"

	xb "github.com/cordialsys/xbridge"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi.json
var abiJson string

// Abi of the bridge entry contract, limited to what deposits need
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

// PackDeposit packs deposit(uint8 destinationDomainID, bytes32 resourceID, bytes depositData, bytes feeData)
func PackDeposit(destination xb.DomainID, resourceID xb.ResourceID, depositData []byte, feeData []byte) ([]byte, error) {
	if feeData == nil {
		feeData = []byte{}
	}
	return Abi.Pack("deposit", uint8(destination), [32]byte(resourceID), depositData, feeData)
}

func PackHandlerAddress(resourceID xb.ResourceID) ([]byte, error) {
	return Abi.Pack("_resourceIDToHandlerAddress", [32]byte(resourceID))
}
