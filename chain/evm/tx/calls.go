package tx

import (
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/bridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc1155"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc20"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc721"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum/common"
)

func ApproveERC20(from xb.Address, token xb.Address, spender xb.Address, amount xb.AmountBlockchain) (*Tx, error) {
	data, err := erc20.Abi.Pack("approve", common.HexToAddress(string(spender)), amount.Int())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "approve: %v", err)
	}
	return New("approve", from, token, data, xb.AmountBlockchain{}), nil
}

func ApproveERC721(from xb.Address, token xb.Address, spender xb.Address, tokenID xb.AmountBlockchain) (*Tx, error) {
	data, err := erc721.Abi.Pack("approve", common.HexToAddress(string(spender)), tokenID.Int())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "approve: %v", err)
	}
	return New("approve", from, token, data, xb.AmountBlockchain{}), nil
}

func SetApprovalForAll(from xb.Address, token xb.Address, operator xb.Address) (*Tx, error) {
	data, err := erc1155.Abi.Pack("setApprovalForAll", common.HexToAddress(string(operator)), true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "setApprovalForAll: %v", err)
	}
	return New("setApprovalForAll", from, token, data, xb.AmountBlockchain{}), nil
}

// Deposit calls the bridge. value carries native fees and native transfer amounts.
func Deposit(from xb.Address, bridgeAddress xb.Address, destination xb.DomainID, resourceID xb.ResourceID, depositData []byte, feeData []byte, value xb.AmountBlockchain) (*Tx, error) {
	data, err := bridge.PackDeposit(destination, resourceID, depositData, feeData)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "deposit: %v", err)
	}
	return New("deposit", from, bridgeAddress, data, value), nil
}
