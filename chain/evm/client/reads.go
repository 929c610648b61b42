package client

import (
	"context"
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/bridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc1155"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc20"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc721"
	"github.com/cordialsys/xbridge/chain/evm/abi/feehandler"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/ethereum/go-ethereum/common"
)

// HandlerAddress is the handler the bridge routes a resource to, empty when none is registered
func (client *Client) HandlerAddress(ctx context.Context, resourceID xb.ResourceID) (xb.Address, error) {
	if client.Domain.Bridge == "" {
		return "", errors.Errorf(errors.ConfigurationError, "domain %d has no bridge address", client.Domain.ID)
	}
	addr, err := callOne[common.Address](ctx, client, client.Domain.Bridge, bridge.Abi, "_resourceIDToHandlerAddress", [32]byte(resourceID))
	if err != nil {
		return "", err
	}
	return toAddress(addr), nil
}

// FeeHandlerAddress asks the fee router which handler serves a route, empty when none does
func (client *Client) FeeHandlerAddress(ctx context.Context, destination xb.DomainID, resourceID xb.ResourceID) (xb.Address, error) {
	if client.Domain.FeeRouter == "" {
		return "", errors.Errorf(errors.ConfigurationError, "domain %d has no fee router address", client.Domain.ID)
	}
	addr, err := callOne[common.Address](ctx, client, client.Domain.FeeRouter, feehandler.Abi, "_domainResourceIDToFeeHandlerAddress", uint8(destination), [32]byte(resourceID))
	if err != nil {
		return "", err
	}
	return toAddress(addr), nil
}

func (client *Client) FeeHandlerType(ctx context.Context, handler xb.Address) (xb.FeeHandlerType, error) {
	kind, err := callOne[string](ctx, client, handler, feehandler.Abi, "feeHandlerType")
	if err != nil {
		return "", err
	}
	return xb.ParseFeeHandlerType(kind), nil
}

// CalculateFee runs calculateFee on a fee handler. An empty token means the native currency.
func (client *Client) CalculateFee(ctx context.Context, handler xb.Address, req fee.Request, feeData []byte) (xb.AmountBlockchain, xb.Address, error) {
	data, err := feehandler.PackCalculateFee(common.HexToAddress(string(req.Sender)), req.Source, req.Destination, req.ResourceID, req.DepositData, feeData)
	if err != nil {
		return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrEncoding, "packing calculateFee: %v", err)
	}
	out, err := client.call(ctx, handler, data)
	if err != nil {
		return xb.AmountBlockchain{}, "", err
	}
	values, err := feehandler.Abi.Unpack("calculateFee", out)
	if err != nil || len(values) != 2 {
		return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrEncoding, "decoding calculateFee: %v", err)
	}
	amount := values[0].(*big.Int)
	token := values[1].(common.Address)
	return xb.NewAmountBlockchainFromBig(amount), toAddress(token), nil
}

// DomainResourceFee is the raw fee value a basic or percentage handler stores for a route
func (client *Client) DomainResourceFee(ctx context.Context, handler xb.Address, destination xb.DomainID, resourceID xb.ResourceID) (xb.AmountBlockchain, error) {
	value, err := callOne[*big.Int](ctx, client, handler, feehandler.Abi, "_domainResourceIDToFee", uint8(destination), [32]byte(resourceID))
	if err != nil {
		return xb.AmountBlockchain{}, err
	}
	return xb.NewAmountBlockchainFromBig(value), nil
}

func (client *Client) FeeBounds(ctx context.Context, handler xb.Address, resourceID xb.ResourceID) (lower xb.AmountBlockchain, upper xb.AmountBlockchain, err error) {
	data, err := feehandler.PackFeeBounds(resourceID)
	if err != nil {
		return lower, upper, errors.Wrapf(errors.ErrEncoding, "packing _resourceIDToFeeBounds: %v", err)
	}
	out, err := client.call(ctx, handler, data)
	if err != nil {
		return lower, upper, err
	}
	values, err := feehandler.Abi.Unpack("_resourceIDToFeeBounds", out)
	if err != nil || len(values) != 2 {
		return lower, upper, errors.Wrapf(errors.ErrEncoding, "decoding _resourceIDToFeeBounds: %v", err)
	}
	return xb.NewAmountBlockchainFromBig(values[0].(*big.Int)), xb.NewAmountBlockchainFromBig(values[1].(*big.Int)), nil
}

func (client *Client) NativeBalance(ctx context.Context, account xb.Address) (xb.AmountBlockchain, error) {
	balance, err := client.Backend.BalanceAt(ctx, common.HexToAddress(string(account)), nil)
	if err != nil {
		return xb.AmountBlockchain{}, errors.Networkf(err, "balance of %s on domain %d", account, client.Domain.ID)
	}
	return xb.NewAmountBlockchainFromBig(balance), nil
}

func (client *Client) TokenBalance(ctx context.Context, token xb.Address, account xb.Address) (xb.AmountBlockchain, error) {
	balance, err := callOne[*big.Int](ctx, client, token, erc20.Abi, "balanceOf", common.HexToAddress(string(account)))
	if err != nil {
		return xb.AmountBlockchain{}, err
	}
	return xb.NewAmountBlockchainFromBig(balance), nil
}

func (client *Client) Allowance(ctx context.Context, token xb.Address, owner xb.Address, spender xb.Address) (xb.AmountBlockchain, error) {
	allowance, err := callOne[*big.Int](ctx, client, token, erc20.Abi, "allowance", common.HexToAddress(string(owner)), common.HexToAddress(string(spender)))
	if err != nil {
		return xb.AmountBlockchain{}, err
	}
	return xb.NewAmountBlockchainFromBig(allowance), nil
}

func (client *Client) OwnerOf(ctx context.Context, token xb.Address, tokenID xb.AmountBlockchain) (xb.Address, error) {
	owner, err := callOne[common.Address](ctx, client, token, erc721.Abi, "ownerOf", tokenID.Int())
	if err != nil {
		return "", err
	}
	return toAddress(owner), nil
}

func (client *Client) GetApproved(ctx context.Context, token xb.Address, tokenID xb.AmountBlockchain) (xb.Address, error) {
	approved, err := callOne[common.Address](ctx, client, token, erc721.Abi, "getApproved", tokenID.Int())
	if err != nil {
		return "", err
	}
	return toAddress(approved), nil
}

func (client *Client) SemiFungibleBalance(ctx context.Context, token xb.Address, account xb.Address, tokenID xb.AmountBlockchain) (xb.AmountBlockchain, error) {
	balance, err := callOne[*big.Int](ctx, client, token, erc1155.Abi, "balanceOf", common.HexToAddress(string(account)), tokenID.Int())
	if err != nil {
		return xb.AmountBlockchain{}, err
	}
	return xb.NewAmountBlockchainFromBig(balance), nil
}

func (client *Client) IsApprovedForAll(ctx context.Context, token xb.Address, account xb.Address, operator xb.Address) (bool, error) {
	return callOne[bool](ctx, client, token, erc1155.Abi, "isApprovedForAll", common.HexToAddress(string(account)), common.HexToAddress(string(operator)))
}
