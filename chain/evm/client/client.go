package client

import (
	"context"
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Backend is the read-only part of an EVM node the bridge needs
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// InputBackend can also supply what turns a call into a transaction
type InputBackend interface {
	Backend
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
}

var _ InputBackend = &ethclient.Client{}

// Client reads bridge, fee handler and token state of one EVM domain
type Client struct {
	Domain  config.DomainConfig
	Backend Backend
}

func NewClient(domain config.DomainConfig, backend Backend) *Client {
	return &Client{
		Domain:  domain,
		Backend: backend,
	}
}

// Dial connects to the domain's configured rpc
func Dial(ctx context.Context, domain config.DomainConfig) (*Client, error) {
	url, err := domain.Rpc.LoadNonEmpty()
	if err != nil {
		return nil, errors.Errorf(errors.ConfigurationError, "rpc for domain %d: %v", domain.ID, err)
	}
	backend, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Networkf(err, "dialing rpc for domain %d", domain.ID)
	}
	return NewClient(domain, backend), nil
}

func (client *Client) call(ctx context.Context, contract xb.Address, data []byte) ([]byte, error) {
	to := common.HexToAddress(string(contract))
	logrus.WithFields(logrus.Fields{
		"domain":   client.Domain.ID,
		"contract": contract,
		"selector": common.Bytes2Hex(data[:min(4, len(data))]),
	}).Trace("eth_call")
	out, err := client.Backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Networkf(err, "call to %s on domain %d", contract, client.Domain.ID)
	}
	return out, nil
}

// callOne packs a call, runs it and decodes the single return value
func callOne[T any](ctx context.Context, client *Client, contract xb.Address, contractAbi abi.ABI, method string, args ...interface{}) (T, error) {
	var result T
	data, err := contractAbi.Pack(method, args...)
	if err != nil {
		return result, errors.Wrapf(errors.ErrEncoding, "packing %s: %v", method, err)
	}
	out, err := client.call(ctx, contract, data)
	if err != nil {
		return result, err
	}
	return unpackOne[T](contractAbi, method, out)
}

func unpackOne[T any](contractAbi abi.ABI, method string, out []byte) (T, error) {
	var result T
	values, err := contractAbi.Unpack(method, out)
	if err != nil {
		return result, errors.Wrapf(errors.ErrEncoding, "decoding %s: %v", method, err)
	}
	if len(values) == 0 {
		return result, errors.Wrapf(errors.ErrEncoding, "%s returned nothing", method)
	}
	return *abi.ConvertType(values[0], new(T)).(*T), nil
}

func toAddress(addr common.Address) xb.Address {
	if addr == (common.Address{}) {
		return ""
	}
	return xb.Address(addr.Hex())
}
