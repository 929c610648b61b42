// Package evmtest is an in-memory EVM backend that dispatches eth_call by ABI
package evmtest

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/multicall"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Handler receives the decoded call arguments and returns the values to encode
type Handler func(args []interface{}) ([]interface{}, error)

type contract struct {
	abis     []abi.ABI
	handlers map[string]Handler
}

func (c *contract) method(selector []byte) (*abi.Method, error) {
	for _, a := range c.abis {
		if m, err := a.MethodById(selector); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no method with id %x", selector)
}

type Backend struct {
	contracts map[common.Address]*contract
	Balances  map[common.Address]*big.Int
	// every eth_call, including those nested in a multicall
	Calls []string

	Nonce    uint64
	ChainId  *big.Int
	BaseFee  *big.Int
	TipCap   *big.Int
	Gas      uint64
	GasError error
}

func NewBackend() *Backend {
	return &Backend{
		contracts: map[common.Address]*contract{},
		Balances:  map[common.Address]*big.Int{},
		ChainId:   big.NewInt(1337),
		BaseFee:   big.NewInt(1_000_000_000),
		TipCap:    big.NewInt(100_000_000),
		Gas:       120_000,
	}
}

func (b *Backend) Handle(addr xb.Address, contractAbi abi.ABI, method string, handler Handler) {
	key := common.HexToAddress(string(addr))
	c, ok := b.contracts[key]
	if !ok {
		c = &contract{handlers: map[string]Handler{}}
		b.contracts[key] = c
	}
	c.abis = append(c.abis, contractAbi)
	c.handlers[method] = handler
}

// Returns registers a method that always returns the same values
func (b *Backend) Returns(addr xb.Address, contractAbi abi.ABI, method string, values ...interface{}) {
	b.Handle(addr, contractAbi, method, func([]interface{}) ([]interface{}, error) {
		return values, nil
	})
}

// Reverts registers a method that always fails
func (b *Backend) Reverts(addr xb.Address, contractAbi abi.ABI, method string) {
	b.Handle(addr, contractAbi, method, func([]interface{}) ([]interface{}, error) {
		return nil, fmt.Errorf("execution reverted")
	})
}

// Multicall deploys a multicall3 at addr that runs its calls against this backend
func (b *Backend) Multicall(addr xb.Address) {
	b.Handle(addr, multicall.Abi, "aggregate3", func(args []interface{}) ([]interface{}, error) {
		calls := *abi.ConvertType(args[0], new([]multicall.Call3)).(*[]multicall.Call3)
		results := make([]multicall.Result, len(calls))
		for i, call := range calls {
			target := call.Target
			out, err := b.CallContract(context.Background(), ethereum.CallMsg{To: &target, Data: call.CallData}, nil)
			if err != nil {
				if !call.AllowFailure {
					return nil, err
				}
				continue
			}
			results[i] = multicall.Result{Success: true, ReturnData: out}
		}
		return []interface{}{results}, nil
	})
}

func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, fmt.Errorf("no contract")
	}
	c, ok := b.contracts[*msg.To]
	if !ok {
		// calling an address without code returns nothing
		return []byte{}, nil
	}
	if len(msg.Data) < 4 {
		return nil, fmt.Errorf("execution reverted")
	}
	method, err := c.method(msg.Data[:4])
	if err != nil {
		return nil, fmt.Errorf("execution reverted: %v", err)
	}
	b.Calls = append(b.Calls, strings.ToLower(msg.To.Hex())+"."+method.RawName)
	handler, ok := c.handlers[method.RawName]
	if !ok {
		return nil, fmt.Errorf("execution reverted: %s not mocked", method.RawName)
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	values, err := handler(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(values...)
}

func (b *Backend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if balance, ok := b.Balances[account]; ok {
		return balance, nil
	}
	return big.NewInt(0), nil
}

func (b *Backend) SetBalance(account xb.Address, balance uint64) {
	b.Balances[common.HexToAddress(string(account))] = new(big.Int).SetUint64(balance)
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return b.Nonce, nil
}

func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.ChainId, nil
}

func (b *Backend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: b.BaseFee}, nil
}

func (b *Backend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return b.TipCap, nil
}

func (b *Backend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if b.GasError != nil {
		return 0, b.GasError
	}
	return b.Gas, nil
}

// Called reports whether method was called on addr
func (b *Backend) Called(addr xb.Address, method string) bool {
	key := strings.ToLower(common.HexToAddress(string(addr)).Hex()) + "." + method
	for _, call := range b.Calls {
		if call == key {
			return true
		}
	}
	return false
}
