// Package substratetest is an in-memory substrate chain serving SCALE encoded storage
package substratetest

import (
	"context"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/extrinsic/extensions"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/address"
	"github.com/cordialsys/xbridge/chain/substrate/client"
	"github.com/cordialsys/xbridge/chain/substrate/tx_input"
)

// DepositCallIndex is where the fake runtime places SygmaBridge.deposit
var DepositCallIndex = types.CallIndex{SectionIndex: 0x5a, MethodIndex: 0x00}

type Chain struct {
	storage map[string][]byte
	// every storage query as pallet.item
	Queries []string

	Input      tx_input.TxInput
	QueryError error
}

var _ client.Chain = &Chain{}

func NewChain() *Chain {
	return &Chain{
		storage: map[string][]byte{},
		Input: tx_input.TxInput{
			Meta: tx_input.Metadata{
				Calls: []*tx_input.CallMeta{
					{Name: tx_input.DepositCall, SectionIndex: DepositCallIndex.SectionIndex, MethodIndex: DepositCallIndex.MethodIndex},
				},
				SignedExtensions: []extensions.SignedExtensionName{"CheckNonce"},
			},
			GenesisHash:   types.NewHash([]byte{0x91, 0xb1, 0x71, 0xbb}),
			CurHash:       types.NewHash([]byte{0x4c, 0x3e}),
			CurrentHeight: 4100,
			Rv:            types.RuntimeVersion{SpecVersion: 1250, TransactionVersion: 2},
			Tip:           1_000,
		},
	}
}

func storageKey(pallet string, item string, key []byte) string {
	return fmt.Sprintf("%s.%s/%x", pallet, item, key)
}

// Set SCALE encodes value as the entry at key
func (c *Chain) Set(pallet string, item string, key []byte, value interface{}) {
	bz, err := codec.Encode(value)
	if err != nil {
		panic(err)
	}
	c.storage[storageKey(pallet, item, key)] = bz
}

// SetAccount stores the System.Account entry of addr
func (c *Chain) SetAccount(addr xb.Address, nonce uint32, free *big.Int) {
	id, _, err := address.Decode(addr)
	if err != nil {
		panic(err)
	}
	info := client.AccountInfo{
		Nonce:     types.U32(nonce),
		Providers: 1,
	}
	info.Data.Free = types.NewU128(*free)
	info.Data.Reserved = types.NewU128(*big.NewInt(0))
	c.Set("System", "Account", id.ToBytes(), info)
}

func (c *Chain) Query(ctx context.Context, pallet string, item string, key []byte, target interface{}) (bool, error) {
	c.Queries = append(c.Queries, pallet+"."+item)
	if c.QueryError != nil {
		return false, c.QueryError
	}
	bz, ok := c.storage[storageKey(pallet, item, key)]
	if !ok {
		return false, nil
	}
	return true, codec.Decode(bz, target)
}

func (c *Chain) Queried(pallet string, item string) bool {
	for _, q := range c.Queries {
		if q == pallet+"."+item {
			return true
		}
	}
	return false
}

func (c *Chain) FetchTxInput(ctx context.Context, sender xb.Address) (*tx_input.TxInput, error) {
	input := c.Input
	account, err := client.FetchAccount(ctx, c, sender)
	if err != nil {
		return nil, err
	}
	input.Nonce = uint64(account.Nonce)
	return &input, nil
}
