package client

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/address"
)

// AccountInfo is the leading part of System.Account, which every runtime shares
type AccountInfo struct {
	Nonce       types.U32
	Consumers   types.U32
	Providers   types.U32
	Sufficients types.U32
	Data        struct {
		Free     types.U128
		Reserved types.U128
		// fields after this point differ between runtimes
	}
}

func (a AccountInfo) Free() xb.AmountBlockchain {
	if a.Data.Free.Int == nil {
		return xb.NewAmountBlockchainFromUint64(0)
	}
	return xb.NewAmountBlockchainFromBig(a.Data.Free.Int)
}

// FetchAccount returns a zero account when the chain has never seen the address
func FetchAccount(ctx context.Context, storage Storage, account xb.Address) (AccountInfo, error) {
	id, _, err := address.Decode(account)
	if err != nil {
		return AccountInfo{}, err
	}
	var info AccountInfo
	_, err = storage.Query(ctx, "System", "Account", id.ToBytes(), &info)
	if err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}
