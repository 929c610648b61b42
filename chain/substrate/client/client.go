package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/substrate/tx"
	"github.com/cordialsys/xbridge/chain/substrate/tx_input"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/sirupsen/logrus"
)

// Storage reads decoded pallet storage
type Storage interface {
	// Query decodes pallet.item at the SCALE encoded map key into target, reporting false when the entry is absent.
	Query(ctx context.Context, pallet string, item string, key []byte, target interface{}) (bool, error)
}

// Chain is what a substrate transfer needs from the network
type Chain interface {
	Storage
	FetchTxInput(ctx context.Context, sender xb.Address) (*tx_input.TxInput, error)
}

// Client talks to a substrate node over its RPC session
type Client struct {
	Domain config.DomainConfig
	api    *gsrpc.SubstrateAPI
}

var _ Chain = &Client{}

// Dial opens the RPC session of the domain
func Dial(domain config.DomainConfig) (*Client, error) {
	url, err := domain.Rpc.LoadNonEmpty()
	if err != nil {
		return nil, errors.Errorf(errors.ConfigurationError, "domain %d rpc: %v", domain.ID, err)
	}
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, errors.Networkf(err, "could not connect to domain %d", domain.ID)
	}
	return &Client{Domain: domain, api: api}, nil
}

func (client *Client) Query(ctx context.Context, pallet string, item string, key []byte, target interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{
		"domain": client.Domain.ID,
		"pallet": pallet,
		"item":   item,
		"key":    codec.HexEncodeToString(key),
	}).Trace("query storage")
	meta, err := client.api.RPC.State.GetMetadataLatest()
	if err != nil {
		return false, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch metadata")
	}
	var args [][]byte
	if key != nil {
		args = append(args, key)
	}
	storageKey, err := types.CreateStorageKey(meta, pallet, item, args...)
	if err != nil {
		return false, errors.Errorf(errors.ConfigurationError, "chain has no storage %s.%s: %v", pallet, item, err)
	}
	ok, err := client.api.RPC.State.GetStorageLatest(storageKey, target)
	if err != nil {
		return false, errors.Networkf(AsRpcErrorMaybe(err), "could not read %s.%s", pallet, item)
	}
	return ok, nil
}

// FetchTxInput reads the runtime, genesis and head of the chain and the nonce of sender.
// The tip starts at the configured gas tip of the domain.
func (client *Client) FetchTxInput(ctx context.Context, sender xb.Address) (*tx_input.TxInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txInput := tx_input.NewTxInput()
	txInput.Tip = client.Domain.GasTip
	rpc := client.api.RPC
	meta, err := rpc.State.GetMetadataLatest()
	if err != nil {
		return nil, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch metadata")
	}
	txInput.Meta, err = tx_input.ParseMeta(meta)
	if err != nil {
		return nil, err
	}
	txInput.GenesisHash, err = rpc.Chain.GetBlockHash(0)
	if err != nil {
		return nil, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch genesis hash")
	}
	rv, err := rpc.State.GetRuntimeVersionLatest()
	if err != nil {
		return nil, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch runtime version")
	}
	txInput.Rv = *rv
	header, err := rpc.Chain.GetHeaderLatest()
	if err != nil {
		return nil, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch latest header")
	}
	txInput.CurrentHeight = uint64(header.Number)
	txInput.CurHash, err = rpc.Chain.GetBlockHash(txInput.CurrentHeight)
	if err != nil {
		return nil, errors.Networkf(AsRpcErrorMaybe(err), "could not fetch block hash")
	}
	account, err := FetchAccount(ctx, client, sender)
	if err != nil {
		return nil, err
	}
	txInput.Nonce = uint64(account.Nonce)
	return txInput, nil
}

type RpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AsRpcErrorMaybe recovers the .data of an RPC error, which the rpc client omits from Error()
func AsRpcErrorMaybe(inputError error) error {
	bz, err := json.Marshal(inputError)
	if err != nil {
		return inputError
	}
	var outputError RpcError
	err = json.Unmarshal(bz, &outputError)
	if err != nil {
		return inputError
	}
	if outputError.Code != 0 && len(outputError.Message) > 0 {
		if outputError.Data != nil {
			return fmt.Errorf("%s: %v (%d)", outputError.Message, outputError.Data, outputError.Code)
		}
		return fmt.Errorf("%s (%d)", outputError.Message, outputError.Code)
	}
	return inputError
}

// SubmitTx submits a signed extrinsic and returns its hash
func (client *Client) SubmitTx(ctx context.Context, extrinsic *tx.Tx) (string, error) {
	if !extrinsic.IsSigned() {
		return "", errors.Wrapf(errors.ErrMissingField, "signature")
	}
	data, err := extrinsic.Serialize()
	if err != nil {
		return "", errors.Wrapf(errors.ErrEncoding, "%v", err)
	}

	var res string
	encoded := codec.HexEncodeToString(data)
	logrus.WithField("tx", encoded).Debug("submitting tx")
	err = client.api.Client.Call(&res, "author_submitExtrinsic", encoded)
	if err != nil {
		err = AsRpcErrorMaybe(err)
		if strings.Contains(strings.ToLower(err.Error()), "transaction already imported") {
			return extrinsic.Hash(), nil
		}
		return "", errors.Networkf(err, "could not submit extrinsic")
	}
	return res, nil
}
