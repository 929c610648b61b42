package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/bitcoin/tx_input"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/pkg/rest"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Default confirmation target used for fee estimates
const DefaultConfirmationTarget = 6

type UtxoStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height,omitempty"`
}

type UtxoResponse struct {
	tx_input.Utxo
	Status UtxoStatus `json:"status"`
}

// Client talks to an esplora style indexer
type Client struct {
	rest *rest.Client
}

func NewClient(url string, httpClient *http.Client, limiter *rate.Limiter) *Client {
	return &Client{rest: rest.NewClient("indexer", url, httpClient, limiter)}
}

// UnspentOutputs lists the utxos of an address, confirmed first, in the order the indexer returns them
func (client *Client) UnspentOutputs(ctx context.Context, addr xb.Address) ([]tx_input.Utxo, error) {
	var data []UtxoResponse
	if err := client.rest.Get(ctx, fmt.Sprintf("/address/%s/utxo", addr), &data); err != nil {
		return nil, fmt.Errorf("could not fetch utxos of %s: %w", addr, err)
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Status.Confirmed && !data[j].Status.Confirmed
	})
	utxos := make([]tx_input.Utxo, len(data))
	for i, u := range data {
		utxos[i] = u.Utxo
	}
	logrus.WithFields(logrus.Fields{
		"address": addr,
		"count":   len(utxos),
	}).Debug("fetched utxos")
	return utxos, tx_input.Validate(utxos)
}

// FeeEstimates maps a confirmation target in blocks to a fee rate in sats per vbyte
func (client *Client) FeeEstimates(ctx context.Context) (map[int]xb.AmountHumanReadable, error) {
	var data map[string]decimal.Decimal
	if err := client.rest.Get(ctx, "/fee-estimates", &data); err != nil {
		return nil, fmt.Errorf("could not fetch fee estimates: %w", err)
	}
	estimates := map[int]xb.AmountHumanReadable{}
	for target, rate := range data {
		blocks, err := strconv.Atoi(target)
		if err != nil {
			logrus.WithField("target", target).Warn("ignoring fee estimate with invalid target")
			continue
		}
		estimates[blocks] = xb.AmountHumanReadable(rate)
	}
	return estimates, nil
}

// FeeRate picks the estimate for the closest target that is not slower than the requested one
func (client *Client) FeeRate(ctx context.Context, target int) (xb.AmountHumanReadable, error) {
	estimates, err := client.FeeEstimates(ctx)
	if err != nil {
		return xb.AmountHumanReadable{}, err
	}
	best := -1
	for blocks := range estimates {
		if blocks <= target && blocks > best {
			best = blocks
		}
	}
	if best < 0 {
		return xb.AmountHumanReadable{}, errors.Networkf(nil, "indexer has no fee estimate for %d blocks or less", target)
	}
	return estimates[best], nil
}

// SubmitTx broadcasts a signed transaction and returns its id
func (client *Client) SubmitTx(ctx context.Context, signed []byte) (string, error) {
	var txid string
	if err := client.rest.Post(ctx, "/tx", "text/plain", []byte(hex.EncodeToString(signed)), &txid); err != nil {
		return "", fmt.Errorf("could not broadcast transaction: %w", err)
	}
	return txid, nil
}
