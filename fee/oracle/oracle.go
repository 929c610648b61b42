// Package oracle fetches signed exchange rates for dynamic fee handlers
package oracle

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/cordialsys/xbridge/pkg/rest"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const SignatureLength = 65

// Rate is a signed rate message, rates are decimal strings in whole units
type Rate struct {
	BaseEffectiveRate   string  `json:"baseEffectiveRate"`
	TokenEffectiveRate  string  `json:"tokenEffectiveRate"`
	DstGasPrice         string  `json:"dstGasPrice"`
	Signature           hex.Hex `json:"signature"`
	FromDomainID        uint8   `json:"fromDomainID"`
	ToDomainID          uint8   `json:"toDomainID"`
	ResourceID          string  `json:"resourceID"`
	DataTimestamp       int64   `json:"dataTimestamp"`
	SignatureTimestamp  int64   `json:"signatureTimestamp"`
	ExpirationTimestamp int64   `json:"expirationTimestamp"`
	MsgGasLimit         string  `json:"msgGasLimit,omitempty"`
}

type rateResponse struct {
	Response *Rate `json:"response"`
}

// Client talks to the fee oracle REST api
type Client struct {
	rest *rest.Client
}

var _ fee.Oracle = &Client{}

func NewClient(url string, httpClient *http.Client, limiter *rate.Limiter) *Client {
	return &Client{
		rest: rest.NewClient("fee oracle", url, httpClient, limiter),
	}
}

// Rate fetches the current signed rate for a route
func (client *Client) Rate(ctx context.Context, route fee.Route) (*Rate, error) {
	var resp rateResponse
	path := fmt.Sprintf("/v1/rate/from/%d/to/%d/resource/%s", route.Source, route.Destination, route.ResourceID)
	if err := client.rest.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Response == nil {
		return nil, errors.Networkf(nil, "fee oracle returned no rate for %s", route)
	}
	r := resp.Response
	if r.ExpirationTimestamp <= time.Now().Unix() {
		return nil, errors.Errorf(errors.NetworkError, "fee oracle rate for %s expired at %d", route, r.ExpirationTimestamp)
	}
	logrus.WithFields(logrus.Fields{
		"route":      route.String(),
		"base_rate":  r.BaseEffectiveRate,
		"token_rate": r.TokenEffectiveRate,
		"expires":    r.ExpirationTimestamp,
	}).Debug("fetched oracle rate")
	return r, nil
}

// FeeData fetches a rate and encodes it for the fee handler
func (client *Client) FeeData(ctx context.Context, req fee.Request) ([]byte, error) {
	r, err := client.Rate(ctx, req.Route)
	if err != nil {
		return nil, err
	}
	return EncodeFeeData(r, req.Amount)
}

var rateMessageArguments = func() abi.Arguments {
	uintTy, _ := abi.NewType("uint256", "", nil)
	bytes32Ty, _ := abi.NewType("bytes32", "", nil)
	return abi.Arguments{
		{Name: "ber", Type: uintTy},
		{Name: "ter", Type: uintTy},
		{Name: "dstGasPrice", Type: uintTy},
		{Name: "expiresAt", Type: uintTy},
		{Name: "fromDomainID", Type: uintTy},
		{Name: "toDomainID", Type: uintTy},
		{Name: "resourceID", Type: bytes32Ty},
		{Name: "msgGasLimit", Type: uintTy},
	}
}()

// EncodeFeeData is the rate message as 32 byte words, then the 65 byte signature, then the amount
func EncodeFeeData(r *Rate, amount xb.AmountBlockchain) ([]byte, error) {
	ber, err := parseUnits(r.BaseEffectiveRate, 18)
	if err != nil {
		return nil, err
	}
	ter, err := parseUnits(r.TokenEffectiveRate, 18)
	if err != nil {
		return nil, err
	}
	gasPrice, err := parseUnits(r.DstGasPrice, 0)
	if err != nil {
		return nil, err
	}
	msgGasLimit, err := parseUnits(r.MsgGasLimit, 0)
	if err != nil {
		return nil, err
	}
	resourceID, err := xb.ParseResourceID(r.ResourceID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "oracle resource id: %v", err)
	}
	if len(r.Signature) != SignatureLength {
		return nil, errors.Wrapf(errors.ErrEncoding, "oracle signature is %d bytes, expected %d", len(r.Signature), SignatureLength)
	}
	if amount.Sign() < 0 {
		return nil, errors.Wrapf(errors.ErrEncoding, "negative amount %s", amount.String())
	}
	message, err := rateMessageArguments.Pack(
		ber, ter, gasPrice,
		big.NewInt(r.ExpirationTimestamp),
		big.NewInt(int64(r.FromDomainID)),
		big.NewInt(int64(r.ToDomainID)),
		[32]byte(resourceID),
		msgGasLimit,
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "oracle message: %v", err)
	}
	data := append(message, r.Signature...)
	return append(data, common.LeftPadBytes(amount.Int().Bytes(), 32)...), nil
}

// parseUnits turns a decimal string into an integer scaled by 10^decimals, empty is zero
func parseUnits(value string, decimals int32) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "invalid oracle value %q", value)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(errors.ErrEncoding, "negative oracle value %q", value)
	}
	return d.Shift(decimals).Truncate(0).BigInt(), nil
}
