package oracle_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/fee/oracle"
	"github.com/cordialsys/xbridge/testutil"
	"github.com/stretchr/testify/require"
)

const (
	resourceID = "0x0000000000000000000000000000000000000000000000000000000000000300"
	farFuture  = 4102444800
)

var signature = "0x" + strings.Repeat("ab", 65)

func rateJson(expires int64) string {
	return fmt.Sprintf(`{"response":{
		"baseEffectiveRate":"0.000445",
		"tokenEffectiveRate":"15.11",
		"dstGasPrice":"30000000000",
		"signature":"%s",
		"fromDomainID":1,
		"toDomainID":2,
		"resourceID":"%s",
		"dataTimestamp":1700000000,
		"signatureTimestamp":1700000001,
		"expirationTimestamp":%d,
		"msgGasLimit":"100000"
	}}`, signature, resourceID, expires)
}

func request(amount uint64) fee.Request {
	return fee.Request{
		Route:  fee.Route{Source: 1, Destination: 2, ResourceID: testutil.ResourceID(resourceID)},
		Amount: xb.NewAmountBlockchainFromUint64(amount),
	}
}

func word(hexValue string) string {
	return strings.Repeat("0", 64-len(hexValue)) + hexValue
}

func TestFeeData(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(rateJson(farFuture)))
	}))
	defer server.Close()

	client := oracle.NewClient(server.URL, nil, nil)
	data, err := client.FeeData(context.Background(), request(1_000_000))
	require.NoError(t, err)
	require.Equal(t, "/v1/rate/from/1/to/2/resource/"+resourceID, path)

	expected := word("194b9a2ecd000") + // 0.000445e18
		word("d1b180f19c270000") + // 15.11e18
		word("6fc23ac00") + // 30 gwei
		word(fmt.Sprintf("%x", farFuture)) +
		word("1") +
		word("2") +
		strings.TrimPrefix(resourceID, "0x") +
		word("186a0") +
		strings.TrimPrefix(signature, "0x") +
		word("f4240")
	require.Equal(t, testutil.FromHex(expected), data)
	require.Len(t, data, 8*32+65+32)
}

func TestExpiredRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateJson(1)))
	}))
	defer server.Close()

	_, err := oracle.NewClient(server.URL, nil, nil).FeeData(context.Background(), request(1))
	require.ErrorContains(t, err, "expired")
	require.Equal(t, errors.NetworkError, errors.StatusOf(err))
}

func TestOracleErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"route not supported"}`))
	}))
	defer server.Close()

	_, err := oracle.NewClient(server.URL, nil, nil).Rate(context.Background(), request(1).Route)
	require.ErrorContains(t, err, "route not supported")
	require.Equal(t, errors.NetworkError, errors.StatusOf(err))

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer empty.Close()
	_, err = oracle.NewClient(empty.URL, nil, nil).Rate(context.Background(), request(1).Route)
	require.Equal(t, errors.NetworkError, errors.StatusOf(err))
}

func TestEncodeFeeDataRejects(t *testing.T) {
	rate := &oracle.Rate{
		BaseEffectiveRate:  "0.1",
		TokenEffectiveRate: "1",
		ResourceID:         resourceID,
		Signature:          make([]byte, 64),
	}
	_, err := oracle.EncodeFeeData(rate, xb.NewAmountBlockchainFromUint64(1))
	require.ErrorIs(t, err, errors.ErrEncoding)

	rate.Signature = make([]byte, 65)
	rate.BaseEffectiveRate = "-1"
	_, err = oracle.EncodeFeeData(rate, xb.NewAmountBlockchainFromUint64(1))
	require.ErrorIs(t, err, errors.ErrEncoding)

	rate.BaseEffectiveRate = "abc"
	_, err = oracle.EncodeFeeData(rate, xb.NewAmountBlockchainFromUint64(1))
	require.ErrorIs(t, err, errors.ErrEncoding)

	rate.BaseEffectiveRate = "0.1"
	data, err := oracle.EncodeFeeData(rate, xb.NewAmountBlockchainFromUint64(1))
	require.NoError(t, err)
	require.Len(t, data, 8*32+65+32)
}
