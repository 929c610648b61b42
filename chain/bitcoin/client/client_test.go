package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cordialsys/xbridge/chain/bitcoin/client"
	"github.com/cordialsys/xbridge/errors"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	Ctx context.Context
}

func (s *ClientTestSuite) SetupTest() {
	s.Ctx = context.Background()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

const utxoResponse = `[
	{"txid": "1111111111111111111111111111111111111111111111111111111111111111", "vout": 0, "status": {"confirmed": false}, "value": 5000},
	{"txid": "2222222222222222222222222222222222222222222222222222222222222222", "vout": 3, "status": {"confirmed": true, "block_height": 120}, "value": 100000000}
]`

func (s *ClientTestSuite) TestUnspentOutputs() {
	require := s.Require()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/address/bcrt1q6qe0pcqqunr89n3m8ghwf437fhzq3jjdn7tct0/utxo", r.URL.Path)
		_, _ = w.Write([]byte(utxoResponse))
	}))
	defer server.Close()

	utxos, err := client.NewClient(server.URL, nil, nil).UnspentOutputs(s.Ctx, "bcrt1q6qe0pcqqunr89n3m8ghwf437fhzq3jjdn7tct0")
	require.NoError(err)
	require.Len(utxos, 2)
	require.EqualValues(3, *utxos[0].Vout)
	require.EqualValues(100_000_000, *utxos[0].Value)
	require.EqualValues(5000, *utxos[1].Value)
}

func (s *ClientTestSuite) TestUnspentOutputsMalformed() {
	require := s.Require()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"txid": "1111111111111111111111111111111111111111111111111111111111111111", "value": 5000}]`))
	}))
	defer server.Close()

	_, err := client.NewClient(server.URL, nil, nil).UnspentOutputs(s.Ctx, "addr")
	require.ErrorIs(err, errors.ErrMalformedUtxo)
}

func (s *ClientTestSuite) TestFeeRate() {
	require := s.Require()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/fee-estimates", r.URL.Path)
		_, _ = w.Write([]byte(`{"1": 87.882, "3": 20.5, "6": 10.1, "144": 1.027, "bad": 1}`))
	}))
	defer server.Close()
	indexer := client.NewClient(server.URL, nil, nil)

	estimates, err := indexer.FeeEstimates(s.Ctx)
	require.NoError(err)
	require.Len(estimates, 4)

	vectors := map[int]string{1: "87.882", 2: "87.882", 6: "10.1", 100: "10.1", 500: "1.027"}
	for target, expected := range vectors {
		rate, err := indexer.FeeRate(s.Ctx, target)
		require.NoError(err)
		require.Equal(expected, rate.String(), "target %d", target)
	}

	_, err = indexer.FeeRate(s.Ctx, 0)
	require.Equal(errors.NetworkError, errors.StatusOf(err))
}

func (s *ClientTestSuite) TestSubmitTx() {
	require := s.Require()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(http.MethodPost, r.Method)
		require.Equal("/tx", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		if string(body) == "deadbeef" {
			_, _ = w.Write([]byte("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("sendrawtransaction RPC error: TX decode failed"))
	}))
	defer server.Close()
	indexer := client.NewClient(server.URL, nil, nil)

	txid, err := indexer.SubmitTx(s.Ctx, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(err)
	require.Equal("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b", txid)

	_, err = indexer.SubmitTx(s.Ctx, []byte{0x01})
	require.ErrorContains(err, "TX decode failed")
	require.Equal(errors.NetworkError, errors.StatusOf(err))
}
