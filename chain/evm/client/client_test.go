package client_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/bridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/erc20"
	"github.com/cordialsys/xbridge/chain/evm/abi/feehandler"
	"github.com/cordialsys/xbridge/chain/evm/client"
	"github.com/cordialsys/xbridge/chain/evm/tx"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/cordialsys/xbridge/testutil"
	"github.com/cordialsys/xbridge/testutil/evmtest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

const (
	sender        = "0x5c1f5961696bad2e73f73417f07ef55c62a2dc5b"
	basicHandler  = "0x8dfbf6e3fd1d7a0f3d2c5ea0b17ba2a4ff8b2e9c"
	pctHandler    = "0x3e2ab5b4a7b6b9e4d1b5c91ff6e3f9c0b8d36a71"
	unlisted      = "0x9999999999999999999999999999999999999999"
	fungibleAsset = "0x02091eeff969b33a5ce8a729dae325879bf76f90"
	usdcToken     = "0x78e5b9cec9aea29071f070c8cc561f692b3511a6"
)

var (
	usdc   = testutil.ResourceID("0x0000000000000000000000000000000000000000000000000000000000000300")
	sygbtc = testutil.ResourceID("0x0000000000000000000000000000000000000000000000000000000000000700")
	nft    = testutil.ResourceID("0x0000000000000000000000000000000000000000000000000000000000000200")
)

type ClientTestSuite struct {
	suite.Suite
	domain  config.DomainConfig
	backend *evmtest.Backend
	client  *client.Client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	domain, err := testutil.LocalConfig().GetDomainConfig(1)
	s.Require().NoError(err)
	s.domain = domain
	s.backend = evmtest.NewBackend()
	s.backend.Multicall(domain.MulticallAddress())
	s.client = client.NewClient(domain, s.backend)

	// routes 1->2 usdc (basic), 1->3 usdc (unlisted handler), 1->2 sygbtc (percentage)
	s.backend.Handle(domain.FeeRouter, feehandler.Abi, "_domainResourceIDToFeeHandlerAddress", func(args []interface{}) ([]interface{}, error) {
		destination := args[0].(uint8)
		rid := xb.ResourceID(args[1].([32]byte))
		switch {
		case destination == 2 && rid == usdc:
			return []interface{}{common.HexToAddress(basicHandler)}, nil
		case destination == 3 && rid == usdc:
			return []interface{}{common.HexToAddress(unlisted)}, nil
		case destination == 2 && rid == sygbtc:
			return []interface{}{common.HexToAddress(pctHandler)}, nil
		case destination == 9:
			return nil, fmt.Errorf("execution reverted")
		}
		return []interface{}{common.Address{}}, nil
	})
	s.backend.Returns(basicHandler, feehandler.Abi, "feeHandlerType", "basic")
	s.backend.Returns(pctHandler, feehandler.Abi, "feeHandlerType", "percentage")
	s.backend.Returns(unlisted, feehandler.Abi, "feeHandlerType", "twap")
	s.backend.Returns(basicHandler, feehandler.Abi, "calculateFee", big.NewInt(100), common.Address{})
	s.backend.Returns(unlisted, feehandler.Abi, "calculateFee", big.NewInt(2500), common.HexToAddress(usdcToken))
	// 1% and bounds 100..5000
	s.backend.Returns(pctHandler, feehandler.Abi, "_domainResourceIDToFee", big.NewInt(1_000_000))
	s.backend.Returns(pctHandler, feehandler.Abi, "_resourceIDToFeeBounds", big.NewInt(100), big.NewInt(5000))
}

func (s *ClientTestSuite) route(destination xb.DomainID, rid xb.ResourceID) fee.Route {
	return fee.Route{Source: 1, Destination: destination, ResourceID: rid}
}

func (s *ClientTestSuite) TestHandlerAddress() {
	require := s.Require()
	ctx := context.Background()
	s.backend.Handle(s.domain.Bridge, bridge.Abi, "_resourceIDToHandlerAddress", func(args []interface{}) ([]interface{}, error) {
		if xb.ResourceID(args[0].([32]byte)) == usdc {
			return []interface{}{common.HexToAddress(fungibleAsset)}, nil
		}
		return []interface{}{common.Address{}}, nil
	})

	handler, err := s.client.HandlerAddress(ctx, usdc)
	require.NoError(err)
	require.True(handler.EqualFold(fungibleAsset))

	handler, err = s.client.HandlerAddress(ctx, nft)
	require.NoError(err)
	require.Empty(handler)
}

func (s *ClientTestSuite) TestHandlerFor() {
	require := s.Require()
	ctx := context.Background()
	reader := s.client.FeeReader()

	kind, handler, err := reader.HandlerFor(ctx, s.route(2, usdc))
	require.NoError(err)
	require.Equal(xb.FeeHandlerBasic, kind)
	require.True(handler.EqualFold(basicHandler))
	// known from config, so the type is not read on chain
	require.False(s.backend.Called(basicHandler, "feeHandlerType"))

	kind, handler, err = reader.HandlerFor(ctx, s.route(3, usdc))
	require.NoError(err)
	require.Equal(xb.FeeHandlerDynamic, kind)
	require.True(handler.EqualFold(unlisted))
	require.True(s.backend.Called(unlisted, "feeHandlerType"))

	kind, _, err = reader.HandlerFor(ctx, s.route(2, nft))
	require.NoError(err)
	require.Equal(xb.FeeHandlerUndefined, kind)

	_, _, err = reader.HandlerFor(ctx, s.route(9, usdc))
	require.Equal(errors.NetworkError, errors.StatusOf(err))
}

func (s *ClientTestSuite) TestCalculate() {
	require := s.Require()
	ctx := context.Background()
	reader := s.client.FeeReader()
	usdcResource, err := testutil.LocalConfig().ResolveResource(1, xb.ResourceByID(usdc))
	require.NoError(err)

	req := fee.Request{
		Route:    s.route(2, usdc),
		Resource: usdcResource,
		Sender:   sender,
		Amount:   xb.NewAmountBlockchainFromUint64(1_000_000),
	}
	basic, err := fee.Calculate(ctx, reader, nil, req)
	require.NoError(err)
	require.Equal(xb.FeeHandlerBasic, basic.Type)
	require.EqualValues(100, basic.Fee.Uint64())
	require.EqualValues(1_000_000, basic.NetAmount.Uint64())
	require.True(basic.IsNative())

	req.Route = s.route(2, sygbtc)
	pct, err := fee.Calculate(ctx, reader, nil, req)
	require.NoError(err)
	require.Equal(xb.FeeHandlerPercentage, pct.Type)
	require.Equal("0.01", pct.Rate.String())
	require.EqualValues(5000, pct.Fee.Uint64())
	require.EqualValues(995_000, pct.NetAmount.Uint64())
	require.EqualValues(100, pct.MinFee.Uint64())

	req.Route = s.route(2, nft)
	_, err = fee.Calculate(ctx, reader, nil, req)
	require.ErrorIs(err, errors.ErrRouteNotRegistered)
}

func (s *ClientTestSuite) TestDynamicFee() {
	require := s.Require()
	amount, token, err := s.client.FeeReader().DynamicFee(context.Background(), unlisted, fee.Request{
		Route:  s.route(3, usdc),
		Sender: sender,
	}, []byte{0xde, 0xad})
	require.NoError(err)
	require.EqualValues(2500, amount.Uint64())
	require.True(token.EqualFold(usdcToken))
}

func (s *ClientTestSuite) TestCheckRoutes() {
	require := s.Require()
	statuses, err := s.client.CheckRoutes(context.Background(), []fee.Route{
		s.route(2, usdc),
		s.route(3, usdc),
		s.route(2, nft),
		s.route(9, usdc),
		s.route(2, sygbtc),
	})
	require.NoError(err)
	require.Len(statuses, 5)

	require.True(statuses[0].Registered())
	require.Equal(xb.FeeHandlerBasic, statuses[0].Type)
	require.Equal(xb.FeeHandlerDynamic, statuses[1].Type)
	require.False(statuses[2].Registered())
	require.Empty(statuses[2].Handler)
	// a reverting lookup is reported as unregistered
	require.False(statuses[3].Registered())
	require.Equal(xb.FeeHandlerPercentage, statuses[4].Type)
	require.Equal(s.route(9, usdc), statuses[3].Route)

	statuses, err = s.client.CheckRoutes(context.Background(), nil)
	require.NoError(err)
	require.Empty(statuses)
}

func (s *ClientTestSuite) TestTokenReads() {
	require := s.Require()
	ctx := context.Background()
	s.backend.Returns(usdcToken, erc20.Abi, "balanceOf", big.NewInt(42))
	s.backend.Returns(usdcToken, erc20.Abi, "allowance", big.NewInt(7))
	s.backend.SetBalance(sender, 1_000)

	balance, err := s.client.TokenBalance(ctx, usdcToken, sender)
	require.NoError(err)
	require.EqualValues(42, balance.Uint64())

	allowance, err := s.client.Allowance(ctx, usdcToken, sender, fungibleAsset)
	require.NoError(err)
	require.EqualValues(7, allowance.Uint64())

	native, err := s.client.NativeBalance(ctx, sender)
	require.NoError(err)
	require.EqualValues(1_000, native.Uint64())

	// no code at the address
	_, err = s.client.TokenBalance(ctx, "0x0000000000000000000000000000000000000bad", sender)
	require.ErrorIs(err, errors.ErrEncoding)
}

func (s *ClientTestSuite) TestFetchTxInput() {
	require := s.Require()
	s.backend.Nonce = 3
	deposit := tx.New("deposit", sender, s.domain.Bridge, []byte{1, 2, 3, 4}, xb.AmountBlockchain{})

	input, err := s.client.FetchTxInput(context.Background(), deposit, xb.Aggressive)
	require.NoError(err)
	require.EqualValues(3, input.Nonce)
	require.EqualValues(1337, input.ChainId.Uint64())
	require.EqualValues(150_000_000, input.GasTipCap.Uint64())
	require.EqualValues(2_150_000_000, input.GasFeeCap.Uint64())
	require.EqualValues(120_000, input.GasLimit)

	s.backend.GasError = fmt.Errorf("execution reverted: ERC20: insufficient allowance")
	input, err = s.client.FetchTxInput(context.Background(), deposit, xb.Market)
	require.NoError(err)
	require.EqualValues(client.DefaultGasLimit, input.GasLimit)

	s.backend.GasError = fmt.Errorf("connection refused")
	_, err = s.client.FetchTxInput(context.Background(), deposit, xb.Market)
	require.Equal(errors.NetworkError, errors.StatusOf(err))
}
