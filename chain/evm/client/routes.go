package client

import (
	"context"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/feehandler"
	"github.com/cordialsys/xbridge/chain/evm/abi/multicall"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// RouteStatus tells whether a route has a fee handler and of which type
type RouteStatus struct {
	Route   fee.Route         `json:"route"`
	Handler xb.Address        `json:"handler,omitempty"`
	Type    xb.FeeHandlerType `json:"type,omitempty"`
}

func (s RouteStatus) Registered() bool {
	return s.Handler != "" && s.Type != xb.FeeHandlerUndefined
}

// CheckRoutes looks up the fee handler of every route with one multicall, then their types with another.
// A failing lookup leaves that route unregistered rather than failing the batch.
func (client *Client) CheckRoutes(ctx context.Context, routes []fee.Route) ([]RouteStatus, error) {
	statuses := make([]RouteStatus, len(routes))
	if len(routes) == 0 {
		return statuses, nil
	}
	if client.Domain.FeeRouter == "" {
		return nil, errors.Errorf(errors.ConfigurationError, "domain %d has no fee router address", client.Domain.ID)
	}
	router := common.HexToAddress(string(client.Domain.FeeRouter))

	calls := make([]multicall.Call3, len(routes))
	for i, route := range routes {
		statuses[i].Route = route
		data, err := feehandler.PackFeeHandlerAddress(route.Destination, route.ResourceID)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrEncoding, "packing route %s: %v", route, err)
		}
		calls[i] = multicall.Call3{Target: router, AllowFailure: true, CallData: data}
	}
	results, err := client.aggregate(ctx, calls)
	if err != nil {
		return nil, err
	}
	for i, result := range results {
		if !result.Success {
			continue
		}
		addr, err := unpackOne[common.Address](feehandler.Abi, "_domainResourceIDToFeeHandlerAddress", result.ReturnData)
		if err != nil {
			logrus.WithError(err).WithField("route", routes[i].String()).Warn("could not decode fee handler address")
			continue
		}
		statuses[i].Handler = toAddress(addr)
	}

	// second round, only for routes with a handler
	typeCalls := []multicall.Call3{}
	indexes := []int{}
	typeData, err := feehandler.PackFeeHandlerType()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "packing feeHandlerType: %v", err)
	}
	for i, status := range statuses {
		if status.Handler == "" {
			continue
		}
		typeCalls = append(typeCalls, multicall.Call3{
			Target:       common.HexToAddress(string(status.Handler)),
			AllowFailure: true,
			CallData:     typeData,
		})
		indexes = append(indexes, i)
	}
	if len(typeCalls) == 0 {
		return statuses, nil
	}
	results, err = client.aggregate(ctx, typeCalls)
	if err != nil {
		return nil, err
	}
	for j, result := range results {
		i := indexes[j]
		if !result.Success {
			continue
		}
		kind, err := unpackOne[string](feehandler.Abi, "feeHandlerType", result.ReturnData)
		if err != nil {
			logrus.WithError(err).WithField("handler", statuses[i].Handler).Warn("could not decode fee handler type")
			continue
		}
		statuses[i].Type = xb.ParseFeeHandlerType(kind)
	}
	return statuses, nil
}

func (client *Client) aggregate(ctx context.Context, calls []multicall.Call3) ([]multicall.Result, error) {
	data, err := multicall.PackAggregate3(calls)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "packing aggregate3: %v", err)
	}
	out, err := client.call(ctx, client.Domain.MulticallAddress(), data)
	if err != nil {
		return nil, err
	}
	results, err := multicall.UnpackAggregate3(out)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "decoding aggregate3: %v", err)
	}
	if len(results) != len(calls) {
		return nil, errors.Wrapf(errors.ErrEncoding, "aggregate3 returned %d results for %d calls", len(results), len(calls))
	}
	return results, nil
}
