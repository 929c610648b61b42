package client

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/sirupsen/logrus"
)

const (
	FeeRouterPallet     = "SygmaFeeHandlerRouter"
	BasicFeePallet      = "SygmaBasicFeeHandler"
	PercentageFeePallet = "SygmaPercentageFeeHandler"
)

// Percentage fee rates are stored in basis points
const BasisPoints = 10_000

// variants of the pallet FeeHandlerType enum
const (
	handlerBasic      = 0
	handlerPercentage = 1
	handlerDynamic    = 2
)

// PercentageFeeRate is the (rate, lower bound, upper bound) tuple of the percentage pallet
type PercentageFeeRate struct {
	Rate       types.U32
	LowerBound types.U128
	UpperBound types.U128
}

// FeeReader reads fee handler state from the fee pallets of the source domain
type FeeReader struct {
	domain  config.DomainConfig
	storage Storage
}

var _ fee.StateReader = &FeeReader{}

func NewFeeReader(domain config.DomainConfig, storage Storage) *FeeReader {
	return &FeeReader{domain: domain, storage: storage}
}

// RouteKey is the (DomainID, AssetId) key fee pallets index their maps by
func RouteKey(destination xb.DomainID, resource xb.Resource) ([]byte, error) {
	if len(resource.AssetLocation) == 0 {
		return nil, errors.Errorf(errors.ConfigurationError, "resource %s has no asset location", resource.ResourceID)
	}
	key := []byte{byte(destination)}
	// AssetId::Concrete
	key = append(key, 0)
	return append(key, resource.AssetLocation...), nil
}

func (r *FeeReader) routeKey(route fee.Route) ([]byte, error) {
	resource, err := r.domain.Resource(xb.ResourceByID(route.ResourceID))
	if err != nil {
		return nil, err
	}
	return RouteKey(route.Destination, resource)
}

// HandlerFor answers with the pallet serving the route in place of a handler address
func (r *FeeReader) HandlerFor(ctx context.Context, route fee.Route) (xb.FeeHandlerType, xb.Address, error) {
	key, err := r.routeKey(route)
	if err != nil {
		return xb.FeeHandlerUndefined, "", err
	}
	var kind types.U8
	ok, err := r.storage.Query(ctx, FeeRouterPallet, "HandlerType", key, &kind)
	if err != nil {
		return xb.FeeHandlerUndefined, "", err
	}
	if !ok {
		return xb.FeeHandlerUndefined, "", nil
	}
	switch kind {
	case handlerBasic:
		return xb.FeeHandlerBasic, BasicFeePallet, nil
	case handlerPercentage:
		return xb.FeeHandlerPercentage, PercentageFeePallet, nil
	case handlerDynamic:
		return xb.FeeHandlerDynamic, FeeRouterPallet, nil
	}
	logrus.WithFields(logrus.Fields{
		"route": route.String(),
		"kind":  kind,
	}).Warn("unknown fee handler variant")
	return xb.FeeHandlerUndefined, "", errors.Wrapf(errors.ErrUnsupportedFeeHandler, "variant %d for route %s", kind, route)
}

// FixedFee is charged in the transferred asset
func (r *FeeReader) FixedFee(ctx context.Context, handler xb.Address, req fee.Request) (xb.AmountBlockchain, xb.Address, error) {
	key, err := RouteKey(req.Destination, req.Resource)
	if err != nil {
		return xb.AmountBlockchain{}, "", err
	}
	var amount types.U128
	ok, err := r.storage.Query(ctx, BasicFeePallet, "AssetFees", key, &amount)
	if err != nil {
		return xb.AmountBlockchain{}, "", err
	}
	if !ok {
		return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrRouteNotRegistered, "no basic fee for %s", req.Route)
	}
	return u128(amount), feeToken(req.Resource), nil
}

func (r *FeeReader) PercentageFee(ctx context.Context, handler xb.Address, req fee.Request) (fee.PercentageRate, error) {
	key, err := RouteKey(req.Destination, req.Resource)
	if err != nil {
		return fee.PercentageRate{}, err
	}
	var stored PercentageFeeRate
	ok, err := r.storage.Query(ctx, PercentageFeePallet, "AssetFeeRate", key, &stored)
	if err != nil {
		return fee.PercentageRate{}, err
	}
	if !ok {
		return fee.PercentageRate{}, errors.Wrapf(errors.ErrRouteNotRegistered, "no percentage fee for %s", req.Route)
	}
	return fee.PercentageRate{
		Rate:   fee.RateFromBasisPoints(xb.NewAmountBlockchainFromUint64(uint64(stored.Rate)), BasisPoints),
		MinFee: u128(stored.LowerBound),
		MaxFee: u128(stored.UpperBound),
	}, nil
}

func (r *FeeReader) DynamicFee(ctx context.Context, handler xb.Address, req fee.Request, feeData []byte) (xb.AmountBlockchain, xb.Address, error) {
	return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrUnsupportedFeeHandler, "dynamic fees are not available on substrate route %s", req.Route)
}

func feeToken(resource xb.Resource) xb.Address {
	if resource.Native {
		return ""
	}
	return xb.Address(resource.AssetLocation.String())
}

func u128(value types.U128) xb.AmountBlockchain {
	if value.Int == nil {
		return xb.NewAmountBlockchainFromUint64(0)
	}
	return xb.NewAmountBlockchainFromBig(value.Int)
}
