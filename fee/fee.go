package fee

import (
	"context"
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Route is the (source, destination, resource) triple fee handlers are registered for
type Route struct {
	Source      xb.DomainID
	Destination xb.DomainID
	ResourceID  xb.ResourceID
}

func (r Route) String() string {
	return fmt.Sprintf("%d->%d/%s", r.Source, r.Destination, r.ResourceID)
}

// Request is a pending transfer that needs a fee
type Request struct {
	Route
	Resource xb.Resource
	Sender   xb.Address
	// Gross amount for fungible transfers, zero otherwise
	Amount      xb.AmountBlockchain
	DepositData []byte
}

// PercentageRate is the state of a percentage fee handler for a route
type PercentageRate struct {
	Rate   decimal.Decimal
	MinFee xb.AmountBlockchain
	MaxFee xb.AmountBlockchain
}

// StateReader reads fee handler state for a network, from contracts, pallet storage or configuration
type StateReader interface {
	// HandlerFor returns FeeHandlerUndefined when nothing is registered for the route
	HandlerFor(ctx context.Context, route Route) (xb.FeeHandlerType, xb.Address, error)
	FixedFee(ctx context.Context, handler xb.Address, req Request) (amount xb.AmountBlockchain, token xb.Address, err error)
	PercentageFee(ctx context.Context, handler xb.Address, req Request) (PercentageRate, error)
	DynamicFee(ctx context.Context, handler xb.Address, req Request, feeData []byte) (amount xb.AmountBlockchain, token xb.Address, err error)
}

// Oracle supplies the opaque fee data dynamic fee handlers expect
type Oracle interface {
	FeeData(ctx context.Context, req Request) ([]byte, error)
}

// Calculate computes a fresh fee for the request using whatever strategy is registered for its route
func Calculate(ctx context.Context, reader StateReader, oracle Oracle, req Request) (xb.Fee, error) {
	kind, handler, err := reader.HandlerFor(ctx, req.Route)
	if err != nil {
		return xb.Fee{}, err
	}
	logger := log.WithFields(log.Fields{
		"route":   req.Route.String(),
		"type":    kind,
		"handler": handler,
	})
	logger.Debug("calculating fee")

	switch kind {
	case xb.FeeHandlerBasic:
		amount, token, err := reader.FixedFee(ctx, handler, req)
		if err != nil {
			return xb.Fee{}, err
		}
		return xb.Fee{
			Type:           kind,
			Fee:            amount,
			NetAmount:      req.Amount,
			HandlerAddress: handler,
			TokenAddress:   token,
		}, nil

	case xb.FeeHandlerPercentage:
		rate, err := reader.PercentageFee(ctx, handler, req)
		if err != nil {
			return xb.Fee{}, err
		}
		fee, net, err := CalculatePercentageFee(req.Amount, rate.Rate, rate.MinFee, rate.MaxFee)
		if err != nil {
			return xb.Fee{}, err
		}
		result := xb.Fee{
			Type:           kind,
			Fee:            fee,
			NetAmount:      net,
			Rate:           xb.AmountHumanReadable(rate.Rate),
			MinFee:         rate.MinFee,
			MaxFee:         rate.MaxFee,
			HandlerAddress: handler,
		}
		// percentage fees are taken from the transferred asset
		if !req.Resource.Native {
			result.TokenAddress = req.Resource.Address
		}
		return result, nil

	case xb.FeeHandlerDynamic:
		if oracle == nil {
			return xb.Fee{}, errors.Errorf(errors.ConfigurationError, "route %s uses a dynamic fee handler but no fee oracle is configured", req.Route)
		}
		feeData, err := oracle.FeeData(ctx, req)
		if err != nil {
			return xb.Fee{}, err
		}
		amount, token, err := reader.DynamicFee(ctx, handler, req, feeData)
		if err != nil {
			return xb.Fee{}, err
		}
		return xb.Fee{
			Type:           kind,
			Fee:            amount,
			NetAmount:      req.Amount,
			HandlerAddress: handler,
			TokenAddress:   token,
			FeeData:        feeData,
		}, nil

	case xb.FeeHandlerUndefined:
		return xb.Fee{}, errors.Wrapf(errors.ErrRouteNotRegistered, "%s", req.Route)
	}
	return xb.Fee{}, errors.Wrapf(errors.ErrUnsupportedFeeHandler, "%q for route %s", kind, req.Route)
}
