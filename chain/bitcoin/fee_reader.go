package bitcoin

import (
	"context"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
)

// FeeReader serves fees from resource configuration, bitcoin has no fee handler to ask.
// The fee is paid to the fee address of the domain in its own output.
type FeeReader struct {
	domain config.DomainConfig
}

var _ fee.StateReader = &FeeReader{}

func NewFeeReader(domain config.DomainConfig) *FeeReader {
	return &FeeReader{domain: domain}
}

func (r *FeeReader) settings(id xb.ResourceID) (*xb.FeeSettings, error) {
	resource, err := r.domain.Resource(xb.ResourceByID(id))
	if err != nil {
		return nil, err
	}
	return resource.FeeSettings, nil
}

func (r *FeeReader) HandlerFor(ctx context.Context, route fee.Route) (xb.FeeHandlerType, xb.Address, error) {
	settings, err := r.settings(route.ResourceID)
	if err != nil {
		return xb.FeeHandlerUndefined, "", err
	}
	if settings == nil {
		return xb.FeeHandlerUndefined, "", nil
	}
	if r.domain.FeeAddress == "" {
		return xb.FeeHandlerUndefined, "", errors.Errorf(errors.ConfigurationError, "domain %d has fee settings but no fee address", r.domain.ID)
	}
	return settings.Type, r.domain.FeeAddress, nil
}

func (r *FeeReader) FixedFee(ctx context.Context, handler xb.Address, req fee.Request) (xb.AmountBlockchain, xb.Address, error) {
	settings, err := r.settings(req.ResourceID)
	if err != nil {
		return xb.AmountBlockchain{}, "", err
	}
	if settings == nil {
		return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrRouteNotRegistered, "%s", req.Route)
	}
	return settings.Amount, "", nil
}

func (r *FeeReader) PercentageFee(ctx context.Context, handler xb.Address, req fee.Request) (fee.PercentageRate, error) {
	settings, err := r.settings(req.ResourceID)
	if err != nil {
		return fee.PercentageRate{}, err
	}
	if settings == nil {
		return fee.PercentageRate{}, errors.Wrapf(errors.ErrRouteNotRegistered, "%s", req.Route)
	}
	return fee.PercentageRate{
		Rate:   settings.Rate.Decimal(),
		MinFee: settings.MinFee,
		MaxFee: settings.MaxFee,
	}, nil
}

func (r *FeeReader) DynamicFee(ctx context.Context, handler xb.Address, req fee.Request, feeData []byte) (xb.AmountBlockchain, xb.Address, error) {
	return xb.AmountBlockchain{}, "", errors.Wrapf(errors.ErrUnsupportedFeeHandler, "dynamic fees are not available on bitcoin route %s", req.Route)
}
