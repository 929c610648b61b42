package client

import (
	"context"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/chain/evm/abi/feehandler"
	"github.com/cordialsys/xbridge/fee"
	"github.com/sirupsen/logrus"
)

// FeeReader reads fee handler state from the fee router and handler contracts
type FeeReader struct {
	client *Client
}

var _ fee.StateReader = &FeeReader{}

func (client *Client) FeeReader() *FeeReader {
	return &FeeReader{client: client}
}

// HandlerFor prefers the handler type from configuration and falls back to asking the contract
func (r *FeeReader) HandlerFor(ctx context.Context, route fee.Route) (xb.FeeHandlerType, xb.Address, error) {
	handler, err := r.client.FeeHandlerAddress(ctx, route.Destination, route.ResourceID)
	if err != nil {
		return xb.FeeHandlerUndefined, "", err
	}
	if handler == "" {
		return xb.FeeHandlerUndefined, "", nil
	}
	for _, known := range r.client.Domain.FeeHandlers {
		if known.Address.EqualFold(handler) {
			return known.Type, handler, nil
		}
	}
	logrus.WithFields(logrus.Fields{
		"route":   route.String(),
		"handler": handler,
	}).Debug("fee handler not in config, asking the contract")
	kind, err := r.client.FeeHandlerType(ctx, handler)
	if err != nil {
		return xb.FeeHandlerUndefined, "", err
	}
	return kind, handler, nil
}

func (r *FeeReader) FixedFee(ctx context.Context, handler xb.Address, req fee.Request) (xb.AmountBlockchain, xb.Address, error) {
	return r.client.CalculateFee(ctx, handler, req, nil)
}

// PercentageFee converts the stored rate, which is scaled by HUNDRED_PERCENT, into a fraction
func (r *FeeReader) PercentageFee(ctx context.Context, handler xb.Address, req fee.Request) (fee.PercentageRate, error) {
	raw, err := r.client.DomainResourceFee(ctx, handler, req.Destination, req.ResourceID)
	if err != nil {
		return fee.PercentageRate{}, err
	}
	lower, upper, err := r.client.FeeBounds(ctx, handler, req.ResourceID)
	if err != nil {
		return fee.PercentageRate{}, err
	}
	return fee.PercentageRate{
		Rate:   fee.RateFromBasisPoints(raw, feehandler.HundredPercent),
		MinFee: lower,
		MaxFee: upper,
	}, nil
}

func (r *FeeReader) DynamicFee(ctx context.Context, handler xb.Address, req fee.Request, feeData []byte) (xb.AmountBlockchain, xb.Address, error) {
	return r.client.CalculateFee(ctx, handler, req, feeData)
}
