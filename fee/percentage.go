package fee

import (
	"math/big"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/shopspring/decimal"
)

// Fixed point base used so the rate never goes through floating point
var feeBase = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// CalculatePercentageFee splits amount into the fee and the net amount that is bridged.
//
//	feeless = floor(amount * 1e18 / floor(1e18 * (1 + rate)))
//
// A nonzero minFee or maxFee replaces the computed fee when it is out of bounds.
func CalculatePercentageFee(amount xb.AmountBlockchain, rate decimal.Decimal, minFee, maxFee xb.AmountBlockchain) (fee xb.AmountBlockchain, net xb.AmountBlockchain, err error) {
	zero := xb.NewAmountBlockchainFromUint64(0)
	if !amount.IsPositive() {
		return zero, zero, errors.Wrapf(errors.ErrInvalidAmount, "amount must be positive, got %s", amount.String())
	}
	if rate.IsNegative() {
		return zero, zero, errors.Wrapf(errors.ErrInvalidAmount, "negative fee rate %s", rate.String())
	}

	denominator := decimal.NewFromInt(1).Add(rate).Shift(18).Truncate(0).BigInt()
	feeless := new(big.Int).Mul(amount.Int(), feeBase)
	feeless.Quo(feeless, denominator)
	feelessAmount := xb.AmountBlockchain(*feeless)
	calculated := amount.Sub(&feelessAmount)

	switch {
	case minFee.IsPositive() && calculated.Cmp(&minFee) < 0:
		net = amount.Sub(&minFee)
	case maxFee.IsPositive() && calculated.Cmp(&maxFee) > 0:
		net = amount.Sub(&maxFee)
	default:
		net = feelessAmount
	}
	if !net.IsPositive() {
		return zero, zero, errors.Wrapf(errors.ErrInvalidAmount, "amount %s does not cover the fee", amount.String())
	}
	return amount.Sub(&net), net, nil
}

// RateFromBasisPoints converts an on-chain integer rate with the given 100% value into a fraction
func RateFromBasisPoints(value xb.AmountBlockchain, hundredPercent int64) decimal.Decimal {
	return decimal.NewFromBigInt(value.Int(), 0).Div(decimal.NewFromInt(hundredPercent))
}
