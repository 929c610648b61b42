package fee_test

import (
	stderrors "errors"
	"math/rand"
	"testing"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/fee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func amount(v uint64) xb.AmountBlockchain {
	return xb.NewAmountBlockchainFromUint64(v)
}

func TestCalculatePercentageFee(t *testing.T) {
	vectors := []struct {
		name   string
		amount uint64
		rate   string
		min    uint64
		max    uint64
		fee    uint64
		net    uint64
	}{
		{"unbounded 1%", 1_000_000, "0.01", 0, 0, 9901, 990099},
		{"unbounded 0.25%", 123456789, "0.0025", 0, 0, 307873, 123148916},
		{"zero rate", 5000, "0", 0, 0, 0, 5000},
		{"min applies", 1_000_000, "0.01", 20_000, 0, 20_000, 980_000},
		{"max applies", 1_000_000, "0.01", 0, 5_000, 5_000, 995_000},
		{"within bounds", 1_000_000, "0.01", 1_000, 50_000, 9901, 990099},
		{"both bounds, below min", 1_000_000, "0.01", 10_000, 50_000, 10_000, 990_000},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			feeAmount, net, err := fee.CalculatePercentageFee(amount(v.amount), decimal.RequireFromString(v.rate), amount(v.min), amount(v.max))
			require.NoError(t, err)
			require.EqualValues(t, v.fee, feeAmount.Uint64())
			require.EqualValues(t, v.net, net.Uint64())
		})
	}
}

func TestCalculatePercentageFeeInvalidAmount(t *testing.T) {
	_, _, err := fee.CalculatePercentageFee(amount(0), decimal.RequireFromString("0.01"), amount(0), amount(0))
	require.True(t, stderrors.Is(err, errors.ErrInvalidAmount))

	// the minimum fee swallows the whole amount
	_, _, err = fee.CalculatePercentageFee(amount(100), decimal.RequireFromString("0.01"), amount(100), amount(0))
	require.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	require.Equal(t, errors.InsufficientFunds, errors.StatusOf(err))

	_, _, err = fee.CalculatePercentageFee(amount(100), decimal.RequireFromString("-0.5"), amount(0), amount(0))
	require.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
}

func TestPercentageFeeStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		gross := uint64(rng.Int63n(1_000_000_000_000) + 1)
		rate := decimal.New(rng.Int63n(5000), -4)
		minFee := uint64(rng.Int63n(1_000_000))
		maxFee := minFee + uint64(rng.Int63n(10_000_000)) + 1
		if gross <= maxFee {
			continue
		}

		feeAmount, net, err := fee.CalculatePercentageFee(amount(gross), rate, amount(minFee), amount(maxFee))
		require.NoError(t, err)
		require.Equal(t, gross, feeAmount.Uint64()+net.Uint64())
		if minFee > 0 {
			require.GreaterOrEqual(t, feeAmount.Uint64(), minFee)
		}
		require.LessOrEqual(t, feeAmount.Uint64(), maxFee)

		unboundedFee, unboundedNet, err := fee.CalculatePercentageFee(amount(gross), rate, amount(0), amount(0))
		require.NoError(t, err)
		require.Equal(t, gross, unboundedFee.Uint64()+unboundedNet.Uint64())
		if unboundedFee.Uint64() >= minFee && unboundedFee.Uint64() <= maxFee {
			require.Equal(t, unboundedFee.Uint64(), feeAmount.Uint64())
		}
	}
}

func TestRateFromBasisPoints(t *testing.T) {
	require.Equal(t, "0.0025", fee.RateFromBasisPoints(amount(25), 10_000).String())
	require.Equal(t, "0.005", fee.RateFromBasisPoints(amount(500_000), 100_000_000).String())
}
