package xbridge

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// GasFeePriority scales network fee estimates: the EVM priority fee or the bitcoin fee rate
type GasFeePriority string

var Low GasFeePriority = "low"
var Market GasFeePriority = "market"
var Aggressive GasFeePriority = "aggressive"
var VeryAggressive GasFeePriority = "very-aggressive"

var maxCustomMultiplier = decimal.NewFromInt(10)

func NewPriority(input string) (GasFeePriority, error) {
	p := GasFeePriority(input)
	if p.IsEnum() {
		return p, nil
	}
	_, err := p.AsCustom()
	return p, err
}

func (p GasFeePriority) IsEnum() bool {
	switch p {
	case Low, Market, Aggressive, VeryAggressive:
		return true
	}
	return false
}

func (p GasFeePriority) AsCustom() (decimal.Decimal, error) {
	if p.IsEnum() {
		return decimal.Decimal{}, errors.New("not a custom enum")
	}
	dec, err := decimal.NewFromString(string(p))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal: %v", err)
	}
	if !dec.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("invalid multiplier %s, must be positive", dec)
	}
	if dec.GreaterThan(maxCustomMultiplier) {
		return decimal.Decimal{}, fmt.Errorf("%s exceeds custom multiplier limit of %s", dec, maxCustomMultiplier)
	}
	return dec, nil
}

func (p GasFeePriority) GetDefault() (decimal.Decimal, error) {
	switch p {
	case Low:
		return decimal.NewFromFloat(0.7), nil
	case Market, "":
		// use int for market to be exact 1
		return decimal.NewFromInt(1), nil
	case Aggressive:
		return decimal.NewFromFloat(1.5), nil
	case VeryAggressive:
		return decimal.NewFromInt(2), nil
	}
	return p.AsCustom()
}

// Apply multiplies a blockchain amount, rounding down
func (p GasFeePriority) Apply(amount AmountBlockchain) (AmountBlockchain, error) {
	multiplier, err := p.GetDefault()
	if err != nil {
		return AmountBlockchain{}, err
	}
	scaled := multiplier.Mul(decimal.NewFromBigInt(amount.Int(), 0)).BigInt()
	return NewAmountBlockchainFromBig(scaled), nil
}

// ApplyRate multiplies a rate such as sat/vB, keeping its precision
func (p GasFeePriority) ApplyRate(rate AmountHumanReadable) (AmountHumanReadable, error) {
	multiplier, err := p.GetDefault()
	if err != nil {
		return AmountHumanReadable{}, err
	}
	return AmountHumanReadable(multiplier.Mul(rate.Decimal())), nil
}
