package xbridge

import (
	"strings"

	"github.com/cordialsys/xbridge/pkg/hex"
)

// FeeHandlerType is the fee strategy registered for a route
type FeeHandlerType string

const (
	FeeHandlerUndefined  FeeHandlerType = ""
	FeeHandlerBasic      FeeHandlerType = "basic"
	FeeHandlerPercentage FeeHandlerType = "percentage"
	FeeHandlerDynamic    FeeHandlerType = "oracle"
)

// ParseFeeHandlerType maps the type string reported by a fee handler.
// Unknown strings are returned as-is so callers can report them.
func ParseFeeHandlerType(s string) FeeHandlerType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FeeHandlerUndefined
	case "basic", "fixed":
		return FeeHandlerBasic
	case "percentage":
		return FeeHandlerPercentage
	case "oracle", "dynamic", "twap":
		return FeeHandlerDynamic
	}
	return FeeHandlerType(s)
}

// Fee owed for a single transfer. It depends on the amount and must be recomputed when it changes.
type Fee struct {
	Type FeeHandlerType   `json:"type"`
	Fee  AmountBlockchain `json:"fee"`
	// Amount that reaches the recipient, which is what gets encoded in the deposit
	NetAmount AmountBlockchain `json:"net_amount"`
	// Percentage fees only
	Rate   AmountHumanReadable `json:"rate,omitempty"`
	MinFee AmountBlockchain    `json:"min_fee"`
	MaxFee AmountBlockchain    `json:"max_fee"`

	HandlerAddress Address `json:"handler_address,omitempty"`
	// Empty when the fee is paid in the native currency
	TokenAddress Address `json:"token_address,omitempty"`
	// Opaque data forwarded to the fee handler, e.g. a signed oracle rate
	FeeData hex.Hex `json:"fee_data,omitempty"`
}

func (f *Fee) IsNative() bool {
	return f.TokenAddress == ""
}
