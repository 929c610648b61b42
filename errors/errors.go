package errors

import (
	"errors"
	"fmt"
)

type Status string

// Configuration is missing or does not contain what was asked for
const ConfigurationError Status = "ConfigurationError"

// The route (domain, resource) is not registered on a handler or fee handler
const RouteError Status = "RouteError"

// Not enough funds or a non-positive amount after fees
const InsufficientFunds Status = "InsufficientFunds"

// Input could not be encoded, e.g. an unsupported address or malformed utxo
const EncodingError Status = "EncodingError"

// A network error occured -- there may be nothing wrong with the transfer
const NetworkError Status = "NetworkError"

// No outcome for this error known
const UnknownError Status = "UnknownError"

type Error struct {
	Status  Status
	Message string
	cause   error
}

var _ error = &Error{}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on status and message so that sentinel errors can be compared with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status && t.Message == e.Message
}

func Errorf(status Status, format string, args ...interface{}) error {
	return &Error{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

var (
	ErrConfigNotInitialized = &Error{Status: ConfigurationError, Message: "config not initialized"}
	ErrDomainNotFound       = &Error{Status: ConfigurationError, Message: "domain not found"}
	ErrResourceNotFound     = &Error{Status: ConfigurationError, Message: "resource not found"}
	ErrResourceTypeMismatch = &Error{Status: ConfigurationError, Message: "resource type does not match transfer"}

	ErrHandlerNotRegistered  = &Error{Status: RouteError, Message: "handler not registered"}
	ErrRouteNotRegistered    = &Error{Status: RouteError, Message: "route not registered on fee handler"}
	ErrUnsupportedFeeHandler = &Error{Status: RouteError, Message: "unsupported fee handler"}

	ErrInsufficientFunds   = &Error{Status: InsufficientFunds, Message: "not enough funds"}
	ErrInsufficientBalance = &Error{Status: InsufficientFunds, Message: "insufficient balance"}
	ErrInvalidAmount       = &Error{Status: InsufficientFunds, Message: "invalid amount"}

	ErrUnsupportedAddressType = &Error{Status: EncodingError, Message: "unsupported address type"}
	ErrInvalidAddress         = &Error{Status: EncodingError, Message: "invalid address"}
	ErrMalformedUtxo          = &Error{Status: EncodingError, Message: "malformed utxo"}
	ErrMissingField           = &Error{Status: EncodingError, Message: "missing required field"}
	ErrEncoding               = &Error{Status: EncodingError, Message: "encoding failed"}
)

// Wrapf adds detail to a sentinel error while keeping it matchable with errors.Is
func Wrapf(sentinel *Error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Networkf wraps a failed network call with a descriptive message. There is no retry.
func Networkf(cause error, format string, args ...interface{}) error {
	return &Error{
		Status:  NetworkError,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// StatusOf returns the status of the first *Error in the chain, or UnknownError
func StatusOf(err error) Status {
	var xbErr *Error
	if errors.As(err, &xbErr) {
		return xbErr.Status
	}
	return UnknownError
}
