package xbridge

import "strings"

// Address is an address on any of the supported networks, in its native text format
type Address string

func (a Address) String() string {
	return string(a)
}

// EqualFold compares two addresses ignoring case, which is how EVM addresses are compared
func (a Address) EqualFold(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}
