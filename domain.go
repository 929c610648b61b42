package xbridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cordialsys/xbridge/errors"
)

// NetworkType is the kind of network a domain runs on
type NetworkType string

const (
	NetworkEVM       NetworkType = "evm"
	NetworkSubstrate NetworkType = "substrate"
	NetworkBitcoin   NetworkType = "btc"
)

func (t NetworkType) Valid() bool {
	switch t {
	case NetworkEVM, NetworkSubstrate, NetworkBitcoin:
		return true
	}
	return false
}

// DomainID is the protocol-internal identifier of a domain
type DomainID uint8

// Domain is a chain/network supported by the bridge
type Domain struct {
	ID      DomainID    `yaml:"id" json:"id"`
	CaipID  string      `yaml:"caip_id" json:"caipId"`
	ChainID uint64      `yaml:"chain_id" json:"chainId"`
	Name    string      `yaml:"name" json:"name"`
	Type    NetworkType `yaml:"type" json:"type" validate:"required,oneof=evm substrate btc"`
	// Only set for parachains
	ParachainID uint32 `yaml:"parachain_id,omitempty" json:"parachainId,omitempty"`
	// Where the protocol fee is paid, for networks without a fee handler contract
	FeeAddress Address `yaml:"fee_address,omitempty" json:"feeAddress,omitempty"`
}

type DomainRefKind uint8

const (
	DomainRefNone DomainRefKind = iota
	DomainRefID
	DomainRefChainID
	DomainRefCaipID
)

// DomainRef identifies a domain by exactly one of its identifiers
type DomainRef struct {
	Kind    DomainRefKind
	ID      DomainID
	ChainID uint64
	CaipID  string
}

const domainIDPrefix = "domain:"

func DomainByID(id DomainID) DomainRef {
	return DomainRef{Kind: DomainRefID, ID: id}
}

func DomainByChainID(chainID uint64) DomainRef {
	return DomainRef{Kind: DomainRefChainID, ChainID: chainID}
}

func DomainByCaipID(caipID string) DomainRef {
	return DomainRef{Kind: DomainRefCaipID, CaipID: caipID}
}

// ParseDomainRef accepts "domain:<id>" for a protocol id, a bare integer for a chain id,
// or a CAIP-2 identifier such as "eip155:1".
func ParseDomainRef(s string) (DomainRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DomainRef{}, errors.Errorf(errors.ConfigurationError, "empty domain reference")
	}
	if strings.HasPrefix(s, domainIDPrefix) {
		id, err := strconv.ParseUint(strings.TrimPrefix(s, domainIDPrefix), 10, 8)
		if err != nil {
			return DomainRef{}, errors.Errorf(errors.ConfigurationError, "invalid domain id %q: %v", s, err)
		}
		return DomainByID(DomainID(id)), nil
	}
	if strings.Contains(s, ":") {
		return DomainByCaipID(s), nil
	}
	chainID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return DomainRef{}, errors.Errorf(errors.ConfigurationError, "invalid chain id %q: %v", s, err)
	}
	return DomainByChainID(chainID), nil
}

func (r DomainRef) Matches(d Domain) bool {
	switch r.Kind {
	case DomainRefID:
		return d.ID == r.ID
	case DomainRefChainID:
		return d.ChainID == r.ChainID
	case DomainRefCaipID:
		return d.CaipID != "" && d.CaipID == r.CaipID
	}
	return false
}

func (r DomainRef) String() string {
	switch r.Kind {
	case DomainRefID:
		return fmt.Sprintf("%s%d", domainIDPrefix, r.ID)
	case DomainRefChainID:
		return strconv.FormatUint(r.ChainID, 10)
	case DomainRefCaipID:
		return r.CaipID
	}
	return "<none>"
}
