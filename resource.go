package xbridge

import (
	"encoding/hex"
	"fmt"
	"strings"

	xbhex "github.com/cordialsys/xbridge/pkg/hex"
)

// ResourceType is the kind of asset or message route a resource represents
type ResourceType string

const (
	ResourceFungible              ResourceType = "fungible"
	ResourceNonFungible           ResourceType = "nonfungible"
	ResourceSemiFungible          ResourceType = "semifungible"
	ResourcePermissionedGeneric   ResourceType = "permissionedGeneric"
	ResourcePermissionlessGeneric ResourceType = "permissionlessGeneric"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFungible, ResourceNonFungible, ResourceSemiFungible,
		ResourcePermissionedGeneric, ResourcePermissionlessGeneric:
		return true
	}
	return false
}

// ResourceID is the 32 byte identifier of a resource, shared by every domain it is registered on
type ResourceID [32]byte

func ParseResourceID(s string) (ResourceID, error) {
	var id ResourceID
	bz, err := xbhex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid resource id %q: %w", s, err)
	}
	if len(bz) != len(id) {
		return id, fmt.Errorf("invalid resource id %q: expected %d bytes but got %d", s, len(id), len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

func (id ResourceID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id ResourceID) IsZero() bool {
	return id == ResourceID{}
}

func (id ResourceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ResourceID) UnmarshalText(data []byte) error {
	parsed, err := ParseResourceID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// FeeSettings describe a fee that is not enforced by an on-chain handler (bitcoin).
type FeeSettings struct {
	Type FeeHandlerType `yaml:"type" json:"type"`
	// Fixed fee in the smallest unit, for basic fees
	Amount AmountBlockchain `yaml:"amount,omitempty" json:"amount,omitempty"`
	// Fractional rate, e.g. 0.01 for 1%, for percentage fees
	Rate   AmountHumanReadable `yaml:"rate,omitempty" json:"rate,omitempty"`
	MinFee AmountBlockchain    `yaml:"min_fee,omitempty" json:"minFee,omitempty"`
	MaxFee AmountBlockchain    `yaml:"max_fee,omitempty" json:"maxFee,omitempty"`
}

// Resource is an asset or message route registered on a domain
type Resource struct {
	ResourceID ResourceID   `yaml:"resource_id" json:"resourceId"`
	Type       ResourceType `yaml:"type" json:"type" validate:"required"`
	// Token contract on EVM, bridge deposit address on bitcoin
	Address  Address `yaml:"address,omitempty" json:"address,omitempty"`
	Symbol   string  `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Decimals int32   `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	// Set when the resource is the network's native currency
	Native bool `yaml:"native,omitempty" json:"native,omitempty"`
	// SCALE encoded XCM location of the asset, substrate only
	AssetLocation xbhex.Hex    `yaml:"asset_location,omitempty" json:"assetLocation,omitempty"`
	FeeSettings   *FeeSettings `yaml:"fee_settings,omitempty" json:"feeSettings,omitempty"`
}

type resourceRefKind uint8

const (
	resourceRefNone resourceRefKind = iota
	resourceRefID
	resourceRefPartial
)

// ResourceRef identifies a resource either by id or by a partially filled Resource
type ResourceRef struct {
	kind    resourceRefKind
	id      ResourceID
	partial Resource
}

func ResourceByID(id ResourceID) ResourceRef {
	return ResourceRef{kind: resourceRefID, id: id}
}

func ResourceByPartial(partial Resource) ResourceRef {
	if !partial.ResourceID.IsZero() {
		return ResourceByID(partial.ResourceID)
	}
	return ResourceRef{kind: resourceRefPartial, partial: partial}
}

func ParseResourceRef(s string) (ResourceRef, error) {
	id, err := ParseResourceID(s)
	if err != nil {
		return ResourceRef{}, err
	}
	return ResourceByID(id), nil
}

func (r ResourceRef) IsZero() bool {
	return r.kind == resourceRefNone
}

// Matches reports whether the resource satisfies the reference. A partial reference
// matches on address if one is set, otherwise on symbol.
func (r ResourceRef) Matches(res Resource) bool {
	switch r.kind {
	case resourceRefID:
		return res.ResourceID == r.id
	case resourceRefPartial:
		if r.partial.Address != "" {
			return res.Address.EqualFold(r.partial.Address)
		}
		if r.partial.Symbol != "" {
			return strings.EqualFold(res.Symbol, r.partial.Symbol)
		}
	}
	return false
}

func (r ResourceRef) String() string {
	switch r.kind {
	case resourceRefID:
		return r.id.String()
	case resourceRefPartial:
		if r.partial.Address != "" {
			return string(r.partial.Address)
		}
		return r.partial.Symbol
	}
	return "<none>"
}
