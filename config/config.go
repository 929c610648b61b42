package config

import (
	"fmt"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
	"github.com/go-playground/validator/v10"
)

type Environment string

const (
	Local   Environment = "local"
	Devnet  Environment = "devnet"
	Testnet Environment = "testnet"
	Mainnet Environment = "mainnet"
)

// Multicall3 is deployed at the same address on every EVM chain that has it
const DefaultMulticallAddress xb.Address = "0xcA11bde05977b3631167028862bE2a173976CA11"

// Handler receives deposits for one resource type
type Handler struct {
	Type    xb.ResourceType `yaml:"type" json:"type" validate:"required"`
	Address xb.Address      `yaml:"address" json:"address" validate:"required"`
}

type FeeHandler struct {
	Type    xb.FeeHandlerType `yaml:"type" json:"type" validate:"required"`
	Address xb.Address        `yaml:"address" json:"address" validate:"required"`
}

// DomainConfig is everything known about a domain: its identity, contracts and resources
type DomainConfig struct {
	xb.Domain `yaml:",inline"`

	Bridge    xb.Address `yaml:"bridge,omitempty" json:"bridge,omitempty"`
	FeeRouter xb.Address `yaml:"fee_router,omitempty" json:"feeRouter,omitempty"`
	Multicall xb.Address `yaml:"multicall,omitempty" json:"multicall,omitempty"`

	Handlers    []Handler    `yaml:"handlers,omitempty" json:"handlers,omitempty" validate:"dive"`
	FeeHandlers []FeeHandler `yaml:"fee_handlers,omitempty" json:"feeHandlers,omitempty" validate:"dive"`

	NativeTokenSymbol   string `yaml:"native_token_symbol,omitempty" json:"nativeTokenSymbol,omitempty"`
	NativeTokenDecimals int32  `yaml:"native_token_decimals,omitempty" json:"nativeTokenDecimals,omitempty"`
	// Base tip of substrate extrinsics, scaled by the gas priority
	GasTip uint64 `yaml:"gas_tip,omitempty" json:"gasTip,omitempty"`

	Resources []xb.Resource `yaml:"resources" json:"resources" validate:"dive"`

	// RPC endpoint, or indexer endpoint for bitcoin. May reference env/file/vault.
	Rpc Secret `yaml:"rpc,omitempty" json:"-"`
}

// HandlerAddress returns the handler registered for a resource type
func (d *DomainConfig) HandlerAddress(resourceType xb.ResourceType) (xb.Address, bool) {
	for _, h := range d.Handlers {
		if h.Type == resourceType {
			return h.Address, true
		}
	}
	return "", false
}

func (d *DomainConfig) MulticallAddress() xb.Address {
	if d.Multicall != "" {
		return d.Multicall
	}
	return DefaultMulticallAddress
}

func (d DomainConfig) clone() DomainConfig {
	d.Handlers = append([]Handler(nil), d.Handlers...)
	d.FeeHandlers = append([]FeeHandler(nil), d.FeeHandlers...)
	resources := make([]xb.Resource, len(d.Resources))
	for i, r := range d.Resources {
		r.AssetLocation = append([]byte(nil), r.AssetLocation...)
		if r.FeeSettings != nil {
			settings := *r.FeeSettings
			r.FeeSettings = &settings
		}
		resources[i] = r
	}
	d.Resources = resources
	return d
}

// Document is the serialized form of the configuration
type Document struct {
	Environment  Environment    `yaml:"environment" json:"environment,omitempty"`
	FeeOracleUrl string         `yaml:"fee_oracle_url,omitempty" json:"feeOracleUrl,omitempty"`
	Domains      []DomainConfig `yaml:"domains" json:"domains" validate:"required,min=1,dive"`
}

// Config is an immutable snapshot of the bridge configuration.
// A nil or zero Config is uninitialized and every getter fails with ErrConfigNotInitialized.
type Config struct {
	environment  Environment
	feeOracleUrl string
	domains      []DomainConfig
}

var validate = validator.New()

// New validates a document and takes a private copy of it
func New(doc Document) (*Config, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, errors.Errorf(errors.ConfigurationError, "invalid config: %v", err)
	}
	seen := map[xb.DomainID]bool{}
	domains := make([]DomainConfig, len(doc.Domains))
	for i, domain := range doc.Domains {
		if seen[domain.ID] {
			return nil, errors.Errorf(errors.ConfigurationError, "duplicate domain id %d", domain.ID)
		}
		seen[domain.ID] = true
		if err := validateResources(&domain); err != nil {
			return nil, err
		}
		domains[i] = domain.clone()
	}
	return &Config{
		environment:  doc.Environment,
		feeOracleUrl: doc.FeeOracleUrl,
		domains:      domains,
	}, nil
}

func validateResources(domain *DomainConfig) error {
	seen := map[xb.ResourceID]bool{}
	for _, r := range domain.Resources {
		if !r.Type.Valid() {
			return errors.Errorf(errors.ConfigurationError, "resource %s on domain %d has unknown type %q", r.ResourceID, domain.ID, r.Type)
		}
		if seen[r.ResourceID] {
			return errors.Errorf(errors.ConfigurationError, "duplicate resource %s on domain %d", r.ResourceID, domain.ID)
		}
		seen[r.ResourceID] = true
	}
	return nil
}

func (c *Config) initialized() error {
	if c == nil || len(c.domains) == 0 {
		return errors.ErrConfigNotInitialized
	}
	return nil
}

func (c *Config) Environment() Environment {
	if c == nil {
		return ""
	}
	return c.environment
}

func (c *Config) FeeOracleUrl() string {
	if c == nil {
		return ""
	}
	return c.feeOracleUrl
}

// Domains lists every configured domain
func (c *Config) Domains() ([]xb.Domain, error) {
	if err := c.initialized(); err != nil {
		return nil, err
	}
	domains := make([]xb.Domain, len(c.domains))
	for i, d := range c.domains {
		domains[i] = d.Domain
	}
	return domains, nil
}

func (c *Config) GetDomain(ref xb.DomainRef) (xb.Domain, error) {
	domain, err := c.ResolveDomain(ref)
	if err != nil {
		return xb.Domain{}, err
	}
	return domain.Domain, nil
}

func (c *Config) GetDomainConfig(id xb.DomainID) (DomainConfig, error) {
	return c.ResolveDomain(xb.DomainByID(id))
}

func (c *Config) GetResources(id xb.DomainID) ([]xb.Resource, error) {
	domain, err := c.GetDomainConfig(id)
	if err != nil {
		return nil, err
	}
	return domain.Resources, nil
}

// Document returns a copy of the snapshot in serializable form
func (c *Config) Document() (Document, error) {
	if err := c.initialized(); err != nil {
		return Document{}, err
	}
	doc := Document{Environment: c.environment, FeeOracleUrl: c.feeOracleUrl}
	for _, d := range c.domains {
		doc.Domains = append(doc.Domains, d.clone())
	}
	return doc, nil
}

func (c *Config) String() string {
	if c == nil {
		return "config(uninitialized)"
	}
	return fmt.Sprintf("config(%s, %d domains)", c.environment, len(c.domains))
}
