package config

import (
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
)

// ResolveDomain looks a domain up by protocol id, chain id or CAIP id
func (c *Config) ResolveDomain(ref xb.DomainRef) (DomainConfig, error) {
	if err := c.initialized(); err != nil {
		return DomainConfig{}, err
	}
	for _, d := range c.domains {
		if ref.Matches(d.Domain) {
			return d.clone(), nil
		}
	}
	return DomainConfig{}, errors.Wrapf(errors.ErrDomainNotFound, "%s", ref)
}

// ResolveResource looks a resource up within a domain's resource list
func (c *Config) ResolveResource(domainID xb.DomainID, ref xb.ResourceRef) (xb.Resource, error) {
	domain, err := c.GetDomainConfig(domainID)
	if err != nil {
		return xb.Resource{}, err
	}
	return domain.Resource(ref)
}

// Resource looks a resource up in this domain only
func (d *DomainConfig) Resource(ref xb.ResourceRef) (xb.Resource, error) {
	for _, r := range d.Resources {
		if ref.Matches(r) {
			return r, nil
		}
	}
	return xb.Resource{}, errors.Wrapf(errors.ErrResourceNotFound, "%s on domain %d", ref, d.ID)
}
