package transfer

import (
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/deposit"
	"github.com/cordialsys/xbridge/errors"
	log "github.com/sirupsen/logrus"
)

// Params is what a caller supplies to start a transfer. Only the fields of the chosen Kind are used.
type Params struct {
	Kind        Kind
	Source      xb.DomainRef
	Destination xb.DomainRef
	Resource    xb.ResourceRef
	Sender      xb.Address
	// Address on the destination network, unused by generic transfers
	Recipient string

	// fungible
	Amount xb.AmountBlockchain
	// optional message executed on the destination after a fungible transfer
	Message    *deposit.ActionMessage
	MessageGas xb.AmountBlockchain

	// nonfungible
	TokenID xb.AmountBlockchain

	// semifungible
	TokenIDs []xb.AmountBlockchain
	Amounts  []xb.AmountBlockchain
	Data     []byte

	// generic and permissionless
	MaxFee        xb.AmountBlockchain
	Call          deposit.GenericCall
	FunctionSig   []byte
	Contract      xb.Address
	ExecutionData []byte
}

// Context is a transfer resolved against a config snapshot.
// It is not safe for concurrent use; use one Context per transfer.
type Context struct {
	cfg *config.Config

	params      Params
	source      config.DomainConfig
	destination config.DomainConfig
	resource    xb.Resource
	stage       Stage
}

// New resolves domains and resource from the snapshot and validates the parameters.
// It never touches the network.
func New(cfg *config.Config, params Params) (*Context, error) {
	source, err := cfg.ResolveDomain(params.Source)
	if err != nil {
		return nil, err
	}
	destination, err := cfg.ResolveDomain(params.Destination)
	if err != nil {
		return nil, err
	}
	resource, err := cfg.ResolveResource(source.ID, params.Resource)
	if err != nil {
		return nil, err
	}
	c := &Context{
		cfg:         cfg,
		params:      params,
		source:      source,
		destination: destination,
		resource:    resource,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"kind":        params.Kind,
		"source":      source.ID,
		"destination": destination.ID,
		"resource":    resource.ResourceID.String(),
	}).Debug("new transfer")
	return c, nil
}

func (c *Context) validate() error {
	expected, err := c.params.Kind.ResourceType()
	if err != nil {
		return errors.Wrapf(errors.ErrResourceTypeMismatch, "%v", err)
	}
	if c.resource.Type != expected {
		return errors.Wrapf(errors.ErrResourceTypeMismatch, "%s transfer cannot use %s resource %s", c.params.Kind, c.resource.Type, c.resource.ResourceID)
	}
	if c.source.ID == c.destination.ID {
		return errors.Errorf(errors.ConfigurationError, "source and destination are both domain %d", c.source.ID)
	}
	if c.params.Sender == "" {
		return errors.Wrapf(errors.ErrMissingField, "sender")
	}

	switch c.params.Kind {
	case Fungible:
		if !c.params.Amount.IsPositive() {
			return errors.Wrapf(errors.ErrInvalidAmount, "amount must be positive, got %s", c.params.Amount.String())
		}
	case NonFungible:
		if c.params.TokenID.Sign() < 0 {
			return errors.Wrapf(errors.ErrInvalidAmount, "negative token id %s", c.params.TokenID.String())
		}
	case SemiFungible:
		if len(c.params.TokenIDs) == 0 || len(c.params.TokenIDs) != len(c.params.Amounts) {
			return errors.Wrapf(errors.ErrInvalidAmount, "%d token ids for %d amounts", len(c.params.TokenIDs), len(c.params.Amounts))
		}
		for _, amount := range c.params.Amounts {
			if !amount.IsPositive() {
				return errors.Wrapf(errors.ErrInvalidAmount, "amount must be positive, got %s", amount.String())
			}
		}
	case Generic:
		if c.params.Call.Contract == "" || len(c.params.Call.Calldata) == 0 {
			return errors.Wrapf(errors.ErrMissingField, "generic call")
		}
	case Permissionless:
		if c.params.Contract == "" || len(c.params.FunctionSig) == 0 {
			return errors.Wrapf(errors.ErrMissingField, "contract and function signature")
		}
	}

	if c.params.Kind == Generic || c.params.Kind == Permissionless {
		return nil
	}
	// the recipient must be encodable for the destination
	_, err = deposit.RecipientBytes(c.destination.Type, c.params.Recipient, c.destination.ParachainID)
	return err
}

func (c *Context) Kind() Kind                       { return c.params.Kind }
func (c *Context) Params() Params                   { return c.params }
func (c *Context) Source() config.DomainConfig      { return c.source }
func (c *Context) Destination() config.DomainConfig { return c.destination }
func (c *Context) Resource() xb.Resource            { return c.resource }
func (c *Context) Sender() xb.Address               { return c.params.Sender }
func (c *Context) Recipient() string                { return c.params.Recipient }
func (c *Context) Amount() xb.AmountBlockchain      { return c.params.Amount }
func (c *Context) TokenID() xb.AmountBlockchain     { return c.params.TokenID }
func (c *Context) Stage() Stage                     { return c.stage }

// Advance records progress. Going back is only possible through the setters.
func (c *Context) Advance(stage Stage) {
	if stage > c.stage {
		c.stage = stage
	}
}

// apply runs a change against a copy and keeps it only when the result is valid
func (c *Context) apply(change func(next *Context) error) error {
	next := *c
	if err := change(&next); err != nil {
		return err
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.stage = Constructed
	*c = next
	return nil
}

func (c *Context) SetAmount(amount xb.AmountBlockchain) error {
	return c.apply(func(next *Context) error {
		next.params.Amount = amount
		return nil
	})
}

func (c *Context) SetTokenID(tokenID xb.AmountBlockchain) error {
	return c.apply(func(next *Context) error {
		next.params.TokenID = tokenID
		return nil
	})
}

func (c *Context) SetRecipient(recipient string) error {
	return c.apply(func(next *Context) error {
		next.params.Recipient = recipient
		return nil
	})
}

func (c *Context) SetDestination(ref xb.DomainRef) error {
	return c.apply(func(next *Context) error {
		destination, err := c.cfg.ResolveDomain(ref)
		if err != nil {
			return err
		}
		next.params.Destination = ref
		next.destination = destination
		return nil
	})
}

func (c *Context) SetResource(ref xb.ResourceRef) error {
	return c.apply(func(next *Context) error {
		resource, err := c.cfg.ResolveResource(c.source.ID, ref)
		if err != nil {
			return err
		}
		next.params.Resource = ref
		next.resource = resource
		return nil
	})
}
