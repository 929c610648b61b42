package transfer

import (
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/deposit"
	"github.com/cordialsys/xbridge/errors"
)

// DepositData encodes the payload of the transfer. For fungible transfers amount is the
// amount to encode, which is the net amount once a fee has been deducted.
func DepositData(c *Context, amount xb.AmountBlockchain) ([]byte, error) {
	params := c.params
	var recipient []byte
	if c.params.Kind != Generic && c.params.Kind != Permissionless {
		var err error
		recipient, err = deposit.RecipientBytes(c.destination.Type, params.Recipient, c.destination.ParachainID)
		if err != nil {
			return nil, err
		}
	}

	switch params.Kind {
	case Fungible:
		if params.Message == nil {
			return deposit.ERCDepositData(amount, recipient)
		}
		message, err := params.Message.Encode()
		if err != nil {
			return nil, err
		}
		return deposit.ERCDepositData(amount, recipient, deposit.WithMessage(params.MessageGas, message))
	case NonFungible:
		return deposit.ERCDepositData(params.TokenID, recipient)
	case SemiFungible:
		return deposit.SemiFungibleDepositData(params.TokenIDs, params.Amounts, recipient, params.Data)
	case Generic:
		return deposit.GenericCallDepositData(params.MaxFee, params.Call, params.Sender)
	case Permissionless:
		return deposit.PermissionlessDepositData(params.MaxFee, params.FunctionSig, params.Contract, params.Sender, params.ExecutionData)
	}
	return nil, errors.Wrapf(errors.ErrEncoding, "unknown transfer kind %q", params.Kind)
}
