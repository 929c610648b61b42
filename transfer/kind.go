package transfer

import (
	"fmt"

	xb "github.com/cordialsys/xbridge"
)

// Kind of transfer, each consumes exactly one resource type
type Kind string

const (
	Fungible       Kind = "fungible"
	NonFungible    Kind = "nonfungible"
	SemiFungible   Kind = "semifungible"
	Generic        Kind = "generic"
	Permissionless Kind = "permissionless"
)

func (k Kind) ResourceType() (xb.ResourceType, error) {
	switch k {
	case Fungible:
		return xb.ResourceFungible, nil
	case NonFungible:
		return xb.ResourceNonFungible, nil
	case SemiFungible:
		return xb.ResourceSemiFungible, nil
	case Generic:
		return xb.ResourcePermissionedGeneric, nil
	case Permissionless:
		return xb.ResourcePermissionlessGeneric, nil
	}
	return "", fmt.Errorf("unknown transfer kind %q", k)
}

// Stage tracks how far a transfer has been prepared
type Stage int

const (
	Constructed Stage = iota
	FeeComputed
	ApprovalsBuilt
	TransferTransactionBuilt
)

func (s Stage) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case FeeComputed:
		return "fee-computed"
	case ApprovalsBuilt:
		return "approvals-built"
	case TransferTransactionBuilt:
		return "transfer-transaction-built"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}
