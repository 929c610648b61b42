package tx_input

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/extrinsic"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/extrinsic/extensions"
	"github.com/cordialsys/xbridge/errors"
	"github.com/sirupsen/logrus"
)

const DepositCall = "SygmaBridge.deposit"

var usedSubstrateCalls = []string{
	DepositCall,
}

type CallMeta struct {
	Name         string `json:"name"`
	SectionIndex uint8  `json:"section"`
	MethodIndex  uint8  `json:"method"`
}

// Metadata is the part of the runtime metadata needed to build bridge extrinsics
type Metadata struct {
	Calls            []*CallMeta                      `json:"calls"`
	SignedExtensions []extensions.SignedExtensionName `json:"signed_extensions"`
}

func (m *Metadata) FindCallIndex(name string) (types.CallIndex, error) {
	for _, call := range m.Calls {
		if call.Name == name {
			return types.CallIndex{
				SectionIndex: call.SectionIndex,
				MethodIndex:  call.MethodIndex,
			}, nil
		}
	}
	return types.CallIndex{}, errors.Errorf(errors.ConfigurationError, "chain does not support %s", name)
}

// ParseMeta keeps only the calls the bridge submits, so the full metadata never has to travel with the input.
func ParseMeta(meta *types.Metadata) (Metadata, error) {
	newMeta := Metadata{}
	for _, name := range usedSubstrateCalls {
		call, err := meta.FindCallIndex(name)
		if err != nil {
			logrus.WithField("name", name).Debug("chain does not support extrinsic")
			continue
		}
		newMeta.Calls = append(newMeta.Calls, &CallMeta{
			Name:         name,
			SectionIndex: call.SectionIndex,
			MethodIndex:  call.MethodIndex,
		})
	}
	for _, signedExtension := range meta.AsMetadataV14.Extrinsic.SignedExtensions {
		signedExtensionType, ok := meta.AsMetadataV14.EfficientLookup[signedExtension.Type.Int64()]
		if !ok {
			return newMeta, errors.Wrapf(errors.ErrEncoding, "signed extension type '%d' is not defined", signedExtension.Type.Int64())
		}
		signedExtensionName := extensions.SignedExtensionName(signedExtensionType.Path[len(signedExtensionType.Path)-1])
		newMeta.SignedExtensions = append(newMeta.SignedExtensions, signedExtensionName)
	}
	return newMeta, nil
}

// NewCall SCALE encodes args in order behind the call index of name
func NewCall(m *Metadata, name string, args ...interface{}) (types.Call, error) {
	c, err := m.FindCallIndex(name)
	if err != nil {
		return types.Call{}, err
	}

	var a []byte
	for _, arg := range args {
		e, err := codec.Encode(arg)
		if err != nil {
			return types.Call{}, errors.Wrapf(errors.ErrEncoding, "%s argument: %v", name, err)
		}
		a = append(a, e...)
	}

	return types.Call{CallIndex: c, Args: a}, nil
}

// CreatePayload builds the signing payload for an encoded call, one field per signed extension
func CreatePayload(meta *Metadata, encodedCall []byte) (*extrinsic.Payload, error) {
	payload := &extrinsic.Payload{
		EncodedCall: encodedCall,
	}

	for _, signedExtension := range meta.SignedExtensions {
		payloadMutatorFn, ok := extrinsic.PayloadMutatorFns[signedExtension]
		if !ok {
			logrus.WithFields(logrus.Fields{
				"extension": signedExtension,
			}).Warn("signed extension is not supported, transaction may not be accepted")
			continue
		}
		payloadMutatorFn(payload)
	}

	return payload, nil
}
