package params

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
)

// Bitcoin has mainnet, testnet, signet and regtest network types built in.
type Network string

const Mainnet Network = "mainnet"
const Testnet Network = "testnet"
const Signet Network = "signet"
const Regtest Network = "regtest"

// CAIP-2 references for bip122 chains are the first 32 hex characters of the genesis hash
var genesisPrefixes = map[string]Network{
	"000000000019d6689c085ae165831e93": Mainnet,
	"000000000933ea01ad0ee984209779ba": Testnet,
	"00000000da84f2bafbbc53dee25a72ae": Testnet,
	"00000008819873e925422c1ff0f99f7c": Signet,
	"0f9188f13cb7b2c71f2a335e3a4fc328": Regtest,
}

func (n Network) Params() *chaincfg.Params {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams
	case Testnet:
		return &chaincfg.TestNet3Params
	case Signet:
		return &chaincfg.SigNetParams
	default:
		return &chaincfg.RegressionNetParams
	}
}

// NetworkOf infers the bitcoin network of a domain from its CAIP-2 id
func NetworkOf(domain xb.Domain) (Network, error) {
	namespace, reference, ok := strings.Cut(domain.CaipID, ":")
	if !ok || namespace != "bip122" {
		return "", errors.Errorf(errors.ConfigurationError, "domain %d has no bip122 caip id: %q", domain.ID, domain.CaipID)
	}
	network, ok := genesisPrefixes[strings.ToLower(reference)]
	if !ok {
		return "", errors.Errorf(errors.ConfigurationError, "unknown bitcoin network %q for domain %d", reference, domain.ID)
	}
	return network, nil
}

func GetParams(domain xb.Domain) (*chaincfg.Params, error) {
	network, err := NetworkOf(domain)
	if err != nil {
		return nil, err
	}
	return network.Params(), nil
}
