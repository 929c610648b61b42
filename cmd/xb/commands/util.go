package commands

import (
	"encoding/json"
	"fmt"
	"io"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/cordialsys/xbridge/transfer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func asJson(data any) string {
	bz, _ := json.MarshalIndent(data, "", "  ")
	return string(bz)
}

// printOutput renders data as json or yaml. yaml goes through json so both use the json field names.
func printOutput(w io.Writer, format string, data any) error {
	switch format {
	case "json":
		fmt.Fprintln(w, asJson(data))
	case "yaml":
		var reserialized any
		if err := json.Unmarshal([]byte(asJson(data)), &reserialized); err != nil {
			return err
		}
		bz, err := yaml.Marshal(reserialized)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(bz))
	default:
		return fmt.Errorf("invalid format %q, expected json or yaml", format)
	}
	return nil
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "json", "Output format: json or yaml")
}

type transferFlags struct {
	kind        string
	source      string
	destination string
	resource    string
	sender      string
	recipient   string
	amount      string
	tokenID     string
	format      string
}

func addTransferFlags(cmd *cobra.Command, f *transferFlags) {
	cmd.Flags().StringVar(&f.kind, "kind", string(transfer.Fungible), "Transfer kind: fungible or nonfungible")
	cmd.Flags().StringVar(&f.source, "from", "", "Source domain: domain:<id>, a chain id or a caip-2 id")
	cmd.Flags().StringVar(&f.destination, "to", "", "Destination domain: domain:<id>, a chain id or a caip-2 id")
	cmd.Flags().StringVar(&f.resource, "resource", "", "Resource id")
	cmd.Flags().StringVar(&f.sender, "sender", "", "Sender address on the source domain")
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "Recipient address on the destination domain")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount in human units, e.g. 1.5")
	cmd.Flags().StringVar(&f.tokenID, "token-id", "", "Token id of a nonfungible transfer")
	addFormatFlag(cmd, &f.format)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("resource")
}

func decimalsOf(domain config.DomainConfig, resource xb.Resource) int32 {
	if resource.Native && resource.Decimals == 0 {
		return domain.NativeTokenDecimals
	}
	return resource.Decimals
}

// newTransferContext resolves the flags against the loaded config
func newTransferContext(cmd *cobra.Command, f *transferFlags) (*transfer.Context, error) {
	cfg := setup.UnwrapConfig(cmd.Context())
	source, err := xb.ParseDomainRef(f.source)
	if err != nil {
		return nil, err
	}
	destination, err := xb.ParseDomainRef(f.destination)
	if err != nil {
		return nil, err
	}
	resourceRef, err := xb.ParseResourceRef(f.resource)
	if err != nil {
		return nil, err
	}
	params := transfer.Params{
		Kind:        transfer.Kind(f.kind),
		Source:      source,
		Destination: destination,
		Resource:    resourceRef,
		Sender:      xb.Address(f.sender),
		Recipient:   f.recipient,
	}

	switch params.Kind {
	case transfer.Fungible:
		domain, err := cfg.ResolveDomain(source)
		if err != nil {
			return nil, err
		}
		resource, err := domain.Resource(resourceRef)
		if err != nil {
			return nil, err
		}
		human, err := xb.NewAmountHumanReadableFromStr(f.amount)
		if err != nil {
			return nil, fmt.Errorf("invalid --amount %q: %v", f.amount, err)
		}
		params.Amount = human.ToBlockchain(decimalsOf(domain, resource))
	case transfer.NonFungible:
		params.TokenID = xb.NewAmountBlockchainFromStr(f.tokenID)
	default:
		return nil, fmt.Errorf("the cli only prepares fungible and nonfungible transfers, not %q", f.kind)
	}
	return transfer.New(cfg, params)
}

func parseHexFlag(name string, value string) (hex.Hex, error) {
	bz, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %v", name, err)
	}
	return bz, nil
}
