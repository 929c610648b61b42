package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/cmd/xb/commands"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/cordialsys/xbridge/deposit"
	"github.com/cordialsys/xbridge/pkg/hex"
	"github.com/cordialsys/xbridge/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const evmRecipient = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func run(t *testing.T, cmd *cobra.Command, args ...string) ([]byte, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	ctx := setup.WrapConfig(context.Background(), testutil.LocalConfig())
	err := cmd.ExecuteContext(ctx)
	return out.Bytes(), err
}

func TestDomains(t *testing.T) {
	require := require.New(t)
	out, err := run(t, commands.CmdDomains())
	require.NoError(err)

	var domains []xb.Domain
	require.NoError(json.Unmarshal(out, &domains))
	require.Len(domains, 4)
	require.Equal(xb.NetworkEVM, domains[0].Type)
	require.Equal(xb.NetworkBitcoin, domains[3].Type)

	out, err = run(t, commands.CmdDomains(), "--format", "yaml")
	require.NoError(err)
	require.Contains(string(out), "bip122:0f9188f13cb7b2c71f2a335e3a4fc328")

	_, err = run(t, commands.CmdDomains(), "--format", "xml")
	require.ErrorContains(err, "invalid format")
}

func TestDepositData(t *testing.T) {
	require := require.New(t)
	out, err := run(t, commands.CmdDepositData(),
		"--from", "domain:1",
		"--to", "domain:2",
		"--resource", "0x0000000000000000000000000000000000000000000000000000000000000300",
		"--sender", evmRecipient,
		"--recipient", evmRecipient,
		"--amount", "1.5",
	)
	require.NoError(err)

	var result struct {
		Data hex.Hex `json:"data"`
	}
	require.NoError(json.Unmarshal(out, &result))

	recipient, err := deposit.RecipientBytes(xb.NetworkEVM, evmRecipient, 0)
	require.NoError(err)
	// USDC has 6 decimals
	expected, err := deposit.ERCDepositData(xb.NewAmountBlockchainFromUint64(1_500_000), recipient)
	require.NoError(err)
	require.Equal(hex.Hex(expected), result.Data)
}

func TestDepositDataRejections(t *testing.T) {
	require := require.New(t)
	base := []string{
		"--from", "domain:1",
		"--to", "domain:2",
		"--resource", "0x0000000000000000000000000000000000000000000000000000000000000300",
		"--sender", evmRecipient,
		"--recipient", evmRecipient,
	}

	_, err := run(t, commands.CmdDepositData(), append(base, "--amount", "lots")...)
	require.ErrorContains(err, "invalid --amount")

	_, err = run(t, commands.CmdDepositData(), append(base, "--amount", "1", "--kind", "generic")...)
	require.ErrorContains(err, "only prepares fungible and nonfungible")

	_, err = run(t, commands.CmdDepositData(), "--to", "domain:2", "--resource", "0x01")
	require.ErrorContains(err, "from")
}

func TestBitcoinFee(t *testing.T) {
	require := require.New(t)
	out, err := run(t, commands.CmdFee(),
		"--from", "domain:4",
		"--to", "domain:1",
		"--resource", "0x0000000000000000000000000000000000000000000000000000000000000700",
		"--sender", "bcrt1q5ax8csnaldyp505kl45dlgvf3rmuxfy3crl949",
		"--recipient", evmRecipient,
		"--amount", "0.5",
	)
	require.NoError(err)

	var result xb.Fee
	require.NoError(json.Unmarshal(out, &result))
	require.Equal(xb.FeeHandlerBasic, result.Type)
	require.Equal("1000000", result.Fee.String())
	require.Equal("50000000", result.NetAmount.String())
	require.EqualValues("bcrt1q5ax8csnaldyp505kl45dlgvf3rmuxfy3crl949", result.HandlerAddress)
}
