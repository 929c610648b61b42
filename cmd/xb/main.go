package main

import (
	"os"

	"github.com/cordialsys/xbridge/cmd/xb/commands"
	"github.com/cordialsys/xbridge/cmd/xb/setup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func CmdXb() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "xb",
		Short:        "Prepare bridge transfers between domains",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			args, err := setup.ArgsFromCmd(cmd)
			if err != nil {
				return err
			}
			setup.ConfigureLogger(args)

			cfg, err := setup.LoadConfig(cmd.Context(), args)
			if err != nil {
				return err
			}
			logrus.WithField("config", cfg.String()).Debug("loaded config")
			ctx := setup.WrapConfig(cmd.Context(), cfg)
			ctx = setup.WrapArgs(ctx, args)
			cmd.SetContext(ctx)
			return nil
		},
	}
	setup.AddArgs(cmd)

	cmd.AddCommand(commands.CmdDomains())
	cmd.AddCommand(commands.CmdFee())
	cmd.AddCommand(commands.CmdDepositData())
	cmd.AddCommand(commands.CmdEvmTransfer())
	cmd.AddCommand(commands.CmdSubstrateTransfer())
	cmd.AddCommand(commands.CmdBtcTransfer())
	cmd.AddCommand(commands.CmdBtcBroadcast())
	cmd.AddCommand(commands.CmdRoutes())

	return cmd
}

func main() {
	rootCmd := CmdXb()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
