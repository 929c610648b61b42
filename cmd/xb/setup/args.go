package setup

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/config/constants"
	"github.com/cordialsys/xbridge/pkg/rest"
	"github.com/spf13/cobra"
)

type ContextKey string

const ContextConfig ContextKey = "config"
const ContextArgs ContextKey = "args"

type Args struct {
	ConfigPath     string
	ConfigUrl      string
	Environment    string
	Rpc            map[string]string
	VerbosityCount int
}

func AddArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a yaml, toml or json config file (defaults to $"+constants.ConfigEnv+" or the search path)")
	cmd.PersistentFlags().String("config-url", "", "Url of a shared json config (defaults to $"+constants.ConfigUrlEnv+")")
	cmd.PersistentFlags().String("env", string(config.Local), "Environment whose embedded defaults are used")
	cmd.PersistentFlags().StringToString("rpc", map[string]string{}, "Override the rpc of a domain, e.g. --rpc 1=http://127.0.0.1:8545")
	cmd.PersistentFlags().CountP("verbose", "v", "Set verbosity level")
}

func ArgsFromCmd(cmd *cobra.Command) (*Args, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configUrl, err := cmd.Flags().GetString("config-url")
	if err != nil {
		return nil, err
	}
	if configUrl == "" {
		configUrl = os.Getenv(constants.ConfigUrlEnv)
	}
	env, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, err
	}
	rpc, err := cmd.Flags().GetStringToString("rpc")
	if err != nil {
		return nil, err
	}
	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return nil, err
	}
	return &Args{
		ConfigPath:     configPath,
		ConfigUrl:      configUrl,
		Environment:    env,
		Rpc:            rpc,
		VerbosityCount: verbosity,
	}, nil
}

// ConfigureLogger maps -v counts onto levels. Without -v, $XBRIDGE_LOG_LEVEL applies.
func ConfigureLogger(args *Args) {
	switch args.VerbosityCount {
	case 0:
		config.ConfigureLogger()
	case 1:
		config.ConfigureLogger("info")
	case 2:
		config.ConfigureLogger("debug")
	default:
		config.ConfigureLogger("trace")
	}
}

func WrapConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ContextConfig, cfg)
}

func UnwrapConfig(ctx context.Context) *config.Config {
	return ctx.Value(ContextConfig).(*config.Config)
}

func WrapArgs(ctx context.Context, args *Args) context.Context {
	return context.WithValue(ctx, ContextArgs, args)
}

// UnwrapArgs returns empty args when none were wrapped
func UnwrapArgs(ctx context.Context) *Args {
	if args, ok := ctx.Value(ContextArgs).(*Args); ok {
		return args
	}
	return &Args{}
}

// HttpClient traces response bodies at -vvv
func HttpClient(args *Args) *http.Client {
	interceptor := rest.NewHttpInterceptor(rest.TraceBodies)
	if args.VerbosityCount >= 3 {
		interceptor.Enable()
	}
	return &http.Client{
		Timeout:   60 * time.Second,
		Transport: interceptor,
	}
}
