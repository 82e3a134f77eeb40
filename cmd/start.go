package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsavchyn-dev/near-sandbox/internal/config"
	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
	"github.com/vsavchyn-dev/near-sandbox/internal/nodeconfig"
	"github.com/vsavchyn-dev/near-sandbox/internal/sandbox"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a sandbox node and run it until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var (
	startBin           string
	startRPCPort       int
	startNetworkPort   int
	startConfigPath    string
	startExtraAccounts int
	startPatchConfig   string
	startPatchGenesis  string
)

func init() {
	startCmd.Flags().StringVar(&startBin, "bin", "", "Path to the node binary (default: near-sandbox on $PATH)")
	startCmd.Flags().IntVar(&startRPCPort, "rpc-port", 0, "RPC port to bind (0 = OS-assigned)")
	startCmd.Flags().IntVar(&startNetworkPort, "network-port", 0, "Peer network port to bind (0 = OS-assigned)")
	startCmd.Flags().StringVar(&startConfigPath, "config", "", "Path to tool config TOML (default: XDG config dir)")
	startCmd.Flags().IntVar(&startExtraAccounts, "extra-accounts", 0, "Number of extra funded accounts to generate")
	startCmd.Flags().StringVar(&startPatchConfig, "patch-config", "", "JSON file deep-merged into the node's config.json")
	startCmd.Flags().StringVar(&startPatchGenesis, "patch-genesis", "", "JSON file deep-merged into the node's genesis.json")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	toolCfg, err := loadToolConfig()
	if err != nil {
		return err
	}

	env, err := config.ResolveEnvironment()
	if err != nil {
		return err
	}
	// The environment variable outranks the config file for the readiness
	// budget; the file only fills in when the variable is absent.
	if _, set := os.LookupEnv(config.EnvRPCTimeoutSecs); !set && toolCfg.ReadyTimeoutSecs > 0 {
		env.ReadyTimeout = time.Duration(toolCfg.ReadyTimeoutSecs) * time.Second
	}

	nodeCfg, err := buildNodeConfig(toolCfg)
	if err != nil {
		return err
	}

	starter, err := sandbox.NewStarter(
		sandbox.WithEnvironment(env),
		sandbox.WithBinPath(resolveBinPath(toolCfg)),
	)
	if err != nil {
		return err
	}

	logInfo("Starting sandbox node...")
	sb, err := starter.Start(ctx, nodeCfg)
	if err != nil {
		return err
	}
	defer sb.Close()

	logSuccess("Sandbox ready at %s", sb.RPCAddr)
	logInfo("  home:         %s", sb.HomeDir)
	logInfo("  network port: %d", sb.NetPort)
	for _, acct := range nodeCfg.AdditionalAccounts {
		logInfo("  account:      %s (key file in home dir)", acct.AccountID)
	}

	waitForInterrupt()
	logInfo("Shutting down sandbox...")
	return nil
}

// loadToolConfig reads the TOML tool config from --config, or from the
// default path when the flag is unset.
func loadToolConfig() (*config.ToolConfig, error) {
	path := startConfigPath
	if path == "" {
		path = config.DefaultToolConfigPath()
	}
	return config.LoadToolConfig(path)
}

// resolveBinPath applies flag-over-file precedence for the binary path. An
// empty result defers to the environment and then the $PATH default.
func resolveBinPath(toolCfg *config.ToolConfig) string {
	if startBin != "" {
		return startBin
	}
	return toolCfg.BinPath
}

// buildNodeConfig assembles the per-node override bundle from flags, the
// tool config, and any patch files.
func buildNodeConfig(toolCfg *config.ToolConfig) (nodeconfig.Config, error) {
	cfg := nodeconfig.Config{
		RPCPort: startRPCPort,
		NetPort: startNetworkPort,
	}
	if cfg.RPCPort == 0 {
		cfg.RPCPort = toolCfg.RPCPort
	}
	if cfg.NetPort == 0 {
		cfg.NetPort = toolCfg.NetworkPort
	}

	var err error
	if cfg.AdditionalConfig, err = loadPatchFile(startPatchConfig); err != nil {
		return cfg, err
	}
	if cfg.AdditionalGenesis, err = loadPatchFile(startPatchGenesis); err != nil {
		return cfg, err
	}

	for i := 0; i < startExtraAccounts; i++ {
		acct, err := nodeconfig.GenerateAccount()
		if err != nil {
			return cfg, err
		}
		cfg.AdditionalAccounts = append(cfg.AdditionalAccounts, acct)
	}

	return cfg, nil
}

// loadPatchFile parses a JSON object from path. An empty path means no
// patch.
func loadPatchFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read patch file "+path, err)
	}
	var patch map[string]any
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, errors.JSONError("failed to parse patch file "+path, err)
	}
	return patch, nil
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	logging.Debug("received signal", "signal", sig)
}
