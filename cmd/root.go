package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "near-sandbox",
	Short: "NEAR sandbox node lifecycle manager",
	Long: `near-sandbox manages local NEAR sandbox nodes for testing.

Each node gets:
  - A throwaway home directory with patched config and genesis
  - Two reserved ports (RPC and peer network), guarded by file locks
    so concurrent runs never collide
  - A funded default account, plus any extra accounts you ask for`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	_          = logging.UserError // reserved for future use
)
