package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "near-intents",
	Short: "A CLI for swaps and withdrawals via NEAR Intents",
	Long: `near-intents executes signed intents against the NEAR Intents solver bus.
It builds canonical quotes, negotiates them with solvers over RFQ and
publishes the signed result for settlement.

Examples:
  near-intents swap 1 NEAR to USDC
  near-intents quote 1 NEAR to USDC
  near-intents deposit 1 NEAR
  near-intents withdraw 10 USDC --to 0x1234... --network eth
  near-intents tokens`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}

// newLogger builds the logger the pkg layer components use. Verbose
// runs get a development logger, everything else stays quiet.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
