package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var depositNoConfirm bool

var depositCmd = &cobra.Command{
	Use:   "deposit <amount> <token>",
	Short: "Deposit tokens into the settlement contract",
	Long: `Deposit tokens so they can be swapped through intents. NEAR is
wrapped automatically before the transfer. Storage registration for the
settlement contract is handled when needed.

Examples:
  near-intents deposit 1 NEAR
  near-intents deposit 25 USDC --yes`,
	Args: cobra.ExactArgs(2),
	Run:  runDeposit,
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().BoolVarP(&depositNoConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runDeposit(cmd *cobra.Command, args []string) {
	amount, symbol := args[0], args[1]

	logger := newLogger(cmd)
	orch, cfg, err := buildOrchestrator(logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !depositNoConfirm {
		fmt.Printf("\nDeposit %s %s into %s.\n", amount, symbol, cfg.VerifyingContract)
		if !confirm("Proceed with deposit?") {
			fmt.Println("\nDeposit cancelled.")
			os.Exit(0)
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Submitting deposit..."
	s.Start()

	outcome, err := orch.Deposit(context.Background(), symbol, amount)
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	color.Green("\n✓ Deposit submitted")
	fmt.Printf("  Transaction: %s\n\n", color.CyanString(outcome.TxHash))
}
