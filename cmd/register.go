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

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the account's public key with the settlement contract",
	Long: `Register the signing key with the settlement contract so it can
verify intents signed by this account. Running it again when the key is
already registered is harmless.`,
	Args: cobra.NoArgs,
	Run:  runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) {
	logger := newLogger(cmd)
	orch, cfg, err := buildOrchestrator(logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Registering public key..."
	s.Start()

	err = orch.RegisterPublicKey(context.Background())
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	color.Green("\n✓ Public key registered with %s\n", cfg.VerifyingContract)
	fmt.Println()
}
