package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"near-intents/config"
	"near-intents/pkg/intent"
	"near-intents/pkg/ledger"
	"near-intents/pkg/relay"
	"near-intents/pkg/swap"
)

// buildOrchestrator wires the full pipeline from configuration:
// registry, relay client, signer and the RPC-backed account.
func buildOrchestrator(logger *zap.Logger) (*swap.Orchestrator, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	creds, err := ledger.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	signer, err := intent.NewSigner(creds.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	account, err := ledger.NewRPCAccount(cfg.RPCURL, creds, logger)
	if err != nil {
		return nil, nil, err
	}
	rfq := relay.NewClient(cfg.RelayURL, logger)

	orch := swap.New(registry, rfq, signer, account,
		swap.WithVerifyingContract(cfg.VerifyingContract),
		swap.WithDeadline(cfg.Deadline),
		swap.WithLogger(logger),
	)
	return orch, cfg, nil
}

// confirm asks the user to proceed.
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// flagBool reads a bool flag, tolerating its absence.
func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
