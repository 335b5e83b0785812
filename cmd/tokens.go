package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"near-intents/config"
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the supported tokens",
	Long: `List the tokens in the asset registry together with their solver-bus
identifiers and bridge aliases.

Examples:
  near-intents list-tokens
  near-intents tokens --json`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput := flagBool(cmd, "json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	registry, err := cfg.Registry()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		type entry struct {
			Symbol   string `json:"symbol"`
			AssetID  string `json:"asset_id"`
			TokenID  string `json:"token_id"`
			Bridge   string `json:"bridge,omitempty"`
			Decimals int32  `json:"decimals"`
		}
		entries := make([]entry, 0)
		for _, symbol := range registry.Symbols() {
			a, _ := registry.Resolve(symbol)
			entries = append(entries, entry{
				Symbol:   a.Symbol,
				AssetID:  a.ID(),
				TokenID:  a.TokenID,
				Bridge:   a.Bridge,
				Decimals: a.Decimals,
			})
		}
		jsonData, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	for _, symbol := range registry.Symbols() {
		a, _ := registry.Resolve(symbol)
		fmt.Printf("\n  %-8s  %2d decimals  %s\n",
			color.YellowString(a.Symbol),
			a.Decimals,
			color.HiBlackString(a.ID()))
		if a.Bridge != "" {
			fmt.Printf("            bridge: %s\n", color.HiBlackString(a.Bridge))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens\n\n", len(registry.Symbols()))
}
