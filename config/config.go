package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"near-intents/pkg/asset"
	"near-intents/pkg/ledger"
	"near-intents/pkg/relay"
)

// Config holds the application configuration
type Config struct {
	RelayURL          string
	RPCURL            string
	EthRPCURL         string
	VerifyingContract string
	CredentialsFile   string
	Deadline          time.Duration
	ExtraAssets       []asset.Asset
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".near-intents")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("relay_url", relay.DefaultURL)
	viper.SetDefault("rpc_url", ledger.DefaultRPCURL)
	viper.SetDefault("verifying_contract", "intents.near")
	viper.SetDefault("deadline_ms", relay.DefaultMinDeadline.Milliseconds())
	viper.SetDefault("credentials_file", "~/.near-credentials/mainnet/account.json")

	// Read from environment variables
	viper.SetEnvPrefix("NEAR_INTENTS")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		RelayURL:          viper.GetString("relay_url"),
		RPCURL:            viper.GetString("rpc_url"),
		EthRPCURL:         viper.GetString("eth_rpc_url"),
		VerifyingContract: viper.GetString("verifying_contract"),
		CredentialsFile:   viper.GetString("credentials_file"),
		Deadline:          time.Duration(viper.GetInt64("deadline_ms")) * time.Millisecond,
	}

	// Optional extra assets on top of the built-in registry
	if err := viper.UnmarshalKey("assets", &cfg.ExtraAssets); err != nil {
		return nil, fmt.Errorf("invalid assets configuration: %w", err)
	}

	if cfg.Deadline <= 0 {
		return nil, fmt.Errorf("deadline_ms must be greater than zero")
	}

	globalConfig = cfg
	return cfg, nil
}

// Registry builds the asset registry: built-in assets plus any
// configured extras, with extras overriding by symbol.
func (c *Config) Registry() (*asset.Registry, error) {
	base := asset.Default()
	if len(c.ExtraAssets) == 0 {
		return base, nil
	}

	merged := make(map[string]asset.Asset)
	var order []string
	add := func(a asset.Asset) {
		symbol := strings.ToUpper(a.Symbol)
		if _, seen := merged[symbol]; !seen {
			order = append(order, symbol)
		}
		merged[symbol] = a
	}
	for _, symbol := range base.Symbols() {
		a, _ := base.Resolve(symbol)
		add(a)
	}
	for _, a := range c.ExtraAssets {
		add(a)
	}

	assets := make([]asset.Asset, 0, len(order))
	for _, symbol := range order {
		assets = append(assets, merged[symbol])
	}
	return asset.NewRegistry(assets...)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
