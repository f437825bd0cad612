// Package config loads the dashboard configuration from a yaml file or from
// command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vadiminshakov/stakeboard/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr   = ":8080"
	defaultPollInterval = 30 * time.Second
	defaultWalDir       = "./wal/ledger"
	defaultPlatform     = "binance"
	defaultKeyEnv       = "STAKEBOARD_PRIVATE_KEY"
)

type Config struct {
	// ListenAddr is the address the dashboard HTTP server binds to.
	ListenAddr string `yaml:"listen_addr"`
	// RPCURL is the Ethereum JSON-RPC endpoint.
	RPCURL string `yaml:"rpc_url"`
	// ChainID of the network the contracts are deployed on.
	ChainID int64 `yaml:"chain_id"`
	// TokenAddress of the ERC-20 staking token contract.
	TokenAddress string `yaml:"token_address"`
	// RewardsAddress of the StakingRewards contract.
	RewardsAddress string `yaml:"rewards_address"`
	// PrivateKeyEnv names the environment variable holding the wallet key.
	PrivateKeyEnv string `yaml:"private_key_env"`
	// PollRewardsInterval between reward reconciliations while connected.
	PollRewardsInterval time.Duration `yaml:"poll_rewards_interval"`
	// PricingPlatform selects the spot-price source: binance, bybit or
	// hyperliquid.
	PricingPlatform string `yaml:"pricing_platform"`
	// WalDir is the ledger WAL directory.
	WalDir string `yaml:"wal_dir"`
	// TLSDomains enables automatic TLS for the given domains when set.
	TLSDomains []string `yaml:"tls_domains,omitempty"`
	// CertCacheDir stores issued certificates.
	CertCacheDir string `yaml:"cert_cache_dir,omitempty"`
	// Tokens overrides the built-in staking token catalog when set.
	Tokens domain.Catalog `yaml:"tokens,omitempty"`
}

// Get reads the configuration from the yaml file specified with -config, or
// from CLI flags when no file is given.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	listen := flag.String("listen", defaultListenAddr, "dashboard listen address")
	rpcURL := flag.String("rpc", "http://127.0.0.1:8545", "ethereum json-rpc endpoint")
	chainID := flag.Int64("chainid", 31337, "chain id")
	tokenAddr := flag.String("token", "", "staking token contract address")
	rewardsAddr := flag.String("rewards", "", "staking rewards contract address")
	keyEnv := flag.String("keyenv", defaultKeyEnv, "env variable holding the wallet private key")
	pollInterval := flag.Duration("pollrewardsinterval", defaultPollInterval, "reward reconciliation interval")
	platform := flag.String("pricing", defaultPlatform, "spot price source: binance, bybit or hyperliquid")
	walDir := flag.String("waldir", defaultWalDir, "ledger WAL directory")
	flag.Parse()

	var cfg Config
	if *configPath != "" {
		f, err := os.ReadFile(*configPath)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("incorrect yaml config %s: %w", *configPath, err)
		}
	} else {
		cfg = Config{
			ListenAddr:          *listen,
			RPCURL:              *rpcURL,
			ChainID:             *chainID,
			TokenAddress:        *tokenAddr,
			RewardsAddress:      *rewardsAddr,
			PrivateKeyEnv:       *keyEnv,
			PollRewardsInterval: *pollInterval,
			PricingPlatform:     *platform,
			WalDir:              *walDir,
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.PollRewardsInterval <= 0 {
		c.PollRewardsInterval = defaultPollInterval
	}
	if c.PricingPlatform == "" {
		c.PricingPlatform = defaultPlatform
	}
	if c.WalDir == "" {
		c.WalDir = defaultWalDir
	}
	if c.PrivateKeyEnv == "" {
		c.PrivateKeyEnv = defaultKeyEnv
	}
	if len(c.Tokens) == 0 {
		c.Tokens = domain.DefaultCatalog()
	}
}

func (c *Config) validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("'rpc_url' param is required")
	}
	if c.TokenAddress == "" {
		return fmt.Errorf("'token_address' param is required")
	}
	if c.RewardsAddress == "" {
		return fmt.Errorf("'rewards_address' param is required")
	}
	switch c.PricingPlatform {
	case "binance", "bybit", "hyperliquid":
	default:
		return fmt.Errorf("unsupported pricing platform: %s", c.PricingPlatform)
	}
	return nil
}
