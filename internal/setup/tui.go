package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vadiminshakov/stakeboard/config"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the resulting
// yaml config to config.gen.yaml.
func RunTUI() error {
	var (
		rpcURL          string
		chainIDStr      string
		tokenAddr       string
		rewardsAddr     string
		listenAddr      string
		keyEnv          string
		pollIntervalStr string
		platform        string
		confirm         bool
	)

	// defaults
	rpcURL = "http://127.0.0.1:8545"
	chainIDStr = "31337"
	listenAddr = ":8080"
	keyEnv = "STAKEBOARD_PRIVATE_KEY"
	pollIntervalStr = "30s"

	// step 1: welcome + network
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("STAKEBOARD CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's wire your dashboard to the chain.\n"))

	fmt.Println(stepStyle.Render("STEP 1: NETWORK"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ethereum JSON-RPC URL").
				Value(&rpcURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("rpc url cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Chain ID").
				Value(&chainIDStr).
				Validate(func(s string) error {
					if _, err := strconv.ParseInt(s, 10, 64); err != nil {
						return fmt.Errorf("invalid chain id: %s", s)
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 2: contracts
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAKEBOARD CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: CONTRACTS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Staking Token Address").
				Description("ERC-20 token being staked (0x...)").
				Value(&tokenAddr).
				Validate(validateAddress),
			huh.NewInput().
				Title("Staking Rewards Address").
				Description("StakingRewards contract (0x...)").
				Value(&rewardsAddr).
				Validate(validateAddress),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 3: wallet
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAKEBOARD CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: WALLET"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Private Key Environment Variable").
				Description("Name of the env var holding the wallet key, never the key itself").
				Value(&keyEnv).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("variable name cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 4: dashboard
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAKEBOARD CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: DASHBOARD"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen Address").
				Description("Address the dashboard binds to (e.g. :8080)").
				Value(&listenAddr),
			huh.NewInput().
				Title("Reward Poll Interval").
				Description("e.g. 30s, 1m").
				Value(&pollIntervalStr).
				Validate(func(s string) error {
					d, err := time.ParseDuration(s)
					if err != nil {
						return fmt.Errorf("invalid duration: %s", s)
					}
					if d <= 0 {
						return fmt.Errorf("interval must be positive")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Spot Price Source").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirm
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAKEBOARD CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("REVIEW"))
	fmt.Printf("\nRPC: %s (chain %s)\nToken: %s\nRewards: %s\nKey env: %s\nDashboard: %s, poll %s, prices from %s\n\n",
		rpcURL, chainIDStr, tokenAddr, rewardsAddr, keyEnv, listenAddr, pollIntervalStr, platform)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	// generate config
	chainID, _ := strconv.ParseInt(chainIDStr, 10, 64)
	pollInterval, _ := time.ParseDuration(pollIntervalStr)

	cfg := config.Config{
		ListenAddr:          listenAddr,
		RPCURL:              rpcURL,
		ChainID:             chainID,
		TokenAddress:        tokenAddr,
		RewardsAddress:      rewardsAddr,
		PrivateKeyEnv:       keyEnv,
		PollRewardsInterval: pollInterval,
		PricingPlatform:     platform,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("\nConfiguration saved to " + filename))
	return nil
}

func validateAddress(s string) error {
	if !common.IsHexAddress(s) {
		return fmt.Errorf("not a valid address: %s", s)
	}
	return nil
}
