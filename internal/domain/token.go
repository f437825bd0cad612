// Package domain defines core data structures used throughout the staking dashboard.
package domain

import (
	"github.com/shopspring/decimal"
)

// StakingToken describes one stakeable asset from the static catalog.
type StakingToken struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	Symbol       string          `yaml:"symbol" json:"symbol"`
	Address      string          `yaml:"address" json:"address"`
	APY          decimal.Decimal `yaml:"apy" json:"apy"`
	RewardSymbol string          `yaml:"reward_symbol" json:"reward_symbol"`
	// LockupDays is the lock-up period in days, 0 means no lock-up.
	LockupDays int  `yaml:"lockup_days,omitempty" json:"lockup_days,omitempty"`
	Active     bool `yaml:"active" json:"active"`
}

// HasLockup reports whether new stakes of this token are locked.
func (t *StakingToken) HasLockup() bool {
	return t.LockupDays > 0
}

// Catalog is the static set of stakeable tokens.
type Catalog []StakingToken

// ByID returns the token with the given id.
func (c Catalog) ByID(id string) (*StakingToken, bool) {
	for i := range c {
		if c[i].ID == id {
			return &c[i], true
		}
	}
	return nil, false
}

// DefaultCatalog returns the built-in token catalog used when the config
// does not override it.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:           "1",
			Name:         "Ethereum",
			Symbol:       "ETH",
			Address:      "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			APY:          decimal.NewFromFloat(8.5),
			RewardSymbol: "REW",
			Active:       true,
		},
		{
			ID:           "2",
			Name:         "Uniswap",
			Symbol:       "UNI",
			Address:      "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			APY:          decimal.NewFromFloat(12.3),
			RewardSymbol: "REW",
			LockupDays:   30,
			Active:       true,
		},
		{
			ID:           "3",
			Name:         "Aave",
			Symbol:       "AAVE",
			Address:      "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			APY:          decimal.NewFromFloat(15.7),
			RewardSymbol: "REW",
			LockupDays:   90,
			Active:       true,
		},
		{
			ID:           "4",
			Name:         "Chainlink",
			Symbol:       "LINK",
			Address:      "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			APY:          decimal.NewFromFloat(7.2),
			RewardSymbol: "REW",
			Active:       false,
		},
	}
}
