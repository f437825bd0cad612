// Package pricer provides spot USD prices for the staked tokens shown on
// the dashboard.
package pricer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricer returns the spot price of a token symbol quoted in USD.
type Pricer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// New dispatches to the platform-specific implementation. The wallet key is
// only needed by the hyperliquid backend, which derives the account address
// from it; binance and bybit ignore it.
func New(platform string, key *ecdsa.PrivateKey) (Pricer, error) {
	switch platform {
	case "binance":
		return NewBinancePricer(), nil
	case "bybit":
		return NewBybitPricer(), nil
	case "hyperliquid":
		return NewHyperliquidPricer(key)
	default:
		return nil, fmt.Errorf("unsupported pricing platform: %s", platform)
	}
}
