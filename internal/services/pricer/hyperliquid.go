package pricer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"
)

const hyperliquidAPIURL = "https://api.hyperliquid.xyz"

// HyperliquidPricer fetches spot prices from the Hyperliquid public Info API.
type HyperliquidPricer struct {
	info *hyperliquid.Info
}

// NewHyperliquidPricer derives the account address from the wallet key and
// builds the Info client. Only public endpoints are used; the key never
// signs anything here.
func NewHyperliquidPricer(key *ecdsa.PrivateKey) (*HyperliquidPricer, error) {
	if key == nil {
		return nil, fmt.Errorf("hyperliquid pricer requires a wallet key")
	}
	accountAddr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	// Info and SpotMeta are fetched lazily by the SDK.
	ex := hyperliquid.NewExchange(
		context.Background(),
		key,
		hyperliquidAPIURL,
		nil,
		"",
		accountAddr,
		nil,
	)
	return &HyperliquidPricer{info: ex.Info()}, nil
}

func (p *HyperliquidPricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.info == nil {
		return decimal.Zero, fmt.Errorf("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	// Hyperliquid mids are keyed by base coin (e.g., "ETH").
	mid, ok := mids[symbol]
	if !ok || mid == "" {
		return decimal.Zero, fmt.Errorf("hyperliquid API returned empty mid price for %s", symbol)
	}
	return decimal.NewFromString(mid)
}
