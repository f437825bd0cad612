package pricer

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewDispatch(t *testing.T) {
	p, err := New("binance", nil)
	require.NoError(t, err)
	require.IsType(t, &BinancePricer{}, p)

	p, err = New("bybit", nil)
	require.NoError(t, err)
	require.IsType(t, &BybitPricer{}, p)

	key, err := crypto.HexToECDSA("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	p, err = New("hyperliquid", key)
	require.NoError(t, err)
	require.IsType(t, &HyperliquidPricer{}, p)

	_, err = New("hyperliquid", nil)
	require.Error(t, err)

	_, err = New("kraken", nil)
	require.Error(t, err)
}
