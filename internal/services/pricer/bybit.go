package pricer

import (
	"context"
	"fmt"

	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"
)

type BybitPricer struct {
	client *bybit.Client
}

func NewBybitPricer() *BybitPricer {
	return &BybitPricer{client: bybit.NewClient()}
}

func (p *BybitPricer) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	s := bybit.SymbolV5(symbol + "USDT")

	result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
		Symbol:   &s,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	if len(result.Result.Spot.List) == 0 {
		return decimal.Decimal{}, fmt.Errorf("bybit API returned empty prices for %s", symbol)
	}

	return decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
}
