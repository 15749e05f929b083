// Package market seeds the informational price display fields of a
// swap session from public exchange data.
package market

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

// Stats is a 24h market summary for a pair.
type Stats struct {
	LastPrice      decimal.Decimal
	PriceChange24h decimal.Decimal
}

// BinanceStats reads market display data from the Binance public API.
type BinanceStats struct {
	client *binance.Client
}

// NewBinanceStats creates a Binance-backed market stats provider.
func NewBinanceStats(client *binance.Client) *BinanceStats {
	return &BinanceStats{client: client}
}

// Get24h fetches last price and 24h change percentage for the pair.
func (m *BinanceStats) Get24h(ctx context.Context, pair domain.Pair) (Stats, error) {
	stats, err := m.client.NewListPriceChangeStatsService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "binance 24h stats for %s", pair.String())
	}
	if len(stats) == 0 {
		return Stats{}, errors.Errorf("binance returned no 24h stats for %s", pair.String())
	}

	last, err := decimal.NewFromString(stats[0].LastPrice)
	if err != nil {
		return Stats{}, errors.Wrap(err, "parse last price")
	}
	change, err := decimal.NewFromString(stats[0].PriceChangePercent)
	if err != nil {
		return Stats{}, errors.Wrap(err, "parse price change percent")
	}

	return Stats{LastPrice: last, PriceChange24h: change}, nil
}

// RecentCloses fetches the close prices of the most recent klines.
func (m *BinanceStats) RecentCloses(ctx context.Context, pair domain.Pair, interval string, limit int) ([]decimal.Decimal, error) {
	klines, err := m.client.NewKlinesService().
		Symbol(pair.Symbol()).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "binance klines for %s", pair.String())
	}

	closes := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		c, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(err, "parse close price at index %d", i)
		}
		closes[i] = c
	}
	return closes, nil
}
