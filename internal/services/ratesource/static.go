package ratesource

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

const defaultStaticLatency = 800 * time.Millisecond

// StaticSource serves rates from a fixed table keyed by "FROM-TO"
// strings, with a randomized price impact and artificial latency. It
// stands in for a live source in demos and tests.
type StaticSource struct {
	rates   map[string]decimal.Decimal
	latency time.Duration
}

// DefaultRateTable covers the pairs of the built-in registry in both
// directions.
func DefaultRateTable() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"BTC-ETH":   decimal.NewFromFloat(15.0),
		"ETH-BTC":   decimal.NewFromFloat(0.0667),
		"BTC-USDT":  decimal.NewFromFloat(97000),
		"USDT-BTC":  decimal.NewFromFloat(0.0000103),
		"BTC-USDC":  decimal.NewFromFloat(97000),
		"USDC-BTC":  decimal.NewFromFloat(0.0000103),
		"BTC-WBTC":  decimal.NewFromFloat(0.9995),
		"WBTC-BTC":  decimal.NewFromFloat(1.0005),
		"ETH-USDT":  decimal.NewFromFloat(3450),
		"USDT-ETH":  decimal.NewFromFloat(0.00029),
		"ETH-USDC":  decimal.NewFromFloat(3450),
		"USDC-ETH":  decimal.NewFromFloat(0.00029),
		"USDT-USDC": decimal.NewFromFloat(1.0),
		"USDC-USDT": decimal.NewFromFloat(1.0),
		"1INCH-ETH": decimal.NewFromFloat(0.000125),
		"ETH-1INCH": decimal.NewFromFloat(8000),
		"SOL-USDT":  decimal.NewFromFloat(210),
		"USDT-SOL":  decimal.NewFromFloat(0.00476),
	}
}

// NewStaticSource builds a static source over the given table. A nil
// table means the default one. Latency <= 0 disables the delay.
func NewStaticSource(rates map[string]decimal.Decimal, latency time.Duration) *StaticSource {
	if rates == nil {
		rates = DefaultRateTable()
	}
	return &StaticSource{rates: rates, latency: latency}
}

// GetRate returns the table rate for the pair after the configured
// latency, with an impact drawn uniformly from [0.05%, 2.05%).
func (s *StaticSource) GetRate(ctx context.Context, pair domain.Pair) (Rate, error) {
	if s.latency > 0 {
		select {
		case <-ctx.Done():
			return Rate{}, ctx.Err()
		case <-time.After(s.latency):
		}
	}

	price, ok := s.rates[pair.String()]
	if !ok {
		return Rate{}, errors.Wrapf(domain.ErrRateUnavailable, "pair %s", pair.String())
	}

	impact := decimal.NewFromFloat(0.05 + rand.Float64()*2)
	return Rate{Price: price, PriceImpact: impact}, nil
}
