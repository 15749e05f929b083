// Package ratesource provides exchange-rate lookups for asset pairs.
// A quote is a pure function of (pair, amount, slippage) at a point in
// time; sources only answer the rate half of that equation.
package ratesource

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

// Rate is one rate-lookup result: the from→to exchange rate and an
// estimated price impact percentage for a typical order size.
type Rate struct {
	Price       decimal.Decimal
	PriceImpact decimal.Decimal
}

// Source answers rate lookups for an ordered pair. Implementations
// return domain.ErrRateUnavailable when the pair is unsupported and
// honor ctx cancellation for transport-level work.
type Source interface {
	GetRate(ctx context.Context, pair domain.Pair) (Rate, error)
}
