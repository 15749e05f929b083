package ratesource

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

// BybitSource fetches spot rates from the Bybit V5 public API.
type BybitSource struct {
	client *bybit.Client
}

// NewBybitSource creates a Bybit-backed rate source.
func NewBybitSource(client *bybit.Client) *BybitSource {
	return &BybitSource{client: client}
}

// GetRate fetches the spot ticker for the pair. The bybit client does
// not take a context, so cancellation is checked before the call.
func (s *BybitSource) GetRate(ctx context.Context, pair domain.Pair) (Rate, error) {
	if err := ctx.Err(); err != nil {
		return Rate{}, err
	}

	symbol := bybit.SymbolV5(pair.Symbol())
	result, err := s.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   &symbol,
	})
	if err != nil {
		return Rate{}, errors.Wrapf(err, "bybit tickers for %s", pair.String())
	}
	if len(result.Result.Spot.List) == 0 {
		return Rate{}, errors.Wrapf(domain.ErrRateUnavailable, "bybit lists no %s", pair.String())
	}

	ticker := result.Result.Spot.List[0]
	price, err := decimal.NewFromString(ticker.LastPrice)
	if err != nil {
		return Rate{}, errors.Wrap(err, "parse bybit price")
	}

	impact := decimal.Zero
	bid, bidErr := decimal.NewFromString(ticker.Bid1Price)
	ask, askErr := decimal.NewFromString(ticker.Ask1Price)
	if bidErr == nil && askErr == nil {
		mid := bid.Add(ask).Div(decimal.NewFromInt(2))
		if mid.GreaterThan(decimal.Zero) {
			impact = ask.Sub(bid).Div(mid).Mul(decimal.NewFromInt(100))
		}
	}

	return Rate{Price: price, PriceImpact: impact}, nil
}
