package ratesource

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

// BinanceSource fetches real market rates from the Binance public API
// without requiring authentication. The price impact is estimated from
// the best bid/ask spread.
type BinanceSource struct {
	client *binance.Client
}

// NewBinanceSource creates a Binance-backed rate source.
func NewBinanceSource(client *binance.Client) *BinanceSource {
	return &BinanceSource{client: client}
}

// GetRate fetches the last price for the pair's concatenated symbol.
// Pairs Binance does not list map to domain.ErrRateUnavailable.
func (s *BinanceSource) GetRate(ctx context.Context, pair domain.Pair) (Rate, error) {
	prices, err := s.client.NewListPricesService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return Rate{}, errors.Wrapf(err, "binance prices for %s", pair.String())
	}
	if len(prices) == 0 {
		return Rate{}, errors.Wrapf(domain.ErrRateUnavailable, "binance lists no %s", pair.String())
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return Rate{}, errors.Wrap(err, "parse binance price")
	}

	impact, err := s.spreadImpact(ctx, pair)
	if err != nil {
		// impact is advisory; a failed book lookup should not kill the quote
		impact = decimal.Zero
	}

	return Rate{Price: price, PriceImpact: impact}, nil
}

// spreadImpact approximates impact as the relative bid/ask spread in
// percent.
func (s *BinanceSource) spreadImpact(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	books, err := s.client.NewListBookTickersService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(books) == 0 {
		return decimal.Zero, fmt.Errorf("empty book for %s", pair.String())
	}

	bid, err := decimal.NewFromString(books[0].BidPrice)
	if err != nil {
		return decimal.Zero, err
	}
	ask, err := decimal.NewFromString(books[0].AskPrice)
	if err != nil {
		return decimal.Zero, err
	}

	mid := bid.Add(ask).Div(decimal.NewFromInt(2))
	if mid.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("non-positive mid for %s", pair.String())
	}
	return ask.Sub(bid).Div(mid).Mul(decimal.NewFromInt(100)), nil
}
