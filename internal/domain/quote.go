package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Quote is the immutable result of one completed rate lookup. It is
// valid only for the exact (input amount, pair, slippage) tuple it was
// computed for; the session discards it as soon as any of those change.
type Quote struct {
	Pair            Pair
	InputAmount     decimal.Decimal
	OutputAmount    decimal.Decimal
	Rate            decimal.Decimal
	PriceImpact     decimal.Decimal
	MinimumReceived decimal.Decimal
	Slippage        decimal.Decimal
	CreatedAt       time.Time
}

// NewQuote derives a quote from an input amount and a rate lookup
// result. minimumReceived = output × (1 − slippage/100).
func NewQuote(pair Pair, input, rate, impact, slippage decimal.Decimal) (*Quote, error) {
	if input.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quote input amount must be greater than zero")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quote rate must be greater than zero")
	}

	output := input.Mul(rate)
	hundred := decimal.NewFromInt(100)
	minReceived := output.Mul(hundred.Sub(slippage)).Div(hundred)

	return &Quote{
		Pair:            pair,
		InputAmount:     input,
		OutputAmount:    output,
		Rate:            rate,
		PriceImpact:     impact,
		MinimumReceived: minReceived,
		Slippage:        slippage,
		CreatedAt:       time.Now(),
	}, nil
}

// Matches reports whether the quote was computed for the given tuple.
func (q *Quote) Matches(pair Pair, input, slippage decimal.Decimal) bool {
	if q == nil {
		return false
	}
	return q.Pair == pair && q.InputAmount.Equal(input) && q.Slippage.Equal(slippage)
}
