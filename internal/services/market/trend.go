package market

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
)

const (
	trendSMAPeriod = 20
	trendRSIPeriod = 14

	rsiOverbought = 70
	rsiOversold   = 30
)

// TrendSummary condenses recent price action for display next to the
// selected pair.
type TrendSummary struct {
	SMA       decimal.Decimal
	RSI       decimal.Decimal
	Direction string // "up", "down" or "flat"
	Note      string // set when RSI is at an extreme
}

// Trend computes a short-horizon trend summary over close prices.
func Trend(closes []decimal.Decimal) (TrendSummary, error) {
	if len(closes) < trendSMAPeriod+1 {
		return TrendSummary{}, fmt.Errorf("not enough data points: need %d, got %d", trendSMAPeriod+1, len(closes))
	}

	values := make([]float64, len(closes))
	for i, c := range closes {
		values[i], _ = c.Float64()
	}

	sma := trend.NewSmaWithPeriod[float64](trendSMAPeriod)
	smaOut := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	if len(smaOut) == 0 {
		return TrendSummary{}, fmt.Errorf("sma produced no values")
	}

	rsi := momentum.NewRsiWithPeriod[float64](trendRSIPeriod)
	rsiOut := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(values)))
	if len(rsiOut) == 0 {
		return TrendSummary{}, fmt.Errorf("rsi produced no values")
	}

	lastSMA := smaOut[len(smaOut)-1]
	lastRSI := rsiOut[len(rsiOut)-1]
	lastClose := values[len(values)-1]

	summary := TrendSummary{
		SMA: decimal.NewFromFloat(lastSMA),
		RSI: decimal.NewFromFloat(lastRSI),
	}

	switch {
	case lastClose > lastSMA:
		summary.Direction = "up"
	case lastClose < lastSMA:
		summary.Direction = "down"
	default:
		summary.Direction = "flat"
	}

	switch {
	case lastRSI >= rsiOverbought:
		summary.Note = "overbought"
	case lastRSI <= rsiOversold:
		summary.Note = "oversold"
	}

	return summary, nil
}
