package engine

import (
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/domain"
)

// Direction tracks which asset is currently displayed as "from" after
// direction toggles. Purely presentational.
type Direction int

const (
	DirectionNormal Direction = iota
	DirectionReversed
)

func (d Direction) String() string {
	if d == DirectionReversed {
		return "reversed"
	}
	return "normal"
}

// Defaults for user-configurable settings.
var (
	DefaultSlippage = decimal.NewFromFloat(0.5)
)

const DefaultDeadlineMinutes = 20

// FormState is the mutable aggregate owned by a Session. Amount fields
// are strings to preserve exact user typing and allow empty or partial
// input.
type FormState struct {
	FromAsset domain.Asset
	ToAsset   domain.Asset

	InputAmount  string
	OutputAmount string

	Quote *domain.Quote

	IsQuoteLoading bool
	IsSwapPending  bool
	IsExchanging   bool

	Direction Direction

	Error   string
	Warning string

	SlippageTolerance decimal.Decimal
	DeadlineMinutes   int

	// Informational market display seeds, not used in quote math.
	CurrentPrice   decimal.Decimal
	PriceChange24h decimal.Decimal
}

func defaultState(from, to domain.Asset) FormState {
	return FormState{
		FromAsset:         from,
		ToAsset:           to,
		SlippageTolerance: DefaultSlippage,
		DeadlineMinutes:   DefaultDeadlineMinutes,
	}
}
