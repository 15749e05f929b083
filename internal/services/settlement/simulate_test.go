package settlement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitinch/bitinch/internal/domain"
)

func testQuote(t *testing.T, input, rate float64) *domain.Quote {
	t.Helper()
	pair := domain.Pair{
		From: domain.Asset{Symbol: "BTC"},
		To:   domain.Asset{Symbol: "ETH"},
	}
	quote, err := domain.NewQuote(pair,
		decimal.NewFromFloat(input),
		decimal.NewFromFloat(rate),
		decimal.NewFromFloat(0.3),
		decimal.NewFromFloat(0.5))
	require.NoError(t, err)
	return quote
}

func TestExecuteDebitsAndCredits(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	settler, err := NewSimulateSettler(zap.NewNop(), map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(10),
	}, "test", 0)
	require.NoError(t, err)

	record, err := settler.Execute(context.Background(), testQuote(t, 1, 15))
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, "BTC-ETH", record.Pair)
	require.Equal(t, "1", record.InputAmount)
	require.Equal(t, "15", record.OutputAmount)

	require.True(t, settler.Balance("BTC").Equal(decimal.NewFromInt(9)))
	require.True(t, settler.Balance("ETH").Equal(decimal.NewFromInt(15)))
}

func TestExecuteInsufficientBalance(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	settler, err := NewSimulateSettler(zap.NewNop(), map[string]decimal.Decimal{
		"BTC": decimal.NewFromFloat(0.5),
	}, "test", 0)
	require.NoError(t, err)

	_, err = settler.Execute(context.Background(), testQuote(t, 1, 15))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// nothing moved
	require.True(t, settler.Balance("BTC").Equal(decimal.NewFromFloat(0.5)))
	require.True(t, settler.Balance("ETH").IsZero())
}

func TestExecuteNilQuote(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	settler, err := NewSimulateSettler(zap.NewNop(), nil, "test", 0)
	require.NoError(t, err)

	_, err = settler.Execute(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestExecuteHonorsContext(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	settler, err := NewSimulateSettler(zap.NewNop(), map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(10),
	}, "test", defaultSettleLatency)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = settler.Execute(ctx, testQuote(t, 1, 15))
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, settler.Balance("BTC").Equal(decimal.NewFromInt(10)))
}

func TestBalancesSurviveRestart(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	first, err := NewSimulateSettler(zap.NewNop(), map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(10),
	}, "persist", 0)
	require.NoError(t, err)

	_, err = first.Execute(context.Background(), testQuote(t, 1, 15))
	require.NoError(t, err)

	// persisted balances win over seeds on the next start
	second, err := NewSimulateSettler(zap.NewNop(), map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(10),
	}, "persist", 0)
	require.NoError(t, err)

	require.True(t, second.Balance("BTC").Equal(decimal.NewFromInt(9)))
	require.True(t, second.Balance("ETH").Equal(decimal.NewFromInt(15)))
}
