package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitinch/bitinch/internal/domain"
	"github.com/bitinch/bitinch/internal/storage/walletstate"
)

const defaultSettleLatency = 1500 * time.Millisecond

// SimulateSettler settles swaps against an in-memory wallet of
// per-symbol balances, persisted between runs.
type SimulateSettler struct {
	mu      sync.Mutex
	logger  *zap.Logger
	wallet  map[string]decimal.Decimal
	store   *walletstate.Store
	latency time.Duration
}

// NewSimulateSettler creates a simulated settler seeded with the given
// balances. Previously persisted balances take precedence over seeds.
func NewSimulateSettler(logger *zap.Logger, seeds map[string]decimal.Decimal, scope string, latency time.Duration) (*SimulateSettler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if latency < 0 {
		latency = defaultSettleLatency
	}

	wallet := make(map[string]decimal.Decimal, len(seeds))
	for symbol, amount := range seeds {
		wallet[symbol] = amount
	}

	store, err := walletstate.NewStore(scope)
	if err != nil {
		return nil, errors.Wrap(err, "init wallet state store")
	}

	s := &SimulateSettler{
		logger:  logger,
		wallet:  wallet,
		store:   store,
		latency: latency,
	}
	if err := s.restore(); err != nil {
		logger.Warn("failed to restore wallet state", zap.Error(err))
	}

	logger.Info("simulated settlement ready",
		zap.Int("assets", len(s.wallet)),
		zap.Duration("latency", latency))
	return s, nil
}

// Execute debits the quote's input and credits its output after the
// configured latency. The wallet is the only failure source besides
// cancellation.
func (s *SimulateSettler) Execute(ctx context.Context, quote *domain.Quote) (domain.SwapRecord, error) {
	if quote == nil {
		return domain.SwapRecord{}, errors.Wrap(domain.ErrInvalidParameters, "nil quote")
	}

	if s.latency > 0 {
		select {
		case <-ctx.Done():
			return domain.SwapRecord{}, ctx.Err()
		case <-time.After(s.latency):
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := quote.Pair.From.Symbol
	to := quote.Pair.To.Symbol

	balance := s.wallet[from]
	if balance.LessThan(quote.InputAmount) {
		return domain.SwapRecord{}, errors.Wrapf(domain.ErrInsufficientBalance,
			"have %s %s, need %s", balance.String(), from, quote.InputAmount.String())
	}

	s.wallet[from] = balance.Sub(quote.InputAmount)
	s.wallet[to] = s.wallet[to].Add(quote.OutputAmount)
	s.persist()

	record := domain.SwapRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Pair:         quote.Pair.String(),
		InputAmount:  quote.InputAmount.String(),
		OutputAmount: quote.OutputAmount.String(),
		Rate:         quote.Rate.String(),
		PriceImpact:  quote.PriceImpact.String(),
		MinReceived:  quote.MinimumReceived.String(),
	}

	s.logger.Info("simulated settlement executed",
		zap.String("id", record.ID),
		zap.String("pair", record.Pair),
		zap.String("in", record.InputAmount),
		zap.String("out", record.OutputAmount))
	return record, nil
}

// Balance returns the wallet balance for a symbol.
func (s *SimulateSettler) Balance(symbol string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet[symbol]
}

func (s *SimulateSettler) persist() {
	if s.store == nil {
		return
	}
	state := &walletstate.State{Balances: make(map[string]string, len(s.wallet))}
	for symbol, amount := range s.wallet {
		state.Balances[symbol] = amount.String()
	}
	if err := s.store.Save(state); err != nil {
		s.logger.Warn("failed to persist wallet state", zap.Error(err))
	}
}

func (s *SimulateSettler) restore() error {
	if s.store == nil {
		return nil
	}
	state, err := s.store.Load()
	if err != nil || state == nil {
		return err
	}
	restored := make(map[string]decimal.Decimal, len(state.Balances))
	for symbol, raw := range state.Balances {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return errors.Wrapf(err, "parse persisted balance for %s", symbol)
		}
		restored[symbol] = amount
	}
	s.wallet = restored
	return nil
}
