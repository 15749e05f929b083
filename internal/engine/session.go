// Package engine owns swap form state and derives quotes from it. One
// Session per active swap flow; all mutation goes through its actions.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitinch/bitinch/internal/domain"
	"github.com/bitinch/bitinch/internal/services/ratesource"
	"github.com/bitinch/bitinch/internal/services/settlement"
)

const (
	defaultQuoteTimeout = 5 * time.Second
	exchangeClearDelay  = 300 * time.Millisecond
	outputDisplayDigits = 6
)

var defaultImpactWarnThreshold = decimal.NewFromInt(5)

// History receives executed swap records. Satisfied by swaplog.WALStore.
type History interface {
	Append(record domain.SwapRecord) error
}

// Session is the swap quote engine: it owns one FormState, mutates it
// through actions, and keeps derived quote data consistent with the
// latest input. Quote requests run asynchronously; a generation counter
// guarantees that a stale completion never overwrites state derived
// from newer input.
type Session struct {
	mu     sync.Mutex
	logger *zap.Logger

	rates   ratesource.Source
	settler settlement.Settler
	history History

	state    FormState
	quoteGen uint64

	exchangeTimer *time.Timer

	defaultFrom domain.Asset
	defaultTo   domain.Asset

	quoteTimeout    time.Duration
	impactThreshold decimal.Decimal
	exchangeDelay   time.Duration

	onChange func(FormState)
}

// Option configures a Session.
type Option func(*Session)

// WithQuoteTimeout bounds each rate request so a hung source can never
// leave the loading flag set.
func WithQuoteTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.quoteTimeout = d
		}
	}
}

// WithHistory appends executed swaps to the given log.
func WithHistory(h History) Option {
	return func(s *Session) {
		s.history = h
	}
}

// WithOnChange registers a callback invoked with a state snapshot after
// every state transition, including asynchronous quote completions.
func WithOnChange(fn func(FormState)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithImpactWarnThreshold sets the price-impact percentage above which
// the advisory warning is raised.
func WithImpactWarnThreshold(threshold decimal.Decimal) Option {
	return func(s *Session) {
		if threshold.GreaterThan(decimal.Zero) {
			s.impactThreshold = threshold
		}
	}
}

// WithExchangeClearDelay overrides the direction-toggle animation delay.
func WithExchangeClearDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.exchangeDelay = d
		}
	}
}

// NewSession creates a session over the default asset pair.
func NewSession(logger *zap.Logger, rates ratesource.Source, settler settlement.Settler, pair domain.Pair, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rates == nil {
		return nil, errors.New("rate source is required")
	}
	if pair.From.IsZero() || pair.To.IsZero() {
		return nil, errors.New("default pair is required")
	}
	if pair.From.Symbol == pair.To.Symbol {
		return nil, errors.New("default pair sides must differ")
	}

	s := &Session{
		logger:          logger,
		rates:           rates,
		settler:         settler,
		state:           defaultState(pair.From, pair.To),
		defaultFrom:     pair.From,
		defaultTo:       pair.To,
		quoteTimeout:    defaultQuoteTimeout,
		impactThreshold: defaultImpactWarnThreshold,
		exchangeDelay:   exchangeClearDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Snapshot returns a copy of the current form state.
func (s *Session) Snapshot() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInputAmount stores the raw text verbatim and triggers quote
// recomputation against the current pair.
func (s *Session) SetInputAmount(text string) {
	s.mu.Lock()
	s.state.InputAmount = text
	s.recomputeQuoteLocked()
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// SetOutputAmount stores the raw text verbatim. Manual override path:
// it does not trigger recomputation.
func (s *Session) SetOutputAmount(text string) {
	s.mu.Lock()
	s.state.OutputAmount = text
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// SetFromAsset replaces the from side. Selecting the asset already on
// the to side exchanges the two sides instead. A non-empty input
// triggers recomputation against the new pair.
func (s *Session) SetFromAsset(asset domain.Asset) error {
	if asset.IsZero() {
		return errors.Wrap(domain.ErrInvalidParameters, "empty asset")
	}

	s.mu.Lock()
	if asset.Symbol == s.state.ToAsset.Symbol {
		s.state.ToAsset = s.state.FromAsset
	}
	s.state.FromAsset = asset
	s.invalidateQuoteLocked()
	if strings.TrimSpace(s.state.InputAmount) != "" {
		s.recomputeQuoteLocked()
	}
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// SetToAsset replaces the to side, mirroring SetFromAsset.
func (s *Session) SetToAsset(asset domain.Asset) error {
	if asset.IsZero() {
		return errors.Wrap(domain.ErrInvalidParameters, "empty asset")
	}

	s.mu.Lock()
	if asset.Symbol == s.state.FromAsset.Symbol {
		s.state.FromAsset = s.state.ToAsset
	}
	s.state.ToAsset = asset
	s.invalidateQuoteLocked()
	if strings.TrimSpace(s.state.InputAmount) != "" {
		s.recomputeQuoteLocked()
	}
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// SetSlippageTolerance updates the slippage setting. An existing quote
// no longer matches its tuple and is recomputed when input is present.
func (s *Session) SetSlippageTolerance(percent decimal.Decimal) error {
	if percent.LessThan(decimal.Zero) || percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return errors.Wrap(domain.ErrInvalidParameters, "slippage must be in [0, 100)")
	}

	s.mu.Lock()
	s.state.SlippageTolerance = percent
	s.invalidateQuoteLocked()
	if strings.TrimSpace(s.state.InputAmount) != "" {
		s.recomputeQuoteLocked()
	}
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// SetDeadlineMinutes updates the settlement deadline setting.
func (s *Session) SetDeadlineMinutes(minutes int) error {
	if minutes <= 0 {
		return errors.Wrap(domain.ErrInvalidParameters, "deadline must be positive")
	}
	s.mu.Lock()
	s.state.DeadlineMinutes = minutes
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// SetMarketInfo seeds the informational price display fields.
func (s *Session) SetMarketInfo(price, change24h decimal.Decimal) {
	s.mu.Lock()
	s.state.CurrentPrice = price
	s.state.PriceChange24h = change24h
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// SwapAssets atomically exchanges the two sides and their amounts and
// flips the direction flag. It invalidates the current quote but does
// not recompute one. The transient exchanging flag self-clears after a
// fixed delay; re-entry restarts that delay.
func (s *Session) SwapAssets() {
	s.mu.Lock()
	s.state.FromAsset, s.state.ToAsset = s.state.ToAsset, s.state.FromAsset
	s.state.InputAmount, s.state.OutputAmount = s.state.OutputAmount, s.state.InputAmount
	if s.state.Direction == DirectionNormal {
		s.state.Direction = DirectionReversed
	} else {
		s.state.Direction = DirectionNormal
	}
	s.invalidateQuoteLocked()
	s.state.IsExchanging = true

	if s.exchangeTimer != nil {
		s.exchangeTimer.Stop()
	}
	s.exchangeTimer = time.AfterFunc(s.exchangeDelay, func() {
		s.mu.Lock()
		s.state.IsExchanging = false
		st := s.state
		s.mu.Unlock()
		s.notify(st)
	})

	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// ExecuteSwap settles the current quote. It requires a quote and both
// amounts; otherwise it fails with ErrInvalidParameters surfaced in the
// form error. On success the form is reset; on failure the form is
// preserved for retry. The pending flag clears on every outcome.
func (s *Session) ExecuteSwap(ctx context.Context) (domain.SwapRecord, error) {
	s.mu.Lock()
	if s.state.Quote == nil ||
		strings.TrimSpace(s.state.InputAmount) == "" ||
		strings.TrimSpace(s.state.OutputAmount) == "" {
		s.state.Error = "enter an amount and wait for a quote before swapping"
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		return domain.SwapRecord{}, errors.Wrap(domain.ErrInvalidParameters, "no quote to execute")
	}
	if s.settler == nil {
		s.state.Error = "settlement is not configured"
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		return domain.SwapRecord{}, errors.Wrap(domain.ErrInvalidParameters, "no settler configured")
	}

	quote := s.state.Quote
	deadline := time.Duration(s.state.DeadlineMinutes) * time.Minute
	s.state.IsSwapPending = true
	s.state.Error = ""
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	settleCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	record, err := s.settler.Execute(settleCtx, quote)

	s.mu.Lock()
	s.state.IsSwapPending = false
	if err != nil {
		s.state.Error = settlementErrorMessage(err)
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		s.logger.Warn("swap settlement failed", zap.String("pair", quote.Pair.String()), zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, domain.ErrInsufficientBalance) {
			return domain.SwapRecord{}, err
		}
		return domain.SwapRecord{}, errors.Wrap(domain.ErrSettlementFailed, err.Error())
	}

	s.resetFormLocked()
	st = s.state
	s.mu.Unlock()
	s.notify(st)

	if s.history != nil {
		if err := s.history.Append(record); err != nil {
			s.logger.Warn("failed to record swap history", zap.Error(err))
		}
	}

	s.logger.Info("swap executed",
		zap.String("id", record.ID),
		zap.String("pair", record.Pair),
		zap.String("in", record.InputAmount),
		zap.String("out", record.OutputAmount))
	return record, nil
}

// ResetSwap restores the full default state.
func (s *Session) ResetSwap() {
	s.mu.Lock()
	s.invalidateQuoteLocked()
	if s.exchangeTimer != nil {
		s.exchangeTimer.Stop()
		s.exchangeTimer = nil
	}
	s.state = defaultState(s.defaultFrom, s.defaultTo)
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// ResetForm clears amounts, quote and messages, keeping asset selection
// and settings. Idempotent.
func (s *Session) ResetForm() {
	s.mu.Lock()
	s.resetFormLocked()
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

func (s *Session) resetFormLocked() {
	s.invalidateQuoteLocked()
	s.state.InputAmount = ""
	s.state.OutputAmount = ""
	s.state.Error = ""
	s.state.Warning = ""
	s.state.IsQuoteLoading = false
}

// invalidateQuoteLocked drops the current quote and bumps the request
// generation so any in-flight completion is discarded.
func (s *Session) invalidateQuoteLocked() {
	s.quoteGen++
	s.state.Quote = nil
}

// recomputeQuoteLocked is the quote recomputation protocol entry.
// Empty or non-positive input clears derived state synchronously;
// otherwise an asynchronous rate request is issued for the current
// generation.
func (s *Session) recomputeQuoteLocked() {
	s.quoteGen++

	amount, ok := parsePositiveAmount(s.state.InputAmount)
	if !ok {
		s.state.Quote = nil
		s.state.OutputAmount = ""
		s.state.Error = ""
		s.state.Warning = ""
		s.state.IsQuoteLoading = false
		return
	}

	gen := s.quoteGen
	pair := domain.Pair{From: s.state.FromAsset, To: s.state.ToAsset}
	slippage := s.state.SlippageTolerance
	s.state.Quote = nil
	s.state.IsQuoteLoading = true
	s.state.Error = ""

	go s.requestQuote(gen, pair, amount, slippage)
}

func (s *Session) requestQuote(gen uint64, pair domain.Pair, amount, slippage decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), s.quoteTimeout)
	defer cancel()

	rate, err := s.rates.GetRate(ctx, pair)

	s.mu.Lock()
	if gen != s.quoteGen {
		// a newer input superseded this request
		s.mu.Unlock()
		return
	}

	s.state.IsQuoteLoading = false
	if err != nil {
		s.state.Quote = nil
		s.state.OutputAmount = ""
		s.state.Warning = ""
		s.state.Error = rateErrorMessage(err, pair)
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		s.logger.Warn("quote request failed", zap.String("pair", pair.String()), zap.Error(err))
		return
	}

	quote, err := domain.NewQuote(pair, amount, rate.Price, rate.PriceImpact, slippage)
	if err != nil {
		s.state.Quote = nil
		s.state.OutputAmount = ""
		s.state.Warning = ""
		s.state.Error = fmt.Sprintf("quote computation failed: %v", err)
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		return
	}

	s.state.Quote = quote
	s.state.OutputAmount = quote.OutputAmount.StringFixed(outputDisplayDigits)
	if quote.PriceImpact.GreaterThan(s.impactThreshold) {
		s.state.Warning = fmt.Sprintf("high price impact: %s%%", quote.PriceImpact.StringFixed(2))
	} else {
		s.state.Warning = ""
	}
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	s.logger.Debug("quote updated",
		zap.String("pair", pair.String()),
		zap.String("in", amount.String()),
		zap.String("out", quote.OutputAmount.String()),
		zap.String("rate", quote.Rate.String()))
}

func (s *Session) notify(st FormState) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

func parsePositiveAmount(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(text)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func rateErrorMessage(err error, pair domain.Pair) string {
	switch {
	case errors.Is(err, domain.ErrRateUnavailable):
		return fmt.Sprintf("no exchange rate available for %s", pair.String())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("rate request for %s timed out", pair.String())
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("rate request for %s was cancelled", pair.String())
	default:
		return fmt.Sprintf("failed to fetch rate for %s: %v", pair.String(), err)
	}
}

func settlementErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return fmt.Sprintf("swap failed: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		return "swap failed: settlement deadline exceeded"
	case errors.Is(err, context.Canceled):
		return "swap cancelled"
	default:
		return fmt.Sprintf("swap failed: %v", err)
	}
}
