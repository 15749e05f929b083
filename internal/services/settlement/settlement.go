// Package settlement executes confirmed quotes against a settlement
// endpoint.
package settlement

import (
	"context"

	"github.com/bitinch/bitinch/internal/domain"
)

// Settler attempts execution of a confirmed quote, returning the
// resulting swap record or a failure reason. Failures are recoverable;
// the caller keeps its form state for retry.
type Settler interface {
	Execute(ctx context.Context, quote *domain.Quote) (domain.SwapRecord, error)
}
