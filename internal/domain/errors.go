package domain

import "github.com/pkg/errors"

// Error taxonomy for one swap session. All of these are recoverable:
// they surface through the form's error field and leave the session
// usable for correction or retry.
var (
	// ErrInvalidParameters is returned when a swap is attempted without
	// a valid quote or amounts.
	ErrInvalidParameters = errors.New("invalid swap parameters")

	// ErrRateUnavailable is returned when the rate source has no rate
	// for the requested pair.
	ErrRateUnavailable = errors.New("rate unavailable for pair")

	// ErrSettlementFailed is returned when an execution attempt fails.
	ErrSettlementFailed = errors.New("settlement failed")

	// ErrInsufficientBalance is returned by the simulated settlement
	// when the wallet cannot cover the input amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
