package domain

import "time"

// SwapRecord captures one executed swap. String fields avoid precision
// issues when rendered in UI layers.
type SwapRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"ts"`
	Pair         string    `json:"pair"`
	InputAmount  string    `json:"input_amount"`
	OutputAmount string    `json:"output_amount"`
	Rate         string    `json:"rate"`
	PriceImpact  string    `json:"price_impact,omitempty"`
	MinReceived  string    `json:"min_received,omitempty"`
}

// SwapRecordEntry bundles a record with the log index it originated from.
type SwapRecordEntry struct {
	Index  uint64
	Record SwapRecord
}
