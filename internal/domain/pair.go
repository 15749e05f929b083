package domain

import "fmt"

// Pair is an ordered from→to asset pair.
type Pair struct {
	From Asset
	To   Asset
}

// String renders the pair in "BTC-ETH" form, the key format used by
// rate tables and logs.
func (p Pair) String() string {
	return fmt.Sprintf("%s-%s", p.From.Symbol, p.To.Symbol)
}

// Symbol renders the pair in concatenated exchange form ("BTCETH").
func (p Pair) Symbol() string {
	return p.From.Symbol + p.To.Symbol
}

// Reversed returns the pair with sides exchanged.
func (p Pair) Reversed() Pair {
	return Pair{From: p.To, To: p.From}
}
