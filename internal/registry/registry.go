// Package registry holds the static asset reference data the swap
// session selects from. The registry is read-only after construction.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bitinch/bitinch/internal/domain"
)

// Registry maps ticker symbols to assets. Symbols are unique.
type Registry struct {
	assets map[string]domain.Asset
}

var builtin = []domain.Asset{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Icon: "btc.svg", Decimals: 8},
	{ID: "wrapped-bitcoin", Symbol: "WBTC", Name: "Wrapped Bitcoin", Icon: "wbtc.svg", Decimals: 8},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Icon: "eth.svg", Decimals: 18},
	{ID: "tether", Symbol: "USDT", Name: "Tether USD", Icon: "usdt.svg", Decimals: 6},
	{ID: "usd-coin", Symbol: "USDC", Name: "USD Coin", Icon: "usdc.svg", Decimals: 6},
	{ID: "1inch", Symbol: "1INCH", Name: "1inch", Icon: "1inch.svg", Decimals: 18},
	{ID: "solana", Symbol: "SOL", Name: "Solana", Icon: "sol.svg", Decimals: 9},
}

// New returns a registry with the built-in asset set.
func New() *Registry {
	r := &Registry{assets: make(map[string]domain.Asset, len(builtin))}
	for _, a := range builtin {
		r.assets[a.Symbol] = a
	}
	return r
}

// NewFromFile returns the built-in registry extended with assets from a
// YAML file. File entries override built-ins with the same symbol.
func NewFromFile(path string) (*Registry, error) {
	r := New()

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read assets file")
	}

	var extra []domain.Asset
	if err := yaml.Unmarshal(payload, &extra); err != nil {
		return nil, errors.Wrap(err, "parse assets file")
	}

	for _, a := range extra {
		if a.Symbol == "" {
			return nil, errors.New("asset entry without symbol in assets file")
		}
		if a.Decimals < 0 {
			return nil, fmt.Errorf("asset %s has negative decimals", a.Symbol)
		}
		r.assets[strings.ToUpper(a.Symbol)] = a
	}
	return r, nil
}

// Get looks an asset up by its ticker symbol (case-insensitive).
func (r *Registry) Get(symbol string) (domain.Asset, bool) {
	a, ok := r.assets[strings.ToUpper(symbol)]
	return a, ok
}

// All returns every registered asset sorted by symbol.
func (r *Registry) All() []domain.Asset {
	out := make([]domain.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Pair resolves two symbols into an ordered pair.
func (r *Registry) Pair(from, to string) (domain.Pair, error) {
	f, ok := r.Get(from)
	if !ok {
		return domain.Pair{}, fmt.Errorf("unknown asset %q", from)
	}
	t, ok := r.Get(to)
	if !ok {
		return domain.Pair{}, fmt.Errorf("unknown asset %q", to)
	}
	return domain.Pair{From: f, To: t}, nil
}

// PairFromString parses "BTC_ETH" into a pair of registered assets.
func (r *Registry) PairFromString(s string) (domain.Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return domain.Pair{}, fmt.Errorf("invalid pair %q, expected FROM_TO", s)
	}
	return r.Pair(parts[0], parts[1])
}
