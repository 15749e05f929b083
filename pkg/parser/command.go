// Package parser turns "1.5 BTC to ETH" swap phrases into structured
// requests.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// SwapPhrase is a parsed swap command.
type SwapPhrase struct {
	Amount     string
	FromSymbol string
	ToSymbol   string
}

// Pattern: <amount> <from_symbol> TO <to_symbol>
var phrasePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapPhrase parses a swap phrase such as "1 BTC to ETH" or
// "swap 100.25 USDT to SOL".
func ParseSwapPhrase(phrase string) (SwapPhrase, error) {
	normalized := strings.TrimSpace(strings.ToUpper(phrase))
	normalized = strings.TrimPrefix(normalized, "SWAP ")

	matches := phrasePattern.FindStringSubmatch(normalized)
	if matches == nil {
		return SwapPhrase{}, fmt.Errorf("invalid swap phrase, expected '<amount> <from> to <to>' (e.g. '1 BTC to ETH')")
	}

	if matches[2] == matches[3] {
		return SwapPhrase{}, fmt.Errorf("from and to assets must differ, got %s on both sides", matches[2])
	}

	return SwapPhrase{
		Amount:     matches[1],
		FromSymbol: matches[2],
		ToSymbol:   matches[3],
	}, nil
}
