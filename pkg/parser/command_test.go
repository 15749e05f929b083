package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSwapPhrase(t *testing.T) {
	tests := []struct {
		name    string
		phrase  string
		want    SwapPhrase
		wantErr bool
	}{
		{
			name:   "simple",
			phrase: "1 BTC to ETH",
			want:   SwapPhrase{Amount: "1", FromSymbol: "BTC", ToSymbol: "ETH"},
		},
		{
			name:   "decimal amount",
			phrase: "100.25 usdt to sol",
			want:   SwapPhrase{Amount: "100.25", FromSymbol: "USDT", ToSymbol: "SOL"},
		},
		{
			name:   "swap prefix",
			phrase: "swap 0.5 ETH to 1INCH",
			want:   SwapPhrase{Amount: "0.5", FromSymbol: "ETH", ToSymbol: "1INCH"},
		},
		{
			name:   "surrounding whitespace",
			phrase: "  2 wbtc TO btc  ",
			want:   SwapPhrase{Amount: "2", FromSymbol: "WBTC", ToSymbol: "BTC"},
		},
		{
			name:    "same asset on both sides",
			phrase:  "1 BTC to BTC",
			wantErr: true,
		},
		{
			name:    "missing amount",
			phrase:  "BTC to ETH",
			wantErr: true,
		},
		{
			name:    "missing to keyword",
			phrase:  "1 BTC ETH",
			wantErr: true,
		},
		{
			name:    "empty",
			phrase:  "",
			wantErr: true,
		},
		{
			name:    "negative amount",
			phrase:  "-1 BTC to ETH",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSwapPhrase(tt.phrase)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
