package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), conf)
	require.Equal(t, "static", conf.RateSource)
	require.Equal(t, "BTC_ETH", conf.DefaultPair)
	require.True(t, conf.SlippageTolerance.Equal(decimal.NewFromFloat(0.5)))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
rate_source: binance
default_pair: ETH_USDT
quote_timeout: 2s
slippage_tolerance: "1.5"
deadline_minutes: 30
wallet_seeds:
  BTC: "2"
  SOL: "500"
dashboard_addr: ":9090"
dashboard_domains:
  - swaps.example.com
`)

	conf, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "binance", conf.RateSource)
	require.Equal(t, "ETH_USDT", conf.DefaultPair)
	require.Equal(t, 2*time.Second, conf.QuoteTimeout)
	require.True(t, conf.SlippageTolerance.Equal(decimal.NewFromFloat(1.5)))
	require.Equal(t, 30, conf.DeadlineMinutes)
	require.True(t, conf.WalletSeeds["SOL"].Equal(decimal.NewFromInt(500)))
	require.Equal(t, ":9090", conf.DashboardAddr)
	require.Equal(t, []string{"swaps.example.com"}, conf.DashboardDomains)

	// untouched fields keep defaults
	require.Equal(t, "default", conf.WalletScope)
	require.Equal(t, "./wal/swaps", conf.SwapWALDir)
}

func TestLoadRejectsUnknownRateSource(t *testing.T) {
	path := writeConfig(t, "rate_source: kraken\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate_source")
}

func TestLoadRejectsBadSlippage(t *testing.T) {
	for _, slippage := range []string{`"abc"`, `"-1"`, `"100"`} {
		path := writeConfig(t, "slippage_tolerance: "+slippage+"\n")
		_, err := Load(path)
		require.Error(t, err, "slippage %s", slippage)
	}
}

func TestLoadRejectsBadQuoteTimeout(t *testing.T) {
	for _, timeout := range []string{"soon", "-2s", "0s"} {
		path := writeConfig(t, "quote_timeout: "+timeout+"\n")
		_, err := Load(path)
		require.Error(t, err, "timeout %s", timeout)
	}
}

func TestLoadRejectsBadSeeds(t *testing.T) {
	path := writeConfig(t, `
wallet_seeds:
  BTC: "not a number"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
