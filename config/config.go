package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config carries all runtime settings of the swap tool.
type Config struct {
	RateSource          string
	DefaultPair         string
	QuoteTimeout        time.Duration
	SlippageTolerance   decimal.Decimal
	DeadlineMinutes     int
	ImpactWarnThreshold decimal.Decimal
	AssetsFile          string
	WalletScope         string
	WalletSeeds         map[string]decimal.Decimal
	SwapWALDir          string
	DashboardAddr       string
	DashboardDomains    []string
	CertCacheDir        string
}

type configTmp struct {
	RateSource             string            `yaml:"rate_source"`
	DefaultPair            string            `yaml:"default_pair"`
	QuoteTimeoutStr        string            `yaml:"quote_timeout,omitempty"`
	SlippageToleranceStr   string            `yaml:"slippage_tolerance,omitempty"`
	DeadlineMinutes        int               `yaml:"deadline_minutes,omitempty"`
	ImpactWarnThresholdStr string            `yaml:"impact_warn_threshold,omitempty"`
	AssetsFile             string            `yaml:"assets_file,omitempty"`
	WalletScope            string            `yaml:"wallet_scope,omitempty"`
	WalletSeeds            map[string]string `yaml:"wallet_seeds,omitempty"`
	SwapWALDir             string            `yaml:"swap_wal_dir,omitempty"`
	DashboardAddr          string            `yaml:"dashboard_addr,omitempty"`
	DashboardDomains       []string          `yaml:"dashboard_domains,omitempty"`
	CertCacheDir           string            `yaml:"cert_cache_dir,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		RateSource:          "static",
		DefaultPair:         "BTC_ETH",
		QuoteTimeout:        5 * time.Second,
		SlippageTolerance:   decimal.NewFromFloat(0.5),
		DeadlineMinutes:     20,
		ImpactWarnThreshold: decimal.NewFromInt(5),
		WalletScope:         "default",
		WalletSeeds: map[string]decimal.Decimal{
			"BTC":  decimal.NewFromInt(10),
			"ETH":  decimal.NewFromInt(100),
			"USDT": decimal.NewFromInt(100000),
		},
		SwapWALDir:    "./wal/swaps",
		DashboardAddr: ":8080",
	}
}

// Load reads the YAML config at path, filling omitted fields from
// defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	var tmp configTmp
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	if tmp.RateSource != "" {
		switch tmp.RateSource {
		case "static", "binance", "bybit":
			conf.RateSource = tmp.RateSource
		default:
			return Config{}, fmt.Errorf("incorrect 'rate_source' param in yaml config: %s (expected static, binance or bybit)", tmp.RateSource)
		}
	}
	if tmp.DefaultPair != "" {
		conf.DefaultPair = tmp.DefaultPair
	}
	if tmp.QuoteTimeoutStr != "" {
		timeout, err := time.ParseDuration(tmp.QuoteTimeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'quote_timeout' param in yaml config (must be a duration like 5s), error: %w", err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("incorrect 'quote_timeout' param in yaml config: %s (must be positive)", timeout)
		}
		conf.QuoteTimeout = timeout
	}
	if tmp.SlippageToleranceStr != "" {
		slippage, err := decimal.NewFromString(tmp.SlippageToleranceStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'slippage_tolerance' param in yaml config (must be a decimal), error: %w", err)
		}
		if slippage.LessThan(decimal.Zero) || slippage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return Config{}, fmt.Errorf("incorrect 'slippage_tolerance' param in yaml config: %s (must be in [0, 100))", slippage.String())
		}
		conf.SlippageTolerance = slippage
	}
	if tmp.DeadlineMinutes != 0 {
		if tmp.DeadlineMinutes < 0 {
			return Config{}, fmt.Errorf("incorrect 'deadline_minutes' param in yaml config: %d", tmp.DeadlineMinutes)
		}
		conf.DeadlineMinutes = tmp.DeadlineMinutes
	}
	if tmp.ImpactWarnThresholdStr != "" {
		threshold, err := decimal.NewFromString(tmp.ImpactWarnThresholdStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'impact_warn_threshold' param in yaml config (must be a decimal), error: %w", err)
		}
		conf.ImpactWarnThreshold = threshold
	}
	if tmp.AssetsFile != "" {
		conf.AssetsFile = tmp.AssetsFile
	}
	if tmp.WalletScope != "" {
		conf.WalletScope = tmp.WalletScope
	}
	if len(tmp.WalletSeeds) > 0 {
		seeds := make(map[string]decimal.Decimal, len(tmp.WalletSeeds))
		for symbol, raw := range tmp.WalletSeeds {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return Config{}, fmt.Errorf("incorrect 'wallet_seeds' amount for %s in yaml config, error: %w", symbol, err)
			}
			seeds[symbol] = amount
		}
		conf.WalletSeeds = seeds
	}
	if tmp.SwapWALDir != "" {
		conf.SwapWALDir = tmp.SwapWALDir
	}
	if tmp.DashboardAddr != "" {
		conf.DashboardAddr = tmp.DashboardAddr
	}
	if len(tmp.DashboardDomains) > 0 {
		conf.DashboardDomains = tmp.DashboardDomains
	}
	if tmp.CertCacheDir != "" {
		conf.CertCacheDir = tmp.CertCacheDir
	}

	return conf, nil
}
