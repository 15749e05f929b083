package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitinch/bitinch/config"
	"github.com/bitinch/bitinch/internal/engine"
	"github.com/bitinch/bitinch/internal/registry"
	"github.com/bitinch/bitinch/internal/services/ratesource"
	"github.com/bitinch/bitinch/internal/services/settlement"
	"github.com/bitinch/bitinch/internal/storage/swaplog"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bitinch",
	Short: "A terminal swap tool extending 1inch-style swaps to Bitcoin",
	Long: `bitinch quotes and executes token swaps from the terminal.

Examples:
  bitinch quote 1 BTC to ETH
  bitinch swap 0.5 ETH to USDT --yes
  bitinch assets
  bitinch tui
  bitinch dashboard`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to yaml config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"bitinch.log"}
		logger, err = cfg.Build()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// app bundles everything a command needs to run a swap session.
type app struct {
	conf     config.Config
	logger   *zap.Logger
	registry *registry.Registry
	rates    ratesource.Source
	settler  settlement.Settler
	history  *swaplog.WALStore
}

func newApp(withHistory bool) (*app, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	reg := registry.New()
	if conf.AssetsFile != "" {
		reg, err = registry.NewFromFile(conf.AssetsFile)
		if err != nil {
			return nil, err
		}
	}

	rates, err := buildRateSource(conf)
	if err != nil {
		return nil, err
	}

	settler, err := settlement.NewSimulateSettler(logger, conf.WalletSeeds, conf.WalletScope, -1)
	if err != nil {
		return nil, err
	}

	a := &app{
		conf:     conf,
		logger:   logger,
		registry: reg,
		rates:    rates,
		settler:  settler,
	}

	if withHistory {
		history, err := swaplog.NewWALStore(conf.SwapWALDir)
		if err != nil {
			return nil, err
		}
		a.history = history
	}
	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		_ = a.history.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) newSession(pair string) (*engine.Session, error) {
	if pair == "" {
		pair = a.conf.DefaultPair
	}
	p, err := a.registry.PairFromString(pair)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithQuoteTimeout(a.conf.QuoteTimeout),
		engine.WithImpactWarnThreshold(a.conf.ImpactWarnThreshold),
	}
	if a.history != nil {
		opts = append(opts, engine.WithHistory(a.history))
	}

	session, err := engine.NewSession(a.logger, a.rates, a.settler, p, opts...)
	if err != nil {
		return nil, err
	}
	if err := session.SetSlippageTolerance(a.conf.SlippageTolerance); err != nil {
		return nil, err
	}
	if err := session.SetDeadlineMinutes(a.conf.DeadlineMinutes); err != nil {
		return nil, err
	}
	return session, nil
}

func buildRateSource(conf config.Config) (ratesource.Source, error) {
	var source ratesource.Source
	switch conf.RateSource {
	case "static", "":
		source = ratesource.NewStaticSource(nil, 800*time.Millisecond)
	case "binance":
		client := binance.NewClient(os.Getenv("BINANCE_APIKEY"), os.Getenv("BINANCE_SECRETKEY"))
		source = ratesource.NewBinanceSource(client)
	case "bybit":
		source = ratesource.NewBybitSource(bybit.NewClient())
	default:
		return nil, errors.Errorf("unsupported rate source: %s", conf.RateSource)
	}
	return ratesource.NewRetryingSource(source, nil), nil
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
