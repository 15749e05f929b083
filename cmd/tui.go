package cmd

import (
	"context"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitinch/bitinch/internal/domain"
	"github.com/bitinch/bitinch/internal/services/market"
	"github.com/bitinch/bitinch/internal/setup"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive swap session",
	Run:   runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) {
	a, err := newApp(true)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	session, err := a.newSession("")
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// best-effort market display seed; the session works without it
	if a.conf.RateSource == "binance" {
		stats := market.NewBinanceStats(binance.NewClient("", ""))
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		snap := session.Snapshot()
		pair := domain.Pair{From: snap.FromAsset, To: snap.ToAsset}
		if s, err := stats.Get24h(ctx, pair); err == nil {
			session.SetMarketInfo(s.LastPrice, s.PriceChange24h)
		} else {
			a.logger.Debug("market seed unavailable", zap.Error(err))
		}
		cancel()
	}

	if err := setup.RunTUI(cmd.Context(), session, a.registry); err != nil {
		printError(err)
		os.Exit(1)
	}
}
