package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bitinch/bitinch/internal/services/market"
)

var marketInterval string

var marketCmd = &cobra.Command{
	Use:   "market <pair>",
	Short: "Show 24h stats and a short trend summary for a pair",
	Long: `Show Binance 24h market stats plus an SMA/RSI trend summary.

Examples:
  bitinch market BTC_USDT
  bitinch market ETH_USDT --interval 4h`,
	Args: cobra.ExactArgs(1),
	Run:  runMarket,
}

func init() {
	rootCmd.AddCommand(marketCmd)

	marketCmd.Flags().StringVar(&marketInterval, "interval", "1h", "kline interval for the trend summary")
}

func runMarket(cmd *cobra.Command, args []string) {
	a, err := newApp(false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	pair, err := a.registry.PairFromString(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	stats := market.NewBinanceStats(binance.NewClient("", ""))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching market data..."
	s.Start()

	day, err := stats.Get24h(cmd.Context(), pair)
	if err != nil {
		s.Stop()
		printError(err)
		os.Exit(1)
	}

	closes, err := stats.RecentCloses(cmd.Context(), pair, marketInterval, 60)
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Printf("\n  %s\n", color.YellowString(pair.String()))
	fmt.Printf("  Last price:  %s\n", day.LastPrice.String())
	changeStr := day.PriceChange24h.StringFixed(2) + "%"
	if day.PriceChange24h.IsNegative() {
		fmt.Printf("  24h change:  %s\n", color.RedString(changeStr))
	} else {
		fmt.Printf("  24h change:  %s\n", color.GreenString("+"+changeStr))
	}

	summary, err := market.Trend(closes)
	if err != nil {
		fmt.Printf("  Trend:       unavailable (%v)\n\n", err)
		return
	}

	fmt.Printf("  Trend (%s):  %s (SMA %s, RSI %s)\n", marketInterval,
		summary.Direction, summary.SMA.StringFixed(2), summary.RSI.StringFixed(1))
	if summary.Note != "" {
		color.Yellow("  Note:        %s\n", summary.Note)
	}
	fmt.Println()
}
