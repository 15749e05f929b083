package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bitinch/bitinch/internal/engine"
	"github.com/bitinch/bitinch/pkg/parser"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <from> to <to>",
	Short: "Fetch a swap quote without executing",
	Long: `Fetch a quote for a swap phrase.

Examples:
  bitinch quote 1 BTC to ETH
  bitinch quote 100 USDT to SOL`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	phrase, err := parser.ParseSwapPhrase(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	a, err := newApp(false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	session, err := a.newSession(phrase.FromSymbol + "_" + phrase.ToSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	st, err := fetchQuote(cmd.Context(), session, phrase.Amount)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	displayQuote(st)
}

// fetchQuote pushes the amount into the session and waits for the
// asynchronous quote to settle, showing a spinner meanwhile.
func fetchQuote(ctx context.Context, session *engine.Session, amount string) (engine.FormState, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching quote..."
	s.Start()

	session.SetInputAmount(amount)
	for {
		st := session.Snapshot()
		if !st.IsQuoteLoading {
			s.Stop()
			if st.Error != "" {
				return st, fmt.Errorf("%s", st.Error)
			}
			if st.Quote == nil {
				return st, fmt.Errorf("no quote produced for amount %q", amount)
			}
			return st, nil
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return st, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func displayQuote(st engine.FormState) {
	q := st.Quote

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  You pay:          %s %s\n", st.InputAmount, color.YellowString(st.FromAsset.Symbol))
	fmt.Printf("  You receive:      ~%s %s\n", st.OutputAmount, color.YellowString(st.ToAsset.Symbol))
	fmt.Printf("  Rate:             %s\n", q.Rate.String())
	fmt.Printf("  Price impact:     %s%%\n", q.PriceImpact.StringFixed(2))
	fmt.Printf("  Minimum received: %s %s (slippage %s%%)\n",
		q.MinimumReceived.StringFixed(6), st.ToAsset.Symbol, q.Slippage.String())

	if st.Warning != "" {
		color.Yellow("\n  %s\n", st.Warning)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
