package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bitinch/bitinch/pkg/parser"
)

var noConfirm bool

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <from> to <to>",
	Short: "Quote and execute a swap",
	Long: `Quote a swap phrase, confirm, and execute it against the
configured settlement backend.

Examples:
  bitinch swap 1 BTC to ETH
  bitinch swap 0.5 ETH to USDT --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	phrase, err := parser.ParseSwapPhrase(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	a, err := newApp(true)
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

	if !noConfirm && !confirmSwap() {
		fmt.Println("\nSwap cancelled.")
		os.Exit(0)
	}

	record, err := session.ExecuteSwap(cmd.Context())
	if err != nil {
		printError(fmt.Errorf("%s", session.Snapshot().Error))
		os.Exit(1)
	}

	color.Green("\n✓ Swap executed!")
	fmt.Printf("  ID:       %s\n", color.CyanString(record.ID))
	fmt.Printf("  Pair:     %s\n", record.Pair)
	fmt.Printf("  Paid:     %s %s\n", record.InputAmount, st.FromAsset.Symbol)
	fmt.Printf("  Received: %s %s\n\n", record.OutputAmount, st.ToAsset.Symbol)
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
