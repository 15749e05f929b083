package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List executed swaps",
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max swaps to show, newest last")
}

func runHistory(cmd *cobra.Command, args []string) {
	a, err := newApp(true)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	entries, err := a.history.RecordsAfter(0)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("\nNo swaps recorded yet.")
		return
	}
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	fmt.Println()
	for _, entry := range entries {
		r := entry.Record
		fmt.Printf("  %s  %-12s %s → %s  (rate %s)\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			color.YellowString(r.Pair),
			r.InputAmount, r.OutputAmount, r.Rate)
	}
	fmt.Println()
}
