package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List swappable assets",
	Run:   runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(cmd *cobra.Command, args []string) {
	a, err := newApp(false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	fmt.Println()
	fmt.Printf("  %-8s %-20s %s\n", "SYMBOL", "NAME", "DECIMALS")
	fmt.Printf("  %-8s %-20s %s\n", "------", "----", "--------")
	for _, asset := range a.registry.All() {
		fmt.Printf("  %-8s %-20s %d\n", color.YellowString(asset.Symbol), asset.Name, asset.Decimals)
	}
	fmt.Println()
}
