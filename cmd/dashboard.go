package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bitinch/bitinch/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the swap history dashboard",
	Long: `Serve an HTML page with a live SSE stream of executed swaps.

With dashboard_domains configured the server obtains TLS certificates
automatically via ACME; otherwise it serves plain HTTP.`,
	Run: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) {
	a, err := newApp(true)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := dashboard.NewServer(a.conf.DashboardAddr, a.history)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(a.conf.DashboardDomains) > 0 {
			return server.StartWithAutoTLS(ctx, a.conf.DashboardDomains, a.conf.CertCacheDir)
		}
		return server.Start(ctx)
	})

	fmt.Printf("dashboard listening on %s\n", a.conf.DashboardAddr)
	a.logger.Info("dashboard started", zap.String("addr", a.conf.DashboardAddr))

	if err := g.Wait(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
