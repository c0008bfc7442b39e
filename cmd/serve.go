package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jtrack/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve applications, notes and statistics over a local HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8081)")
}

func runServe(cmd *cobra.Command, args []string) error {
	st := openStores()
	defer st.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := api.Options{
		Applications: st.apps,
		Notes:        st.notes,
		Location:     st.loc,
		Now:          nowFunc,
		Logger:       logger,
	}
	if gh := newGitHubClient(ctx, st.kv); gh.Configured() {
		opts.Stars = gh
	}
	// Unconfigured analytics still answers /visitors with the credentials error.
	opts.Visitors = newAnalyticsClient(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving jtrack API on http://%s\n", addr)
	return api.New(opts).Run(ctx, addr)
}
