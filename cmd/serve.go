package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bryan-buckman/newsdesk/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd exposes the store over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appCfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(store, appLog, server.Options{ImportEncoding: appCfg.Import.Encoding})
		return srv.Start(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	rootCmd.AddCommand(serveCmd)
}
