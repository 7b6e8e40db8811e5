// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-insights/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the category and keyword routes over HTTP",
	Long: `Serve starts the HTTP API:

  GET /top10_categories          top categories for the configured year
  GET /keywords_txt/<paper_id>   keyword report for an arXiv paper
  GET /keywords_im/<paper_id>    word-cloud PNG for an arXiv paper
  GET /health                    liveness

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default localhost:8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg := loadConfig()
	extractor, store, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return server.New(cfg, extractor, store, log).Run(ctx)
}
