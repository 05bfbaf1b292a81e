// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bzm-mcp/cli/internal/mcp"
)

// serveCmd is the long form of --mcp.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `The serve command runs the tool server, reading JSON-RPC requests from stdin and
writing responses to stdout, one message per line. It is what an MCP client
launches; 'bzm-mcp --mcp' is equivalent. Logs go to stderr.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), current)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServer serves the catalog on stdio until stdin closes or the process is
// signalled. With --metrics-addr the Prometheus registry is exposed alongside.
func runServer(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !a.gw.HasCredential() {
		a.log.Warn("no BlazeMeter API key configured; every tool call will report it")
	}

	server := mcp.NewServer(a.catalog, mcp.Options{Version: Version, Logger: a.log})
	if metricsAddr == "" {
		return ignoreCancel(server.Serve(ctx, os.Stdin, os.Stdout))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	httpSrv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("serving metrics", zap.String("addr", metricsAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
		return ignoreCancel(server.Serve(gctx, os.Stdin, os.Stdout))
	})
	return g.Wait()
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
