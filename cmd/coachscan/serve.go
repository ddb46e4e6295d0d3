package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aluiziolira/go-scrape-coaches/extractor"
	"github.com/aluiziolira/go-scrape-coaches/httpapi"
	"github.com/aluiziolira/go-scrape-coaches/scraper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scan API server",
	Long:  `Start an HTTP server exposing POST /api/scan for interactive single-page scans, plus /healthz and /metrics.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Address to listen on")
	flags.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Number of scan results to cache (0 disables)")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "How long a cached scan result stays fresh (0 disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	vocab, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	metrics := scraper.NewMetrics()
	scanner := scraper.NewScanner(scraper.NewFetcher(cfg, metrics), extractor.New(vocab), metrics)

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: httpapi.NewHandler(httpapi.Deps{
			Scanner:   scanner,
			Metrics:   metrics,
			CacheSize: cfg.CacheSize,
			CacheTTL:  cfg.CacheTTL,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		// A scan may take the full fetch timeout before it answers.
		WriteTimeout: cfg.Timeout + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("api server listening", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
