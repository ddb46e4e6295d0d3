package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-coaches/extractor"
	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/pipeline"
	"github.com/aluiziolira/go-scrape-coaches/roster"
	"github.com/aluiziolira/go-scrape-coaches/scraper"
)

var (
	batchDivisions []string
	batchLimit     int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scan every institution in a roster",
	Long: `Scan the institutions listed in a roster file one at a time, waiting a fixed
delay between requests. Coaches are streamed to the output file and a JSON
report with per-institution results is written when the run ends.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	flags := batchCmd.Flags()
	flags.StringVarP(&cfg.RosterFile, "roster", "r", cfg.RosterFile, "Roster file (.yaml, .json or .csv)")
	flags.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "Coach output file path")
	flags.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "Output format: csv, json, or dual")
	flags.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Batch report path (JSON)")
	flags.DurationVar(&cfg.Delay, "delay", cfg.Delay, "Delay between institutions")
	flags.IntVar(&cfg.TopN, "top", cfg.TopN, "Number of institutions in the top-yield ranking")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.StringSliceVar(&batchDivisions, "division", nil, "Only scan these divisions (D1, D2, D3, NAIA, JUCO)")
	flags.IntVar(&batchLimit, "limit", 0, "Scan at most this many institutions (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	divisions, err := parseDivisions(batchDivisions)
	if err != nil {
		return err
	}

	institutions, err := roster.Load(cfg.RosterFile)
	if err != nil {
		return err
	}
	institutions = roster.Filter(institutions, divisions, batchLimit)
	if len(institutions) == 0 {
		return fmt.Errorf("no institutions match the requested filters")
	}

	vocab, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	metrics := scraper.NewMetrics()
	fetcher := scraper.NewFetcher(cfg, metrics)
	scanner := scraper.NewScanner(fetcher, extractor.New(vocab), metrics)

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	release := watchShutdown(ctx, slog.Default())
	defer release()

	metricsServer := startMetricsServer(cfg.MetricsAddr, metrics)

	slog.Info("starting batch",
		slog.String("roster", cfg.RosterFile),
		slog.Int("institutions", len(institutions)),
		slog.Duration("delay", cfg.Delay),
		slog.Duration("timeout", cfg.Timeout),
	)

	runner := pipeline.NewRunner(scanner, writer, cfg)
	runner.OnResult(progressLogger(time.Now()))

	output, runErr := runner.Run(ctx, institutions)

	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
	}
	if output != nil && len(output.Results) > 0 {
		if err := writer.Validate(); err != nil {
			slog.Error("output validation failed", slog.Any("error", err))
		}
	}

	if output != nil {
		if err := pipeline.WriteReport(cfg.ReportFile, output); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		printBatchSummary(os.Stdout, output, cfg.OutputFile, cfg.ReportFile)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("batch aborted after %d of %d institutions", len(output.Results), len(institutions))
		}
		return runErr
	}
	return nil
}

// watchShutdown logs when ctx is canceled before release is called. release
// waits for the watcher to exit.
func watchShutdown(ctx context.Context, logger *slog.Logger) (release func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
		case <-done:
		}
		if ctx.Err() != nil {
			logger.Info("shutdown signal received, finishing the current institution")
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

func parseDivisions(values []string) ([]models.Division, error) {
	divisions := make([]models.Division, 0, len(values))
	for _, v := range values {
		d, err := models.ParseDivision(v)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, nil
}

func createWriter(format, filename string) (pipeline.ResultWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		return pipeline.NewDualWriter(filename, jsonSibling(filename))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// jsonSibling names the JSONL file written next to a CSV in dual mode.
func jsonSibling(filename string) string {
	return strings.TrimSuffix(filename, ".csv") + ".jsonl"
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

// progressLogger estimates the remaining time from the average pace so far.
func progressLogger(start time.Time) func(int, int, models.InstitutionResult) {
	return func(index, total int, _ models.InstitutionResult) {
		done := index + 1
		if done == total {
			return
		}
		perInstitution := time.Since(start) / time.Duration(done)
		slog.Debug("batch progress",
			slog.Int("done", done),
			slog.Int("total", total),
			slog.Duration("eta", perInstitution*time.Duration(total-done)),
		)
	}
}
