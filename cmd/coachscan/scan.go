package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-coaches/extractor"
	"github.com/aluiziolira/go-scrape-coaches/scraper"
)

var (
	scanName string
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a single staff directory page",
	Long:  `Fetch one staff directory page and print the coach candidates found on it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanName, "name", "n", "", "Display name of the institution")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the result as JSON")
	_ = scanCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	vocab, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := scraper.NewScanner(scraper.NewFetcher(cfg, nil), extractor.New(vocab), nil)
	result, err := scanner.Scan(ctx, args[0], scanName)
	if err != nil {
		return fmt.Errorf("%s (%s)", scraper.ErrorMessage(err), scraper.ErrorTypeLabel(err))
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printCoaches(os.Stdout, result.DisplayName, result.Strategy, result.Coaches)
	return nil
}
