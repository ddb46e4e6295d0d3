// Command coachscan discovers coach contacts on athletics staff directories.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-coaches/config"
)

// cfg starts from the built-in defaults; main layers COACHSCAN_* variables on
// top before flags are parsed, so explicit flags win.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "coachscan",
	Short: "Coach discovery for athletics staff directories",
	Long:  "coachscan fetches athletics staff directory pages and extracts coach names, titles, emails and phone numbers for human review.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger, level := newLogger(cfg.Verbose, os.Stderr)
		slog.SetDefault(logger)
		slog.SetLogLoggerLevel(level.Level())
		return nil
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose logging")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout")
	flags.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header sent with every request")
	flags.StringVar(&cfg.VocabularyFile, "vocabulary", cfg.VocabularyFile, "YAML file with the coaching title vocabulary")
	flags.BoolVar(&cfg.RespectRobotsTxt, "respect-robots", cfg.RespectRobotsTxt, "Respect robots.txt directives")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid environment: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool, out *os.File) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(out) {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
