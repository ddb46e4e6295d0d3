package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-scrape-coaches/parser"
)

// Config holds scraper configuration.
type Config struct {
	RosterFile       string
	Delay            time.Duration
	Timeout          time.Duration
	UserAgent        string
	VocabularyFile   string
	OutputFile       string
	OutputFormat     string // csv, json, or dual
	ReportFile       string
	TopN             int
	MetricsAddr      string
	ListenAddr       string
	CacheSize        int
	CacheTTL         time.Duration
	Verbose          bool
	RespectRobotsTxt bool
}

// DefaultConfig returns conservative defaults for third-party athletics sites.
func DefaultConfig() *Config {
	return &Config{
		RosterFile:       "roster.yaml",
		Delay:            2000 * time.Millisecond,
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		OutputFile:       "output/coaches.csv",
		OutputFormat:     "csv",
		ReportFile:       "output/report.json",
		TopN:             10,
		ListenAddr:       ":8080",
		CacheSize:        256,
		CacheTTL:         15 * time.Minute,
		Verbose:          false,
		RespectRobotsTxt: false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.ReportFile == "" {
		return fmt.Errorf("report file cannot be empty")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top institutions count must be positive")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	return nil
}

// Vocabulary loads the title vocabulary named by VocabularyFile, or the
// built-in one when unset.
func (c *Config) Vocabulary() (*parser.Vocabulary, error) {
	if c.VocabularyFile == "" {
		return parser.DefaultVocabulary(), nil
	}
	return LoadVocabulary(c.VocabularyFile)
}

// LoadVocabulary reads an ordered YAML list of titles, either a bare list or
// a document with a top-level "titles" key.
func LoadVocabulary(path string) (*parser.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var titles []string
	if err := yaml.Unmarshal(data, &titles); err != nil {
		var doc struct {
			Titles []string `yaml:"titles"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode vocabulary file: %w", err)
		}
		titles = doc.Titles
	}

	vocab, err := parser.NewVocabulary(titles)
	if err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}
	return vocab, nil
}

// EnvString returns the trimmed value of key when it is set and non-empty.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses key as an integer when it is set.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration parses key as a Go duration ("2s", "1500ms") when it is set.
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}

// ApplyEnv overrides fields from COACHSCAN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := EnvString("COACHSCAN_ROSTER"); ok {
		c.RosterFile = v
	}
	if v, ok, err := EnvDuration("COACHSCAN_DELAY"); err != nil {
		return err
	} else if ok {
		c.Delay = v
	}
	if v, ok, err := EnvDuration("COACHSCAN_TIMEOUT"); err != nil {
		return err
	} else if ok {
		c.Timeout = v
	}
	if v, ok := EnvString("COACHSCAN_USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := EnvString("COACHSCAN_VOCABULARY"); ok {
		c.VocabularyFile = v
	}
	if v, ok := EnvString("COACHSCAN_OUTPUT"); ok {
		c.OutputFile = v
	}
	if v, ok := EnvString("COACHSCAN_REPORT"); ok {
		c.ReportFile = v
	}
	if v, ok, err := EnvInt("COACHSCAN_TOP_N"); err != nil {
		return err
	} else if ok {
		c.TopN = v
	}
	if v, ok := EnvString("COACHSCAN_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := EnvString("COACHSCAN_LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok, err := EnvInt("COACHSCAN_CACHE_SIZE"); err != nil {
		return err
	} else if ok {
		c.CacheSize = v
	}
	if v, ok, err := EnvDuration("COACHSCAN_CACHE_TTL"); err != nil {
		return err
	} else if ok {
		c.CacheTTL = v
	}
	return nil
}
