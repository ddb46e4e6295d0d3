// Package scraper fetches athletics staff directories and turns them into
// coach candidates.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-coaches/config"
	"github.com/aluiziolira/go-scrape-coaches/extractor"
	"github.com/aluiziolira/go-scrape-coaches/models"
)

// Fetcher wraps a colly collector configured with a desktop browser user
// agent and a hard request timeout.
type Fetcher struct {
	collector *colly.Collector
	metrics   *Metrics
}

// NewFetcher builds a fetcher from cfg. metrics may be nil.
func NewFetcher(cfg *config.Config, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	// Error responses are delivered to OnResponse so the status can be
	// classified here rather than by colly.
	collector.ParseHTTPErrorResponse = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Fetcher{
		collector: collector,
		metrics:   metrics,
	}
}

// WithTransport replaces the HTTP transport used for fetches.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch returns the body of rawURL. Cancellation is checked before the
// request starts; a request already in flight runs to its own timeout.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := f.collector.Clone()
	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	start := time.Now()
	visitErr := c.Visit(rawURL)
	f.metrics.ObserveDuration(time.Since(start))

	if err := classifyError(visitErr, status); err != nil {
		category := ErrorTypeLabel(err)
		f.metrics.IncFetch("error")
		f.metrics.IncError(category)
		slog.Debug("fetch failed",
			slog.String("url", rawURL),
			slog.Int("status", status),
			slog.String("category", category),
			slog.Any("error", visitErr),
		)
		return "", err
	}

	f.metrics.IncFetch("ok")
	return string(body), nil
}

// ValidateTarget rejects empty or malformed scan targets before any request.
func ValidateTarget(rawURL, displayName string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ErrInvalidInput{Field: "url", Reason: "is required"}
	}
	if strings.TrimSpace(displayName) == "" {
		return ErrInvalidInput{Field: "displayName", Reason: "is required"}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidInput{Field: "url", Reason: "is malformed"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidInput{Field: "url", Reason: "must use http or https"}
	}
	return nil
}

// ScanResult is the outcome of scanning one directory page.
type ScanResult struct {
	URL          string                  `json:"url"`
	DisplayName  string                  `json:"displayName"`
	Coaches      []models.CoachCandidate `json:"coaches"`
	Strategy     string                  `json:"strategy"`
	UsedFallback bool                    `json:"usedFallback"`
	ScrapedAt    time.Time               `json:"scrapedAt"`
}

// CoachCount returns the number of candidates found.
func (r *ScanResult) CoachCount() int {
	return len(r.Coaches)
}

// Scanner runs fetch, extraction and deduplication for one institution.
type Scanner struct {
	fetcher   *Fetcher
	extractor *extractor.Extractor
	metrics   *Metrics
	now       func() time.Time
}

// NewScanner wires a fetcher and an extractor. metrics may be nil.
func NewScanner(fetcher *Fetcher, ext *extractor.Extractor, metrics *Metrics) *Scanner {
	if ext == nil {
		ext = extractor.New(nil)
	}
	return &Scanner{
		fetcher:   fetcher,
		extractor: ext,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Scan fetches rawURL and extracts coach candidates. Errors are typed so
// callers can map them with StatusCode.
func (s *Scanner) Scan(ctx context.Context, rawURL, displayName string) (*ScanResult, error) {
	if err := ValidateTarget(rawURL, displayName); err != nil {
		s.metrics.IncError(ErrorTypeLabel(err))
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)

	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extractor.Extract(body)
	if err != nil {
		s.metrics.IncError("parse")
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	if extraction.UsedFallback {
		s.metrics.IncFallback()
	}
	s.metrics.AddCoaches(extraction.Strategy, len(extraction.Coaches))

	slog.Debug("page scanned",
		slog.String("name", displayName),
		slog.String("url", rawURL),
		slog.String("strategy", extraction.Strategy),
		slog.Int("coaches", len(extraction.Coaches)),
	)

	return &ScanResult{
		URL:          rawURL,
		DisplayName:  strings.TrimSpace(displayName),
		Coaches:      extraction.Coaches,
		Strategy:     extraction.Strategy,
		UsedFallback: extraction.UsedFallback,
		ScrapedAt:    s.now().UTC(),
	}, nil
}

// ScanInstitution scans inst and always returns a result; a failure is
// recorded on the result instead of being returned.
func (s *Scanner) ScanInstitution(ctx context.Context, inst models.Institution) models.InstitutionResult {
	start := s.now()
	result := models.InstitutionResult{
		Institution: inst,
		Coaches:     []models.CoachCandidate{},
		ScrapedAt:   start.UTC(),
	}

	scan, err := s.Scan(ctx, inst.AthleticsURL, inst.Name)
	result.Duration = s.now().Sub(start)
	if err != nil {
		result.Error = ErrorMessage(err)
		result.ErrorType = ErrorTypeLabel(err)
		s.metrics.IncInstitution("failed")
		return result
	}

	if scan.CoachCount() > 0 {
		result.Coaches = scan.Coaches
	}
	result.Strategy = scan.Strategy
	s.metrics.IncInstitution("succeeded")
	return result
}
