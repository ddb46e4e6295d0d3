package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-coaches/config"
	"github.com/aluiziolira/go-scrape-coaches/extractor"
	"github.com/aluiziolira/go-scrape-coaches/models"
)

const directoryURL = "http://athletics.example.test/staff-directory"

func newTestScanner(t *testing.T, transport http.RoundTripper) (*Scanner, *Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	metrics := NewMetrics()
	fetcher := NewFetcher(cfg, metrics)
	if transport != nil {
		fetcher.WithTransport(transport)
	}
	return NewScanner(fetcher, extractor.New(nil), metrics), metrics
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "ok status", err: nil, statusCode: http.StatusOK, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "nowhere.test"}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error", err: nil, statusCode: http.StatusBadGateway, expected: "http_status"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorTypeLabel(classifyError(tt.err, tt.statusCode)))
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid input", err: ErrInvalidInput{Field: "url", Reason: "is required"}, expected: http.StatusBadRequest},
		{name: "timeout", err: ErrTimeout{Err: context.DeadlineExceeded}, expected: http.StatusRequestTimeout},
		{name: "upstream http", err: ErrHTTP{Status: http.StatusServiceUnavailable}, expected: http.StatusBadRequest},
		{name: "wrapped upstream http", err: fmt.Errorf("scan: %w", ErrHTTP{Status: 404}), expected: http.StatusBadRequest},
		{name: "connection", err: ErrConnection{Err: errors.New("refused")}, expected: http.StatusInternalServerError},
		{name: "other", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestErrorMessageTimeout(t *testing.T) {
	assert.Equal(t, "website took too long to respond", ErrorMessage(ErrTimeout{Err: context.DeadlineExceeded}))
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		displayName string
		wantField   string
	}{
		{name: "missing url", url: " ", displayName: "State", wantField: "url"},
		{name: "missing name", url: directoryURL, displayName: "", wantField: "displayName"},
		{name: "no host", url: "http://", displayName: "State", wantField: "url"},
		{name: "relative", url: "staff.html", displayName: "State", wantField: "url"},
		{name: "bad scheme", url: "ftp://example.test/staff", displayName: "State", wantField: "url"},
		{name: "valid", url: directoryURL, displayName: "State", wantField: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.url, tt.displayName)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var invalid ErrInvalidInput
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestFetcherHTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{status: http.StatusTooManyRequests, expected: "rate_limited"},
		{status: http.StatusForbidden, expected: "forbidden"},
		{status: http.StatusNotFound, expected: "not_found"},
		{status: http.StatusInternalServerError, expected: "http_status"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", directoryURL, httpmock.NewStringResponder(tt.status, "nope"))

			scanner, _ := newTestScanner(t, transport)
			_, err := scanner.fetcher.Fetch(context.Background(), directoryURL)

			var httpErr ErrHTTP
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.expected, ErrorTypeLabel(err))
		})
	}
}

func TestFetcherConnectionError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL,
		httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))

	scanner, _ := newTestScanner(t, transport)
	_, err := scanner.fetcher.Fetch(context.Background(), directoryURL)

	var conn ErrConnection
	assert.ErrorAs(t, err, &conn)
}

func TestFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := config.DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	fetcher := NewFetcher(cfg, NewMetrics())

	_, err := fetcher.Fetch(context.Background(), server.URL)
	var timeout ErrTimeout
	assert.ErrorAs(t, err, &timeout)
	assert.Equal(t, http.StatusRequestTimeout, StatusCode(err))
}

func TestFetcherSendsBrowserUserAgent(t *testing.T) {
	cfg := config.DefaultConfig()
	var got string
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL, func(req *http.Request) (*http.Response, error) {
		got = req.Header.Get("User-Agent")
		return httpmock.NewStringResponse(http.StatusOK, "<html></html>"), nil
	})

	fetcher := NewFetcher(cfg, nil)
	fetcher.WithTransport(transport)
	_, err := fetcher.Fetch(context.Background(), directoryURL)
	require.NoError(t, err)
	assert.Equal(t, cfg.UserAgent, got)
}

func TestFetcherCanceledContext(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL, htmlResponder("<html></html>"))

	scanner, _ := newTestScanner(t, transport)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.fetcher.Fetch(ctx, directoryURL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestScan(t *testing.T) {
	page := `<html><body><table>
		<tr><th>Name</th><th>Title</th></tr>
		<tr><td>Jane Doe — Head Coach — jane@school.edu</td></tr>
		<tr><td>Jane Doe — Head Coach — jane@school.edu</td></tr>
	</table></body></html>`

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL, htmlResponder(page))

	scanner, _ := newTestScanner(t, transport)
	result, err := scanner.Scan(context.Background(), directoryURL, "State University")
	require.NoError(t, err)
	require.Equal(t, 1, result.CoachCount(), "coaches: %+v", result.Coaches)
	want := models.CoachCandidate{
		FirstName: "Jane",
		LastName:  "Doe",
		FullName:  "Jane Doe",
		Title:     "Head Coach",
		Email:     "jane@school.edu",
		Strategy:  "table-rows",
	}
	assert.Equal(t, want, result.Coaches[0])
	assert.False(t, result.UsedFallback)
}

func TestScanInvalidInputSkipsFetch(t *testing.T) {
	transport := httpmock.NewMockTransport()
	scanner, _ := newTestScanner(t, transport)

	_, err := scanner.Scan(context.Background(), "not a url", "State University")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestScanInstitutionRecordsFailure(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL, httpmock.NewErrorResponder(context.DeadlineExceeded))

	scanner, _ := newTestScanner(t, transport)
	result := scanner.ScanInstitution(context.Background(), models.Institution{
		ID:           "state",
		Name:         "State University",
		Division:     models.DivisionD1,
		AthleticsURL: directoryURL,
	})

	assert.True(t, result.Failed())
	assert.Equal(t, "timeout", result.ErrorType)
	assert.NotNil(t, result.Coaches)
	assert.Empty(t, result.Coaches)
}

func TestScanInstitutionZeroCoachesIsSuccess(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", directoryURL, htmlResponder("<html><body><p>Tickets</p></body></html>"))

	scanner, _ := newTestScanner(t, transport)
	result := scanner.ScanInstitution(context.Background(), models.Institution{
		ID:           "state",
		Name:         "State University",
		Division:     models.DivisionD2,
		AthleticsURL: directoryURL,
	})

	assert.False(t, result.Failed(), result.Error)
	assert.Empty(t, result.Coaches)
	assert.Equal(t, extractor.FreeTextStrategy, result.Strategy)
}

func TestScanInstitutionMalformedURL(t *testing.T) {
	transport := httpmock.NewMockTransport()
	scanner, _ := newTestScanner(t, transport)

	result := scanner.ScanInstitution(context.Background(), models.Institution{
		ID:           "typo",
		Name:         "Typo College",
		Division:     models.DivisionD3,
		AthleticsURL: "athletics.typo.edu/staff",
	})

	assert.True(t, result.Failed())
	assert.Equal(t, "invalid_input", result.ErrorType)
	assert.Zero(t, transport.GetTotalCallCount())
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}
