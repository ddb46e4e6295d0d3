package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/scraper"
)

// maxRequestBody bounds the scan request body.
const maxRequestBody = 64 << 10

// Scanner is the single-page scan used by the API.
type Scanner interface {
	Scan(ctx context.Context, rawURL, displayName string) (*scraper.ScanResult, error)
}

type ScanRequest struct {
	URL         string `json:"url" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}

type ScanResponse struct {
	Success     bool                    `json:"success"`
	DisplayName string                  `json:"displayName"`
	CoachCount  int                     `json:"coachCount"`
	Coaches     []models.CoachCandidate `json:"coaches"`
	Strategy    string                  `json:"strategy"`
	ScrapedAt   time.Time               `json:"scrapedAt"`
}

// ScanHandler serves interactive single-URL scans. Successful results are
// cached by URL so repeated lookups do not refetch the page.
type ScanHandler struct {
	Scanner   Scanner
	cache     *expirable.LRU[string, *scraper.ScanResult]
	validator *validator.Validate
}

// NewScanHandler builds a handler. A zero cacheSize or cacheTTL disables the
// result cache.
func NewScanHandler(s Scanner, cacheSize int, cacheTTL time.Duration) *ScanHandler {
	h := &ScanHandler{
		Scanner:   s,
		validator: validator.New(),
	}
	if cacheSize > 0 && cacheTTL > 0 {
		h.cache = expirable.NewLRU[string, *scraper.ScanResult](cacheSize, nil, cacheTTL)
	}
	return h
}

func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := h.validator.Struct(req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}

	if h.cache != nil {
		if cached, ok := h.cache.Get(req.URL); ok {
			w.Header().Set("X-Cache", "HIT")
			WriteJSON(w, http.StatusOK, newScanResponse(cached, req.DisplayName))
			return
		}
	}

	result, err := h.Scanner.Scan(r.Context(), req.URL, req.DisplayName)
	if err != nil {
		status := scraper.StatusCode(err)
		if status >= http.StatusInternalServerError {
			slog.Error("scan failed",
				slog.String("request_id", RequestIDFrom(r.Context())),
				slog.String("url", req.URL),
				slog.Any("error", err),
			)
		}
		WriteError(w, r, status, scraper.ErrorTypeLabel(err), scraper.ErrorMessage(err))
		return
	}

	if h.cache != nil {
		h.cache.Add(req.URL, result)
		w.Header().Set("X-Cache", "MISS")
	}
	WriteJSON(w, http.StatusOK, newScanResponse(result, req.DisplayName))
}

func newScanResponse(result *scraper.ScanResult, displayName string) ScanResponse {
	coaches := result.Coaches
	if coaches == nil {
		coaches = []models.CoachCandidate{}
	}
	return ScanResponse{
		Success:     true,
		DisplayName: displayName,
		CoachCount:  result.CoachCount(),
		Coaches:     coaches,
		Strategy:    result.Strategy,
		ScrapedAt:   result.ScrapedAt,
	}
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
