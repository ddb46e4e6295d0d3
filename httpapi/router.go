// Package httpapi exposes single-page coach scans over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-coaches/scraper"
)

type Deps struct {
	Scanner Scanner

	// Metrics is optional; /metrics is only mounted when set.
	Metrics *scraper.Metrics

	CacheSize int
	CacheTTL  time.Duration
}

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true,
	})
}

// NewMux returns the routes without middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	sh := NewScanHandler(d.Scanner, d.CacheSize, d.CacheTTL)
	mux.HandleFunc("/api/scan", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Scan,
	}))

	hh := HealthHandler{}
	mux.HandleFunc("/healthz", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	if d.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	return mux
}

// NewHandler wraps NewMux with request IDs, panic recovery and access logs.
func NewHandler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover, AccessLog)
}
