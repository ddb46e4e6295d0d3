package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrInvalidInput indicates a bad scan target; it is raised before any
// request is made.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid_input: %s %s", e.Field, e.Reason)
}

// ErrTimeout indicates a timeout while issuing a request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure (DNS, refused,
// reset).
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrHTTP indicates a non-2xx response from the target site.
type ErrHTTP struct {
	Status int
}

func (e ErrHTTP) Error() string {
	return fmt.Sprintf("http_status: %d %s", e.Status, http.StatusText(e.Status))
}

// ErrorTypeLabel returns a short category for err, used in metrics and
// failure reports.
func ErrorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var invalid ErrInvalidInput
	if errors.As(err, &invalid) {
		return "invalid_input"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var httpErr ErrHTTP
	if errors.As(err, &httpErr) {
		switch httpErr.Status {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusNotFound:
			return "not_found"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "http_status"
	}
	return "other"
}

// StatusCode maps err to the status an HTTP boundary should answer with.
// Upstream HTTP failures are reported as a bad request because the caller
// supplied the URL.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var invalid ErrInvalidInput
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return http.StatusRequestTimeout
	}
	var httpErr ErrHTTP
	if errors.As(err, &httpErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorMessage renders err for people reviewing scan results.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var invalid ErrInvalidInput
	if errors.As(err, &invalid) {
		return fmt.Sprintf("invalid %s: %s", invalid.Field, invalid.Reason)
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "website took too long to respond"
	}
	var httpErr ErrHTTP
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("website returned HTTP %d", httpErr.Status)
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return fmt.Sprintf("could not reach website: %v", conn.Err)
	}
	return err.Error()
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 && (statusCode < 200 || statusCode > 299) {
		return ErrHTTP{Status: statusCode}
	}

	return err
}
