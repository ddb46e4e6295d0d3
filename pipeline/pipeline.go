// Package pipeline runs the coach scan across a roster of institutions and
// aggregates the batch report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aluiziolira/go-scrape-coaches/config"
	"github.com/aluiziolira/go-scrape-coaches/models"
)

var (
	// ErrRunnerUsed is returned when Run is called more than once.
	ErrRunnerUsed = errors.New("pipeline: runner already used")
)

// State is the lifecycle of a Runner.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// InstitutionScanner scans one institution and never fails; errors are
// recorded on the returned result.
type InstitutionScanner interface {
	ScanInstitution(ctx context.Context, inst models.Institution) models.InstitutionResult
}

// ResultWriter defines the interface for streaming per-institution results.
type ResultWriter interface {
	Write(results []models.InstitutionResult) error
	Close() error
	Validate() error
}

// Runner processes institutions one at a time with a fixed delay between
// requests.
type Runner struct {
	scanner  InstitutionScanner
	writer   ResultWriter
	delay    time.Duration
	topN     int
	now      func() time.Time
	onResult func(index, total int, result models.InstitutionResult)

	state atomic.Int32
}

// NewRunner builds a runner. writer may be nil when results are only needed
// in memory.
func NewRunner(scanner InstitutionScanner, writer ResultWriter, cfg *config.Config) *Runner {
	return &Runner{
		scanner: scanner,
		writer:  writer,
		delay:   cfg.Delay,
		topN:    cfg.TopN,
		now:     time.Now,
	}
}

// OnResult registers a hook called after each institution completes.
func (r *Runner) OnResult(fn func(index, total int, result models.InstitutionResult)) {
	r.onResult = fn
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run scans institutions in order. A failing institution is recorded and the
// loop moves on; only ctx cancellation stops the batch early, in which case
// the partial output is returned together with ctx's error.
func (r *Runner) Run(ctx context.Context, institutions []models.Institution) (*models.BatchOutput, error) {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrRunnerUsed
	}

	runID := uuid.NewString()
	total := len(institutions)
	results := make([]models.InstitutionResult, 0, total)

	slog.Info("batch started",
		slog.String("run_id", runID),
		slog.Int("institutions", total),
		slog.Duration("delay", r.delay),
	)

	var (
		abortErr error
		writeErr error
	)
	for i, inst := range institutions {
		if i > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				abortErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			abortErr = err
			break
		}

		result := r.scanner.ScanInstitution(ctx, inst)
		results = append(results, result)
		r.logResult(i, total, result)

		if r.writer != nil && writeErr == nil {
			if err := r.writer.Write([]models.InstitutionResult{result}); err != nil {
				writeErr = fmt.Errorf("write results: %w", err)
				slog.Error("result writer failed, continuing without it", slog.Any("error", err))
			}
		}
		if r.onResult != nil {
			r.onResult(i, total, result)
		}
	}

	report := BuildReport(runID, results, r.topN, r.now().UTC())
	output := NewBatchOutput(results, report)

	if abortErr != nil {
		r.state.Store(int32(StateAborted))
		slog.Warn("batch aborted",
			slog.String("run_id", runID),
			slog.Int("processed", len(results)),
			slog.Int("remaining", total-len(results)),
			slog.Any("error", abortErr),
		)
		return output, abortErr
	}

	r.state.Store(int32(StateCompleted))
	slog.Info("batch completed",
		slog.String("run_id", runID),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Int("coaches", report.TotalCoaches),
	)
	return output, writeErr
}

func (r *Runner) logResult(i, total int, result models.InstitutionResult) {
	if result.Failed() {
		slog.Warn("institution failed",
			slog.Int("index", i+1),
			slog.Int("total", total),
			slog.String("institution", result.Institution.Name),
			slog.String("category", result.ErrorType),
			slog.String("error", result.Error),
		)
		return
	}
	slog.Info("institution scanned",
		slog.Int("index", i+1),
		slog.Int("total", total),
		slog.String("institution", result.Institution.Name),
		slog.String("strategy", result.Strategy),
		slog.Int("coaches", len(result.Coaches)),
	)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
