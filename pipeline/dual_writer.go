package pipeline

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

type namedSink struct {
	name   string
	writer ResultWriter
}

// DualWriter streams every result to a coach CSV and a per-institution JSONL
// file. A failing sink does not stop the other one from receiving results.
type DualWriter struct {
	sinks []namedSink
}

// NewDualWriter opens the coach CSV at csvPath and the JSONL at jsonlPath.
func NewDualWriter(csvPath, jsonlPath string) (*DualWriter, error) {
	coaches, err := NewCSVWriter(csvPath)
	if err != nil {
		return nil, fmt.Errorf("coach csv: %w", err)
	}

	lines, err := NewJSONWriter(jsonlPath)
	if err != nil {
		_ = coaches.Close()
		return nil, fmt.Errorf("result jsonl: %w", err)
	}

	return &DualWriter{sinks: []namedSink{
		{name: "coach csv", writer: coaches},
		{name: "result jsonl", writer: lines},
	}}, nil
}

// Write hands results to both sinks and joins their errors.
func (dw *DualWriter) Write(results []models.InstitutionResult) error {
	return dw.each(func(w ResultWriter) error { return w.Write(results) })
}

// Close flushes and closes both files.
func (dw *DualWriter) Close() error {
	return dw.each(ResultWriter.Close)
}

// Validate checks that neither file is empty.
func (dw *DualWriter) Validate() error {
	return dw.each(ResultWriter.Validate)
}

func (dw *DualWriter) each(fn func(ResultWriter) error) error {
	var errs []error
	for _, sink := range dw.sinks {
		if err := fn(sink.writer); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.name, err))
		}
	}
	return errors.Join(errs...)
}
