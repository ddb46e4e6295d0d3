package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

func sampleResult() models.InstitutionResult {
	return models.InstitutionResult{
		Institution: models.Institution{
			ID:           "state-u",
			Name:         "State University",
			Division:     models.DivisionD1,
			Conference:   "Big Conference",
			State:        "TX",
			AthleticsURL: "http://example.test/staff",
		},
		Coaches: []models.CoachCandidate{
			{FirstName: "Jane", LastName: "Doe", FullName: "Jane Doe", Title: "Head Coach", Email: "jane@school.edu"},
			{FirstName: "John", LastName: "Smith", FullName: "John Smith", Title: "Assistant Coach", Phone: "(555) 123-4567"},
		},
		ScrapedAt: time.Date(2025, 11, 4, 13, 9, 13, 0, time.UTC),
		Strategy:  "class-markers",
	}
}

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coaches.csv")

	writer, err := NewCSVWriter(path)
	require.NoError(t, err)

	failed := models.InstitutionResult{
		Institution: models.Institution{ID: "down", Name: "Down College"},
		Error:       "website took too long to respond",
	}
	require.NoError(t, writer.Write([]models.InstitutionResult{sampleResult(), failed}))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Validate())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "institution_id", records[0][0])
	assert.Equal(t, "full_name", records[0][7])
	assert.Equal(t, "State University", records[1][1])
	assert.Equal(t, "Jane Doe", records[1][7])
	assert.Equal(t, "Head Coach", records[1][8])
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")

	writer, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write([]models.InstitutionResult{sampleResult()}))
	require.NoError(t, writer.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.InstitutionResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		assert.Len(t, decoded.Coaches, 2)
		count++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 1, count)
}

func TestJSONWriterValidateEmpty(t *testing.T) {
	writer, err := NewJSONWriter(filepath.Join(t.TempDir(), "empty.jsonl"))
	require.NoError(t, err)
	defer writer.Close()

	assert.Error(t, writer.Validate())
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "nested", "coaches.csv")
	jsonPath := filepath.Join(dir, "nested", "coaches.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	require.NoError(t, err)
	require.NoError(t, writer.Write([]models.InstitutionResult{sampleResult()}))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Validate())

	for _, path := range []string{csvPath, jsonPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), path)
	}
}

func TestDualWriterKeepsWritingWhenOneSinkFails(t *testing.T) {
	broken := &mockWriter{err: errors.New("disk full")}
	healthy := &mockWriter{}
	writer := &DualWriter{sinks: []namedSink{
		{name: "coach csv", writer: broken},
		{name: "result jsonl", writer: healthy},
	}}

	err := writer.Write([]models.InstitutionResult{sampleResult()})
	assert.ErrorContains(t, err, "coach csv: disk full")
	assert.Equal(t, 1, healthy.count())
}
