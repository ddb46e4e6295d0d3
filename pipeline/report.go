package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

// BuildReport aggregates results. Top institutions only include successful
// runs that found at least one coach, ordered by count then name.
func BuildReport(runID string, results []models.InstitutionResult, topN int, generatedAt time.Time) models.BatchReport {
	report := models.BatchReport{
		RunID:             runID,
		GeneratedAt:       generatedAt,
		TotalInstitutions: len(results),
		CoachesByDivision: make(map[models.Division]int, len(models.Divisions())),
		TopInstitutions:   []models.InstitutionYield{},
		Failures:          []models.InstitutionFailure{},
	}
	for _, d := range models.Divisions() {
		report.CoachesByDivision[d] = 0
	}

	yields := make([]models.InstitutionYield, 0, len(results))
	for _, result := range results {
		inst := result.Institution
		if result.Failed() {
			report.Failed++
			report.Failures = append(report.Failures, models.InstitutionFailure{
				ID:        inst.ID,
				Name:      inst.Name,
				URL:       inst.AthleticsURL,
				Error:     result.Error,
				ErrorType: result.ErrorType,
			})
			continue
		}

		report.Succeeded++
		count := len(result.Coaches)
		report.TotalCoaches += count
		report.CoachesByDivision[inst.Division] += count
		if count > 0 {
			yields = append(yields, models.InstitutionYield{
				ID:         inst.ID,
				Name:       inst.Name,
				Division:   inst.Division,
				CoachCount: count,
			})
		}
	}

	sort.SliceStable(yields, func(i, j int) bool {
		if yields[i].CoachCount != yields[j].CoachCount {
			return yields[i].CoachCount > yields[j].CoachCount
		}
		return yields[i].Name < yields[j].Name
	})
	if topN > 0 && len(yields) > topN {
		yields = yields[:topN]
	}
	report.TopInstitutions = append(report.TopInstitutions, yields...)

	return report
}

// NewBatchOutput assembles the document written at the end of a batch.
func NewBatchOutput(results []models.InstitutionResult, report models.BatchReport) *models.BatchOutput {
	return &models.BatchOutput{
		GeneratedAt:       report.GeneratedAt,
		TotalInstitutions: report.TotalInstitutions,
		Succeeded:         report.Succeeded,
		Failed:            report.Failed,
		TotalCoaches:      report.TotalCoaches,
		Results:           results,
		Report:            report,
	}
}

// WriteReport writes output as indented JSON to path, replacing any
// previous report.
func WriteReport(path string, output *models.BatchOutput) error {
	if output == nil {
		return fmt.Errorf("report output is nil")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}
