package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

func printBatchSummary(w io.Writer, output *models.BatchOutput, outputFile, reportFile string) {
	report := output.Report

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Batch %s", report.RunID)
	t.AppendRows([]table.Row{
		{"Institutions", report.TotalInstitutions},
		{"Succeeded", report.Succeeded},
		{"Failed", report.Failed},
		{"Coaches", report.TotalCoaches},
		{"Coach file", outputFile},
		{"Report", reportFile},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	divisions := table.NewWriter()
	divisions.SetOutputMirror(w)
	divisions.AppendHeader(table.Row{"Division", "Coaches"})
	for _, d := range models.Divisions() {
		divisions.AppendRow(table.Row{d, report.CoachesByDivision[d]})
	}
	divisions.SetStyle(table.StyleRounded)
	divisions.Render()

	if len(report.TopInstitutions) > 0 {
		top := table.NewWriter()
		top.SetOutputMirror(w)
		top.AppendHeader(table.Row{"#", "Institution", "Division", "Coaches"})
		for i, y := range report.TopInstitutions {
			top.AppendRow(table.Row{i + 1, y.Name, y.Division, y.CoachCount})
		}
		top.SetStyle(table.StyleRounded)
		top.Render()
	}

	if len(report.Failures) > 0 {
		failures := table.NewWriter()
		failures.SetOutputMirror(w)
		failures.AppendHeader(table.Row{"Institution", "Category", "Error"})
		for _, f := range report.Failures {
			failures.AppendRow(table.Row{f.Name, f.ErrorType, f.Error})
		}
		failures.SetStyle(table.StyleRounded)
		failures.Render()
	}
}

func printCoaches(w io.Writer, displayName, strategy string, coaches []models.CoachCandidate) {
	if len(coaches) == 0 {
		fmt.Fprintf(w, "No coaches found for %s\n", displayName)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s (%s)", displayName, strategy)
	t.AppendHeader(table.Row{"Name", "Title", "Email", "Phone"})
	for _, c := range coaches {
		t.AppendRow(table.Row{c.FullName, c.Title, c.Email, c.Phone})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(coaches)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
