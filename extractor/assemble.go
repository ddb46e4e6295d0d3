package extractor

import (
	"log/slog"

	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/parser"
)

// unknownName is used when neither a name nor an email was captured.
const unknownName = "Unknown"

// Assemble builds a candidate for one title from extracted fields.
func Assemble(fields parser.Fields, title, strategy string) models.CoachCandidate {
	name := parser.NormalizeWhitespace(fields.Name)
	email := parser.NormalizeEmail(fields.Email)

	first, last := parser.SplitName(name)
	fullName := name
	if fullName == "" {
		fullName = email
	}
	if fullName == "" {
		fullName = unknownName
	}

	return models.CoachCandidate{
		FirstName: first,
		LastName:  last,
		FullName:  fullName,
		Title:     title,
		Email:     email,
		Phone:     fields.Phone,
		Strategy:  strategy,
	}
}

// appendValid adds c to candidates unless it fails candidate validation.
func appendValid(candidates []models.CoachCandidate, c models.CoachCandidate) []models.CoachCandidate {
	if err := parser.ValidateCandidate(&c); err != nil {
		slog.Debug("dropping invalid candidate",
			slog.String("strategy", c.Strategy),
			slog.Any("error", err),
		)
		return candidates
	}
	return append(candidates, c)
}

type dedupeKey struct {
	fullName string
	title    string
}

// Dedupe drops later candidates sharing a (full name, title) pair with an
// earlier one. The same person under two different titles is kept twice.
func Dedupe(candidates []models.CoachCandidate) []models.CoachCandidate {
	seen := make(map[dedupeKey]struct{}, len(candidates))
	out := make([]models.CoachCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := dedupeKey{fullName: c.FullName, title: c.Title}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
