package extractor

import (
	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/parser"
)

// FreeTextStrategy names candidates produced by the line-by-line fallback.
const FreeTextStrategy = "free-text"

// ExtractFreeText scans text line by line. A line yields at most one
// candidate, for the first title it mentions.
func ExtractFreeText(text string, vocab *parser.Vocabulary) []models.CoachCandidate {
	var candidates []models.CoachCandidate
	for _, line := range Lines(text) {
		titles := parser.ExtractTitles(line, vocab)
		if len(titles) == 0 {
			continue
		}
		fields := parser.Fields{
			Name:   parser.ExtractName(line, vocab),
			Titles: titles,
			Email:  parser.ExtractEmail(line),
			Phone:  parser.ExtractPhone(line),
		}
		if !fields.HasIdentity() {
			continue
		}
		candidates = appendValid(candidates, Assemble(fields, titles[0], FreeTextStrategy))
	}
	return candidates
}
