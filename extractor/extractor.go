// Package extractor turns staff-directory HTML into coach candidates. It
// tries structural strategies first and falls back to scanning visible text
// line by line when none of them matches.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/parser"
)

// Extraction is the outcome of one page.
type Extraction struct {
	Coaches      []models.CoachCandidate
	Strategy     string
	UsedFallback bool
}

// Extractor holds the vocabulary and strategy list used for every page.
type Extractor struct {
	vocab      *parser.Vocabulary
	strategies []Strategy
}

// New builds an extractor. A nil vocabulary or empty strategy list selects
// the defaults.
func New(vocab *parser.Vocabulary, strategies ...Strategy) *Extractor {
	if vocab == nil {
		vocab = parser.DefaultVocabulary()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{vocab: vocab, strategies: strategies}
}

// Extract parses body as HTML and extracts deduplicated candidates.
func (e *Extractor) Extract(body string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return e.ExtractDocument(doc), nil
}

// ExtractDocument runs the structural strategies and, only if they found
// nothing, the free-text fallback.
func (e *Extractor) ExtractDocument(doc *goquery.Document) *Extraction {
	if candidates, strategy := e.selectStructural(doc); len(candidates) > 0 {
		return &Extraction{
			Coaches:  Dedupe(candidates),
			Strategy: strategy,
		}
	}

	candidates := ExtractFreeText(VisibleText(doc), e.vocab)
	return &Extraction{
		Coaches:      Dedupe(candidates),
		Strategy:     FreeTextStrategy,
		UsedFallback: true,
	}
}
