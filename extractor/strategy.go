package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/parser"
)

// Strategy locates candidate staff elements in a document.
type Strategy struct {
	Name   string
	Select func(doc *goquery.Document) *goquery.Selection
}

// DefaultStrategies returns the structural strategies from most to least
// specific.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:   "semantic-attribute",
			Select: find(`[data-role="coach"], [role="coach"], [itemprop="coach"], [data-coach]`),
		},
		{
			Name:   "class-markers",
			Select: find(`[class*="staff-member"], [class*="coach-profile"], [class*="coach-item"]`),
		},
		{
			Name:   "class-wildcard",
			Select: find(`[class*="coach"], [class*="staff"]`),
		},
		{
			Name: "table-rows",
			Select: func(doc *goquery.Document) *goquery.Selection {
				return doc.Find("tr").Has("td")
			},
		},
	}
}

func find(selector string) func(*goquery.Document) *goquery.Selection {
	return func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(selector)
	}
}

// selectStructural runs strategies in order and stops at the first one that
// produces a candidate.
func (e *Extractor) selectStructural(doc *goquery.Document) ([]models.CoachCandidate, string) {
	for _, strategy := range e.strategies {
		var candidates []models.CoachCandidate
		strategy.Select(doc).Each(func(_ int, s *goquery.Selection) {
			candidates = append(candidates, e.fromElement(s, strategy.Name)...)
		})
		if len(candidates) > 0 {
			return candidates, strategy.Name
		}
	}
	return nil, ""
}

// fromElement emits one candidate per title found in the element's text.
func (e *Extractor) fromElement(s *goquery.Selection, strategy string) []models.CoachCandidate {
	fields := parser.ExtractFields(SelectionText(s), e.vocab)
	if fields.Email == "" {
		fields.Email = mailtoAddress(s)
	}
	if len(fields.Titles) == 0 || !fields.HasIdentity() {
		return nil
	}

	candidates := make([]models.CoachCandidate, 0, len(fields.Titles))
	for _, title := range fields.Titles {
		candidates = appendValid(candidates, Assemble(fields, title, strategy))
	}
	return candidates
}

// mailtoAddress returns the first mailto: address linked inside s. Many
// directories show "Email" as link text and keep the address in the href.
func mailtoAddress(s *goquery.Selection) string {
	href, ok := s.Find(`a[href^="mailto:"]`).First().Attr("href")
	if !ok {
		return ""
	}
	addr := strings.TrimPrefix(href, "mailto:")
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if unescaped, err := url.PathUnescape(addr); err == nil {
		addr = unescaped
	}
	return parser.ExtractEmail(addr)
}
