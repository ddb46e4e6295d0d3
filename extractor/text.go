package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/aluiziolira/go-scrape-coaches/parser"
)

var hiddenElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
}

// Elements that start a new line of visible text.
var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "figcaption": {}, "figure": {},
	"footer": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hr": {}, "li": {}, "main": {}, "nav": {}, "ol": {}, "p": {},
	"section": {}, "table": {}, "tbody": {}, "td": {}, "tfoot": {}, "th": {},
	"thead": {}, "tr": {}, "ul": {},
}

// VisibleText returns the rendered text of the document body, one block per
// line, with script and style content removed.
func VisibleText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return SelectionText(doc.Selection)
	}
	return SelectionText(body)
}

// SelectionText renders the visible text under s, breaking lines at block
// elements so that adjacent table cells or list items do not run together.
func SelectionText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeText(&b, n)
		b.WriteByte('\n')
	}
	return strings.Join(Lines(b.String()), "\n")
}

// Lines splits text into trimmed, non-empty lines with inner whitespace
// collapsed.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = parser.NormalizeWhitespace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(n.Data))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if _, hidden := hiddenElements[n.Data]; hidden {
			return
		}
	}

	_, block := blockElements[n.Data]
	if block && n.Type == html.ElementNode {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block && n.Type == html.ElementNode {
		b.WriteByte('\n')
	}
}

// collapseSpace turns whitespace runs, including newlines inside a text node,
// into single spaces while keeping a leading or trailing space so inline
// siblings stay separated.
func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	collapsed := strings.Join(strings.Fields(s), " ")
	if isSpace(s[0]) {
		collapsed = " " + collapsed
	}
	if isSpace(s[len(s)-1]) {
		collapsed += " "
	}
	return collapsed
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
