package parser

import (
	"regexp"
	"strings"
)

var (
	// A run of capitalised words on one line: "Jane Doe", "Mary-Kate O'Brien".
	nameRunPattern = regexp.MustCompile(`\b[A-Z](?:[a-z]+|['’][A-Z][a-z]+)(?:-?[A-Z][a-z]+)*(?:[ \t]+[A-Z](?:[a-z]+|['’][A-Z][a-z]+)(?:-?[A-Z][a-z]+)*)*\b`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// The number must not continue a longer digit run on either side.
	phonePattern = regexp.MustCompile(`(?:^|[^\d])((?:\+?1[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4})\b`)
)

// Directory chrome that commonly sits next to staff names but is never part
// of one.
var nameStopwords = map[string]struct{}{
	"staff":      {},
	"directory":  {},
	"email":      {},
	"phone":      {},
	"contact":    {},
	"office":     {},
	"bio":        {},
	"athletics":  {},
	"department": {},
	"men":        {},
	"mens":       {},
	"women":      {},
	"womens":     {},
}

// Sport names open many headings ("Football Staff") but are also surnames
// ("Sally Field"), so they are only dropped before the first name word.
var sportWords = map[string]struct{}{
	"football":   {},
	"basketball": {},
	"baseball":   {},
	"softball":   {},
	"soccer":     {},
	"volleyball": {},
	"track":      {},
	"field":      {},
	"swimming":   {},
	"tennis":     {},
	"golf":       {},
	"wrestling":  {},
	"lacrosse":   {},
}

// Fields holds everything pulled out of one block of text.
type Fields struct {
	Name   string
	Titles []string
	Email  string
	Phone  string
}

// HasIdentity reports whether a name or an email was found.
func (f Fields) HasIdentity() bool {
	return f.Name != "" || f.Email != ""
}

// ExtractFields runs all four extractors over text.
func ExtractFields(text string, vocab *Vocabulary) Fields {
	return Fields{
		Name:   ExtractName(text, vocab),
		Titles: ExtractTitles(text, vocab),
		Email:  ExtractEmail(text),
		Phone:  ExtractPhone(text),
	}
}

// ExtractName returns the first capitalised word sequence that does not
// contain a title. Title words and stopwords split a run, so a name sitting
// right after its title ("Assistant Coach John Smith") is still found. Only
// the first name in text is returned.
func ExtractName(text string, vocab *Vocabulary) string {
	for _, run := range nameRunPattern.FindAllString(text, -1) {
		for _, segment := range splitRun(run, vocab) {
			if len(segment) <= 2 {
				continue
			}
			if vocab.ContainsKeyword(segment) {
				continue
			}
			return segment
		}
	}
	return ""
}

func splitRun(run string, vocab *Vocabulary) []string {
	var (
		segments []string
		current  []string
	)
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, " "))
			current = current[:0]
		}
	}
	for _, word := range strings.Fields(run) {
		lower := strings.ToLower(word)
		_, stop := nameStopwords[lower]
		if stop || vocab.isTitleWord(lower) {
			flush()
			continue
		}
		if _, sport := sportWords[lower]; sport && len(current) == 0 {
			continue
		}
		current = append(current, word)
	}
	flush()
	return segments
}

type span struct {
	start, end int
}

// ExtractTitles returns every vocabulary title present in text, in
// vocabulary order. An occurrence lying entirely inside an occurrence of a
// longer matched title ("Coach" within "Head Coach") is not counted.
func ExtractTitles(text string, vocab *Vocabulary) []string {
	lower := strings.ToLower(text)
	occurrences := make([][]span, len(vocab.lower))
	for i, term := range vocab.lower {
		occurrences[i] = findAll(lower, term)
	}

	var titles []string
	for i, spans := range occurrences {
		for _, s := range spans {
			if !coveredByLonger(s, i, vocab.lower, occurrences) {
				titles = append(titles, vocab.terms[i])
				break
			}
		}
	}
	return titles
}

func findAll(haystack, needle string) []span {
	var spans []span
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return spans
		}
		start := offset + idx
		spans = append(spans, span{start: start, end: start + len(needle)})
		offset = start + 1
	}
}

func coveredByLonger(s span, self int, terms []string, occurrences [][]span) bool {
	for j, other := range occurrences {
		if j == self || len(terms[j]) <= len(terms[self]) {
			continue
		}
		for _, o := range other {
			if o.start <= s.start && s.end <= o.end {
				return true
			}
		}
	}
	return false
}

// ExtractEmail returns the first email address in text.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first North-American phone number in text.
func ExtractPhone(text string) string {
	m := phonePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
