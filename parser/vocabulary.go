package parser

import (
	"errors"
	"strings"
)

// defaultTitles is ordered from most to least specific; the generic
// "Coach" and "Coordinator" entries act as catch-alls.
var defaultTitles = []string{
	"Head Coach",
	"Interim Head Coach",
	"Associate Head Coach",
	"Assistant Head Coach",
	"Assistant Coach",
	"Volunteer Assistant Coach",
	"Graduate Assistant Coach",
	"Strength and Conditioning Coach",
	"Recruiting Coordinator",
	"Offensive Coordinator",
	"Defensive Coordinator",
	"Special Teams Coordinator",
	"Director of Operations",
	"Director of Player Development",
	"Graduate Assistant",
	"Coach",
	"Coordinator",
}

// connector words inside titles that must not break a name.
var titleConnectors = map[string]struct{}{
	"of":  {},
	"and": {},
	"the": {},
	"for": {},
}

// Vocabulary is the ordered list of recognised role titles.
type Vocabulary struct {
	terms      []string
	lower      []string
	titleWords map[string]struct{}
}

// DefaultVocabulary returns the built-in title list.
func DefaultVocabulary() *Vocabulary {
	v, _ := NewVocabulary(defaultTitles)
	return v
}

// NewVocabulary builds a vocabulary preserving the given order. Blank and
// duplicate (case-insensitive) entries are dropped.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	v := &Vocabulary{titleWords: make(map[string]struct{})}
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = NormalizeWhitespace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		v.terms = append(v.terms, term)
		v.lower = append(v.lower, key)
		for _, word := range strings.Fields(key) {
			if _, skip := titleConnectors[word]; skip {
				continue
			}
			v.titleWords[word] = struct{}{}
		}
	}
	if len(v.terms) == 0 {
		return nil, errors.New("vocabulary must contain at least one title")
	}
	return v, nil
}

// Terms returns a copy of the titles in order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Len returns the number of titles.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// ContainsKeyword reports whether s contains any title, ignoring case.
func (v *Vocabulary) ContainsKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, term := range v.lower {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func (v *Vocabulary) isTitleWord(word string) bool {
	_, ok := v.titleWords[strings.ToLower(word)]
	return ok
}
