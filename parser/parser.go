// Package parser pulls names, titles, emails and phone numbers out of
// unstructured staff-directory text.
package parser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

// ValidateCandidate ensures a candidate carries a title and at least one of
// name or email.
func ValidateCandidate(c *models.CoachCandidate) error {
	if c == nil {
		return fmt.Errorf("candidate is nil")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("candidate missing title")
	}
	if strings.TrimSpace(c.FullName) == "" && strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("candidate %q missing name and email", c.Title)
	}
	return nil
}

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeEmail trims spacing and lowercases the domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// SplitName splits a full name into first and last names. A single token is
// treated as a last name.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
