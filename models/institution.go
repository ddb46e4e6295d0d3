// Package models defines data structures for the coach scraper.
package models

import (
	"fmt"
	"strings"
)

// Division is the competitive tier an athletic program belongs to.
type Division string

const (
	DivisionD1   Division = "D1"
	DivisionD2   Division = "D2"
	DivisionD3   Division = "D3"
	DivisionNAIA Division = "NAIA"
	DivisionJUCO Division = "JUCO"
)

// Divisions returns every known division in reporting order.
func Divisions() []Division {
	return []Division{DivisionD1, DivisionD2, DivisionD3, DivisionNAIA, DivisionJUCO}
}

// ParseDivision normalises a division label, accepting any letter case.
func ParseDivision(s string) (Division, error) {
	candidate := Division(strings.ToUpper(strings.TrimSpace(s)))
	for _, d := range Divisions() {
		if candidate == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown division %q", s)
}

// Institution is one athletic program to scan. Loaded by the roster and never
// mutated by the scraper.
type Institution struct {
	ID           string   `json:"id" yaml:"id" csv:"id"`
	Name         string   `json:"name" yaml:"name" csv:"name" validate:"required"`
	Division     Division `json:"division" yaml:"division" csv:"division" validate:"required,oneof=D1 D2 D3 NAIA JUCO"`
	Conference   string   `json:"conference,omitempty" yaml:"conference" csv:"conference"`
	State        string   `json:"state,omitempty" yaml:"state" csv:"state" validate:"omitempty,len=2"`
	AthleticsURL string   `json:"athletics_url" yaml:"athletics_url" csv:"athletics_url" validate:"required"`
}
