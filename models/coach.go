package models

import "time"

// CoachCandidate is a heuristically extracted staff member awaiting human review.
type CoachCandidate struct {
	FirstName string `csv:"first_name" json:"first_name,omitempty"`
	LastName  string `csv:"last_name" json:"last_name,omitempty"`
	FullName  string `csv:"full_name" json:"full_name"`
	Title     string `csv:"title" json:"title"`
	Email     string `csv:"email" json:"email,omitempty"`
	Phone     string `csv:"phone" json:"phone,omitempty"`
	Strategy  string `csv:"strategy" json:"strategy,omitempty"`
}

// InstitutionResult wraps one institution's run. A non-empty Error means the
// fetch or parse failed; an empty Coaches list with no Error is a valid result.
type InstitutionResult struct {
	Institution Institution      `json:"institution"`
	Coaches     []CoachCandidate `json:"coaches"`
	ScrapedAt   time.Time        `json:"scraped_at"`
	Duration    time.Duration    `json:"duration_ns"`
	Strategy    string           `json:"strategy,omitempty"`
	Error       string           `json:"error,omitempty"`
	ErrorType   string           `json:"error_type,omitempty"`
}

// Failed reports whether the run for this institution errored.
func (r InstitutionResult) Failed() bool {
	return r.Error != ""
}

// InstitutionYield is one entry of the top-institutions ranking.
type InstitutionYield struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Division   Division `json:"division"`
	CoachCount int      `json:"coach_count"`
}

// InstitutionFailure records why an institution produced no result.
type InstitutionFailure struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// BatchReport aggregates a completed batch run.
type BatchReport struct {
	RunID             string               `json:"run_id"`
	GeneratedAt       time.Time            `json:"generated_at"`
	TotalInstitutions int                  `json:"total_institutions"`
	Succeeded         int                  `json:"succeeded"`
	Failed            int                  `json:"failed"`
	TotalCoaches      int                  `json:"total_coaches"`
	CoachesByDivision map[Division]int     `json:"coaches_by_division"`
	TopInstitutions   []InstitutionYield   `json:"top_institutions"`
	Failures          []InstitutionFailure `json:"failures"`
}

// BatchOutput is the document written to the report sink after a batch.
type BatchOutput struct {
	GeneratedAt       time.Time           `json:"generated_at"`
	TotalInstitutions int                 `json:"total_institutions"`
	Succeeded         int                 `json:"succeeded"`
	Failed            int                 `json:"failed"`
	TotalCoaches      int                 `json:"total_coaches"`
	Results           []InstitutionResult `json:"results"`
	Report            BatchReport         `json:"report"`
}
