package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-coaches/models"
	"github.com/aluiziolira/go-scrape-coaches/parser"
)

func extract(t *testing.T, body string) *Extraction {
	t.Helper()
	result, err := New(nil).Extract(body)
	require.NoError(t, err)
	return result
}

func TestExtract_TableRow(t *testing.T) {
	body := `<html><body><table>
		<tr><td>Jane Doe — Head Coach — jane@school.edu</td></tr>
	</table></body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "table-rows", result.Strategy)
	assert.False(t, result.UsedFallback)

	coach := result.Coaches[0]
	assert.Equal(t, "Jane Doe", coach.FullName)
	assert.Equal(t, "Jane", coach.FirstName)
	assert.Equal(t, "Doe", coach.LastName)
	assert.Equal(t, "Head Coach", coach.Title)
	assert.Equal(t, "jane@school.edu", coach.Email)
}

func TestExtract_RepeatedRowDeduplicated(t *testing.T) {
	row := `<tr><td>Jane Doe — Head Coach — jane@school.edu</td></tr>`
	body := `<html><body><table>` + row + row + `</table></body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "Jane Doe", result.Coaches[0].FullName)
}

func TestExtract_FreeTextFallback(t *testing.T) {
	body := `<html><body>
		<h1>Baseball</h1>
		<p>Assistant Coach John Smith (555) 123-4567</p>
	</body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, FreeTextStrategy, result.Strategy)

	coach := result.Coaches[0]
	assert.Equal(t, "John Smith", coach.FullName)
	assert.Equal(t, "Assistant Coach", coach.Title)
	assert.Equal(t, "(555) 123-4567", coach.Phone)
	assert.Empty(t, coach.Email)
}

func TestExtract_StrongestStrategyWins(t *testing.T) {
	body := `<html><body>
		<div class="coach-profile">Jane Doe<br>Head Coach<br>jane@school.edu</div>
		<table><tr><td>Noisy Row — Assistant Coach — noise@school.edu</td></tr></table>
		<p>Free Text — Recruiting Coordinator — free@school.edu</p>
	</body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "class-markers", result.Strategy)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, "Jane Doe", result.Coaches[0].FullName)
}

func TestExtract_SemanticAttributeBeforeClasses(t *testing.T) {
	body := `<html><body>
		<div data-role="coach"><span>Pat Quinn</span> <span>Head Coach</span></div>
		<div class="staff-member">Sam Lee — Assistant Coach</div>
	</body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "semantic-attribute", result.Strategy)
	assert.Equal(t, "Pat Quinn", result.Coaches[0].FullName)
}

func TestExtract_OneCandidatePerStructuralTitle(t *testing.T) {
	body := `<html><body>
		<div class="staff-member">
			<h3>Chris Park</h3>
			<p>Assistant Coach / Recruiting Coordinator</p>
			<p>(555) 987-6543</p>
		</div>
	</body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 2)
	assert.Equal(t, "Assistant Coach", result.Coaches[0].Title)
	assert.Equal(t, "Recruiting Coordinator", result.Coaches[1].Title)
	for _, c := range result.Coaches {
		assert.Equal(t, "Chris Park", c.FullName)
		assert.Equal(t, "(555) 987-6543", c.Phone)
	}
}

func TestExtract_FreeTextOneCandidatePerLine(t *testing.T) {
	body := `<html><body><p>Chris Park, Assistant Coach / Recruiting Coordinator</p></body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "Assistant Coach", result.Coaches[0].Title)
}

func TestExtract_MailtoLink(t *testing.T) {
	body := `<html><body>
		<div class="coach-item">
			<span class="title">Head Coach</span>
			<a href="mailto:coach.smith@school.edu?subject=Recruit">Email</a>
		</div>
	</body></html>`

	result := extract(t, body)
	require.Len(t, result.Coaches, 1)
	coach := result.Coaches[0]
	assert.Equal(t, "coach.smith@school.edu", coach.Email)
	assert.Equal(t, "coach.smith@school.edu", coach.FullName)
	assert.Empty(t, coach.FirstName)
	assert.Empty(t, coach.LastName)
}

func TestExtract_TitlelessElementsIgnored(t *testing.T) {
	body := `<html><body>
		<table><tr><td>Jane Doe</td><td>jane@school.edu</td></tr></table>
		<p>Ticket Office (555) 111-2222</p>
	</body></html>`

	result := extract(t, body)
	assert.Empty(t, result.Coaches)
	assert.True(t, result.UsedFallback)
}

func TestExtract_ScriptContentIgnored(t *testing.T) {
	body := `<html><head><title>Head Coach Search</title></head><body>
		<script>var x = "Head Coach Evil Name evil@x.com";</script>
		<p>Welcome</p>
	</body></html>`

	result := extract(t, body)
	assert.Empty(t, result.Coaches)
}

func TestExtract_CustomVocabulary(t *testing.T) {
	vocab, err := parser.NewVocabulary([]string{"Entrenador Principal", "Entrenador"})
	require.NoError(t, err)

	body := `<html><body><p>Luis Garcia — Entrenador Principal — luis@escuela.mx</p></body></html>`
	result, err := New(vocab).Extract(body)
	require.NoError(t, err)
	require.Len(t, result.Coaches, 1)
	assert.Equal(t, "Entrenador Principal", result.Coaches[0].Title)
	assert.Equal(t, "Luis Garcia", result.Coaches[0].FullName)
}

func TestExtract_EveryCandidateHasTitleAndIdentity(t *testing.T) {
	pages := []string{
		`<table><tr><td>Head Coach</td></tr><tr><td>Coach — a@b.edu</td></tr></table>`,
		`<div class="staff">Head Coach<br>(555) 123-4567</div>`,
		`<p>Coach</p><p>Coordinator Rita Moreno</p><p>nobody@school.edu</p>`,
	}
	for _, page := range pages {
		result := extract(t, page)
		for _, c := range result.Coaches {
			assert.NoError(t, parser.ValidateCandidate(&c), "page %q", page)
		}
	}
}

func TestAppendValidDropsInvalidCandidates(t *testing.T) {
	var candidates []models.CoachCandidate
	candidates = appendValid(candidates, models.CoachCandidate{FullName: "Jane Doe", Title: "Head Coach"})
	candidates = appendValid(candidates, models.CoachCandidate{FullName: "No Title"})
	candidates = appendValid(candidates, models.CoachCandidate{Title: "Assistant Coach"})
	candidates = appendValid(candidates, models.CoachCandidate{Email: "coach@school.edu", Title: "Assistant Coach"})

	require.Len(t, candidates, 2)
	assert.Equal(t, "Jane Doe", candidates[0].FullName)
	assert.Equal(t, "coach@school.edu", candidates[1].Email)
}

func TestDedupeIdempotent(t *testing.T) {
	input := []models.CoachCandidate{
		{FullName: "Jane Doe", Title: "Head Coach", Email: "first@school.edu"},
		{FullName: "Jane Doe", Title: "Head Coach", Email: "second@school.edu"},
		{FullName: "Jane Doe", Title: "Recruiting Coordinator"},
		{FullName: "jane doe", Title: "Head Coach"},
	}

	once := Dedupe(input)
	require.Len(t, once, 3)
	assert.Equal(t, "first@school.edu", once[0].Email)
	assert.Equal(t, once, Dedupe(once))
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name   string
		fields parser.Fields
		want   models.CoachCandidate
	}{
		{
			name:   "full name",
			fields: parser.Fields{Name: "Jane  Doe", Email: "jane@School.edu"},
			want:   models.CoachCandidate{FirstName: "Jane", LastName: "Doe", FullName: "Jane Doe", Title: "Head Coach", Email: "jane@school.edu", Strategy: "test"},
		},
		{
			name:   "single token",
			fields: parser.Fields{Name: "Smith"},
			want:   models.CoachCandidate{LastName: "Smith", FullName: "Smith", Title: "Head Coach", Strategy: "test"},
		},
		{
			name:   "email fallback",
			fields: parser.Fields{Email: "coach@school.edu"},
			want:   models.CoachCandidate{FullName: "coach@school.edu", Title: "Head Coach", Email: "coach@school.edu", Strategy: "test"},
		},
		{
			name:   "unknown",
			fields: parser.Fields{Phone: "555-123-4567"},
			want:   models.CoachCandidate{FullName: "Unknown", Title: "Head Coach", Phone: "555-123-4567", Strategy: "test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.fields, "Head Coach", "test"))
		})
	}
}

func TestVisibleText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<table><tr><td>Jane <strong>Doe</strong></td><td>Head Coach</td></tr></table>
		<style>.x{}</style>
		<ul><li>One</li><li>Two</li></ul>
	</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nHead Coach\nOne\nTwo", VisibleText(doc))
}
