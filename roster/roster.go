// Package roster loads the list of institutions a batch run scans.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-scrape-coaches/models"
)

var (
	// ErrEmptyRoster is returned when a roster file has no entries.
	ErrEmptyRoster = errors.New("roster: no institutions")

	validate = validator.New()
)

var requiredColumns = []string{"name", "division", "athletics_url"}

// Load reads institutions from path. The format follows the extension:
// .yaml/.yml, .json or .csv.
func Load(path string) ([]models.Institution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	var institutions []models.Institution
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		institutions, err = decodeYAML(f)
	case ".json":
		institutions, err = decodeJSON(f)
	case ".csv":
		institutions, err = decodeCSV(f)
	default:
		return nil, fmt.Errorf("roster %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}

	if err := Normalize(institutions); err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return institutions, nil
}

// Normalize fills derived IDs, canonicalises divisions and validates every
// entry in place.
func Normalize(institutions []models.Institution) error {
	if len(institutions) == 0 {
		return ErrEmptyRoster
	}

	seen := make(map[string]int, len(institutions))
	for i := range institutions {
		inst := &institutions[i]
		inst.Name = strings.TrimSpace(inst.Name)
		inst.AthleticsURL = strings.TrimSpace(inst.AthleticsURL)
		inst.State = strings.ToUpper(strings.TrimSpace(inst.State))
		if d, err := models.ParseDivision(string(inst.Division)); err == nil {
			inst.Division = d
		}

		if err := validate.Struct(inst); err != nil {
			return fmt.Errorf("entry %d (%s): %s", i+1, inst.Name, describe(err))
		}

		inst.ID = strings.TrimSpace(inst.ID)
		if inst.ID == "" {
			inst.ID = Slug(inst.Name)
		}
		if prev, ok := seen[inst.ID]; ok {
			return fmt.Errorf("entry %d (%s): duplicate id %q, first used by entry %d", i+1, inst.Name, inst.ID, prev+1)
		}
		seen[inst.ID] = i
	}
	return nil
}

// Filter keeps institutions in one of divisions (all when empty) and caps
// the result at limit entries when limit is positive.
func Filter(institutions []models.Institution, divisions []models.Division, limit int) []models.Institution {
	allowed := make(map[models.Division]bool, len(divisions))
	for _, d := range divisions {
		allowed[d] = true
	}

	out := make([]models.Institution, 0, len(institutions))
	for _, inst := range institutions {
		if len(allowed) > 0 && !allowed[inst.Division] {
			continue
		}
		out = append(out, inst)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Slug lowercases name and joins its alphanumeric runs with hyphens.
func Slug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '\'':
		default:
			pendingDash = true
		}
	}
	return b.String()
}

func decodeYAML(r io.Reader) ([]models.Institution, error) {
	var doc struct {
		Institutions []models.Institution `yaml:"institutions"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var list []models.Institution
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.Institutions, nil
}

func decodeJSON(r io.Reader) ([]models.Institution, error) {
	var list []models.Institution
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return list, nil
}

func decodeCSV(r io.Reader) ([]models.Institution, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRoster
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var list []models.Institution
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		list = append(list, models.Institution{
			ID:           field(record, "id"),
			Name:         field(record, "name"),
			Division:     models.Division(field(record, "division")),
			Conference:   field(record, "conference"),
			State:        field(record, "state"),
			AthleticsURL: field(record, "athletics_url"),
		})
	}
	return list, nil
}

func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return err.Error()
}
