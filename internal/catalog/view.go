package catalog

import (
	"strings"

	"localpix/gallery-api/internal/model"
)

// AllCategories is the sentinel that disables category filtering.
const AllCategories = "All"

// Filter derives the display projection of a catalog: records passing
// both the category filter (exact, case-sensitive match unless the "All"
// sentinel is active) and the text filter (lowercased substring of the
// name, the category or any tag; an empty term passes everything).
// Pure function, input order is preserved.
func Filter(records []model.MediaRecord, search, category string) []model.MediaRecord {
	term := strings.ToLower(search)
	out := make([]model.MediaRecord, 0, len(records))

	for _, r := range records {
		if category != AllCategories && category != "" && r.Category != category {
			continue
		}

		if term != "" && !matches(r, term) {
			continue
		}

		out = append(out, r)
	}

	return out
}

func matches(r model.MediaRecord, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}

	if strings.Contains(strings.ToLower(r.Category), term) {
		return true
	}

	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}

	return false
}

// Categories returns the "All" sentinel followed by the distinct
// non-empty categories in first-seen order.
func Categories(records []model.MediaRecord) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}

	for _, r := range records {
		if r.Category == "" || seen[r.Category] {
			continue
		}

		seen[r.Category] = true
		out = append(out, r.Category)
	}

	return out
}
