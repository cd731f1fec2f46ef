package analytics

import (
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// Filter keeps the records whose location description or vegetation type
// contains term, ignoring case. An empty term keeps everything.
func Filter(records []domain.FieldRecord, term string) []domain.FieldRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]domain.FieldRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Location.Description), term) ||
			strings.Contains(strings.ToLower(r.Biophysical.VegetationType), term) {
			out = append(out, r)
		}
	}
	return out
}
