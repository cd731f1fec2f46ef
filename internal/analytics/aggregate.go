package analytics

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const unknownCategory = "Unknown"

// NumericSummary is absent (nil) on Stats when no value could be parsed.
type NumericSummary struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Stats struct {
	TotalEntries   int             `json:"totalEntries"`
	TotalImages    int             `json:"totalImages"`
	Vegetation     Counts          `json:"vegetation"`
	Conservation   Counts          `json:"conservation"`
	Impacts        Counts          `json:"impacts"`
	ElevationRange Counts          `json:"elevationRange"`
	Elevation      *NumericSummary `json:"elevation,omitempty"`
}

// Aggregate folds records into summary statistics in a single pass.
func Aggregate(records []domain.FieldRecord) Stats {
	stats := Stats{TotalEntries: len(records)}

	var (
		sum   float64
		valid int
	)
	for _, r := range records {
		stats.TotalImages += len(r.Images)
		stats.Vegetation.Add(categoryOrUnknown(r.Biophysical.VegetationType))
		stats.Conservation.Add(categoryOrUnknown(r.Biophysical.ConservationStatus))

		if r.Impacts != nil {
			for _, f := range r.Impacts.Fields() {
				if strings.TrimSpace(f.Value) != "" {
					stats.Impacts.Add(HumanizeKey(f.Name))
				}
			}
		}

		elevation, ok := ParseElevation(r.Biophysical.Elevation)
		if !ok {
			continue
		}
		stats.ElevationRange.Add(ElevationBucket(elevation))
		if valid == 0 {
			stats.Elevation = &NumericSummary{Min: elevation, Max: elevation}
		}
		stats.Elevation.Min = min(stats.Elevation.Min, elevation)
		stats.Elevation.Max = max(stats.Elevation.Max, elevation)
		sum += elevation
		valid++
	}
	if valid > 0 {
		stats.Elevation.Avg = sum / float64(valid)
	}
	return stats
}

func categoryOrUnknown(v string) string {
	if v == "" {
		return unknownCategory
	}
	return v
}

// ParseElevation reads the leading decimal number of s, so "150m" reads as
// 150. Values that do not start with a number, are not positive or overflow
// to infinity ("Infinity", "1e400") are rejected.
func ParseElevation(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := numericPrefix(s)
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal number with optional sign, fraction and exponent.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ElevationBucket classifies a positive elevation in metres.
func ElevationBucket(v float64) string {
	switch {
	case v < 100:
		return "0-100m"
	case v < 500:
		return "100-500m"
	case v < 1000:
		return "500-1000m"
	default:
		return "1000m+"
	}
}

// HumanizeKey turns a camelCase field name into a label by putting a space
// before every uppercase letter and capitalizing the first letter, so
// runoffHardSurfaces becomes "Runoff Hard Surfaces".
func HumanizeKey(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
