package analytics

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// NormalizeLocation converts any stored location representation into a
// GeoLocation. A plain string becomes the description with zero coordinates,
// an object keeps whatever lat, lng and description it has, and anything else
// yields the zero location. It never fails.
func NormalizeLocation(raw json.RawMessage) domain.GeoLocation {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return domain.GeoLocation{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.GeoLocation{Description: s}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.GeoLocation{}
	}
	return domain.GeoLocation{
		Lat:         numberField(obj["lat"]),
		Lng:         numberField(obj["lng"]),
		Description: stringField(obj["description"]),
	}
}

// numberField reads a JSON number or numeric string, returning 0 otherwise.
func numberField(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// stringField reads a JSON string, or the literal text of a number. Any other
// value, including null and an absent field, reads as "".
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
