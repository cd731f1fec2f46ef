package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

func withVegetation(values ...string) []domain.FieldRecord {
	var out []domain.FieldRecord
	for _, v := range values {
		out = append(out, domain.FieldRecord{Biophysical: domain.BiophysicalAttributes{VegetationType: v}})
	}
	return out
}

func withElevation(values ...string) []domain.FieldRecord {
	var out []domain.FieldRecord
	for _, v := range values {
		out = append(out, domain.FieldRecord{Biophysical: domain.BiophysicalAttributes{Elevation: v}})
	}
	return out
}

func TestAggregateCategoricalOrder(t *testing.T) {
	stats := Aggregate(withVegetation("Reed", "Reed", "", "Sedge"))

	assert.Equal(t, []string{"Reed", "Unknown", "Sedge"}, stats.Vegetation.Keys())
	assert.Equal(t, 2, stats.Vegetation.Get("Reed"))
	assert.Equal(t, 1, stats.Vegetation.Get("Unknown"))
	assert.Equal(t, 1, stats.Vegetation.Get("Sedge"))
	assert.Equal(t, 4, stats.Conservation.Get("Unknown"))
}

func TestAggregateElevationSummary(t *testing.T) {
	stats := Aggregate(withElevation("100", "abc", "0", "300"))

	require.NotNil(t, stats.Elevation)
	assert.InDelta(t, 200, stats.Elevation.Avg, 1e-9)
	assert.InDelta(t, 100, stats.Elevation.Min, 1e-9)
	assert.InDelta(t, 300, stats.Elevation.Max, 1e-9)
}

func TestAggregateElevationAbsent(t *testing.T) {
	stats := Aggregate(withElevation("", "n/a", "-5"))

	assert.Nil(t, stats.Elevation)
	assert.Zero(t, stats.ElevationRange.Len())
}

func TestAggregateElevationBuckets(t *testing.T) {
	stats := Aggregate(withElevation("50", "150", "750", "1500", "x"))

	assert.Equal(t, []string{"0-100m", "100-500m", "500-1000m", "1000m+"}, stats.ElevationRange.Keys())
	for _, k := range stats.ElevationRange.Keys() {
		assert.Equal(t, 1, stats.ElevationRange.Get(k), k)
	}
}

func TestAggregateImpactPresence(t *testing.T) {
	records := []domain.FieldRecord{
		{Impacts: &domain.PhaseImpacts{Pollution: "Low", FloodPeaks: "   "}},
		{Impacts: nil},
		{Impacts: &domain.PhaseImpacts{RunoffHardSurfaces: "High", Pollution: "Medium"}},
	}
	stats := Aggregate(records)

	assert.Equal(t, []string{"Pollution", "Runoff Hard Surfaces"}, stats.Impacts.Keys())
	assert.Equal(t, 2, stats.Impacts.Get("Pollution"))
	assert.Equal(t, 0, stats.Impacts.Get("Unknown"))
}

func TestAggregateSingleImpact(t *testing.T) {
	stats := Aggregate([]domain.FieldRecord{{Impacts: &domain.PhaseImpacts{Pollution: "Low"}}})

	assert.Equal(t, []string{"Pollution"}, stats.Impacts.Keys())
}

func TestAggregateTotals(t *testing.T) {
	records := []domain.FieldRecord{
		{Images: []domain.Image{{URL: "a"}, {URL: "b"}}},
		{},
		{Images: []domain.Image{{URL: "c"}}},
	}
	stats := Aggregate(records)

	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 3, stats.TotalImages)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Zero(t, stats.TotalEntries)
	assert.Nil(t, stats.Elevation)
	assert.Zero(t, stats.Vegetation.Len())
}

func TestParseElevation(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{" 150m", 150, true},
		{"1.2e3", 1200, true},
		{".5", 0.5, true},
		{"0", 0, false},
		{"-10", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"Infinity", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseElevation(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestHumanizeKey(t *testing.T) {
	assert.Equal(t, "Runoff Hard Surfaces", HumanizeKey("runoffHardSurfaces"))
	assert.Equal(t, "Pollution", HumanizeKey("pollution"))
	assert.Equal(t, "Weeds I A P", HumanizeKey("weedsIAP"))
	assert.Equal(t, "", HumanizeKey(""))
}

func TestStatsJSONKeepsOrder(t *testing.T) {
	stats := Aggregate(withVegetation("Sedge", "Reed", "Sedge"))

	b, err := json.Marshal(stats)
	require.NoError(t, err)

	var decoded struct {
		Vegetation json.RawMessage `json:"vegetation"`
		Elevation  json.RawMessage `json:"elevation"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, `{"Sedge":2,"Reed":1}`, string(decoded.Vegetation))
	assert.Nil(t, decoded.Elevation)
}
