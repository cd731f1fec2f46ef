package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func countsOf(keys ...string) Counts {
	var c Counts
	for _, k := range keys {
		c.Add(k)
	}
	return c
}

func TestSeriesKeepsInsertionOrder(t *testing.T) {
	c := countsOf("Sedge", "Reed", "Reed", "Grass")

	want := []Point{{"Sedge", 1}, {"Reed", 2}, {"Grass", 1}}
	if diff := cmp.Diff(want, Series(c)); diff != "" {
		t.Errorf("Series mismatch (-want +got):\n%s", diff)
	}
}

func TestSeriesIsIdempotent(t *testing.T) {
	c := countsOf("b", "a", "b")

	if diff := cmp.Diff(Series(c), Series(c)); diff != "" {
		t.Errorf("Series not idempotent:\n%s", diff)
	}
}

func TestSeriesEmpty(t *testing.T) {
	assert.Empty(t, Series(Counts{}))
}

func TestConservationSeriesColors(t *testing.T) {
	c := countsOf("Least Concern", "Endangered", "Unknown", "Critically Rare", "Vulnerable", "Near Threatened")

	want := []ColoredPoint{
		{"Least Concern", 1, "#22c55e"},
		{"Endangered", 1, "#ef4444"},
		{"Unknown", 1, "#6b7280"},
		{"Critically Rare", 1, "#6b7280"},
		{"Vulnerable", 1, "#f97316"},
		{"Near Threatened", 1, "#eab308"},
	}
	if diff := cmp.Diff(want, ConservationSeries(c)); diff != "" {
		t.Errorf("ConservationSeries mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCharts(t *testing.T) {
	stats := Aggregate(withVegetation("Reed"))
	charts := BuildCharts(stats)

	assert.Equal(t, []Point{{"Reed", 1}}, charts.Vegetation)
	assert.Equal(t, []ColoredPoint{{"Unknown", 1, "#6b7280"}}, charts.Conservation)
	assert.Empty(t, charts.Impacts)
}
