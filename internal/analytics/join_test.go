package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

func doc(key, data string) docstore.Doc {
	return docstore.Doc{Key: key, Data: json.RawMessage(data)}
}

func TestJoinPairsByKey(t *testing.T) {
	bio := []docstore.Doc{
		doc("k1", `{"elevation":"120","vegetationType":"Reed","location":"Bank","timestamp":1700000000000}`),
		doc("k2", `{"elevation":"80"}`),
		doc("k3", `{}`),
	}
	imp := []docstore.Doc{
		doc("k1", `{"pollution":"Low"}`),
		doc("k3", `{}`),
		doc("orphan", `{"pollution":"High"}`),
	}

	records := Join("p1", "u1", bio, imp)
	require.Len(t, records, 3)

	assert.Equal(t, "k1", records[0].ID)
	assert.Equal(t, "p1", records[0].ProjectID)
	assert.Equal(t, "u1", records[0].OwnerID)
	assert.Equal(t, "Reed", records[0].Biophysical.VegetationType)
	assert.Equal(t, "Bank", records[0].Location.Description)
	assert.Equal(t, int64(1700000000000), records[0].CreatedAt)
	require.NotNil(t, records[0].Impacts)
	assert.Equal(t, "Low", records[0].Impacts.Pollution)

	assert.Nil(t, records[1].Impacts, "no impacts row is absent, not blank")

	require.NotNil(t, records[2].Impacts, "an empty impacts row is still present")
	assert.Equal(t, domain.PhaseImpacts{}, *records[2].Impacts)
}

func TestJoinDefaults(t *testing.T) {
	records := Join("p", "u", []docstore.Doc{doc("k", `{}`)}, nil)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, domain.BiophysicalAttributes{}, r.Biophysical)
	assert.Equal(t, domain.GeoLocation{}, r.Location)
	assert.Empty(t, r.Images)
	assert.Zero(t, r.CreatedAt)
}

func TestJoinShortKeys(t *testing.T) {
	records := Join("p", "u", []docstore.Doc{
		doc("a", `{"map":"800mm","rainfall":"Summer","fepa":"Wetland"}`),
		doc("b", `{"meanAnnualPrecipitation":"600mm","rainfallSeasonality":"Winter","fepaFeatures":"River"}`),
	}, nil)

	assert.Equal(t, "800mm", records[0].Biophysical.MeanAnnualPrecipitation)
	assert.Equal(t, "Summer", records[0].Biophysical.RainfallSeasonality)
	assert.Equal(t, "Wetland", records[0].Biophysical.FepaFeatures)
	assert.Equal(t, "600mm", records[1].Biophysical.MeanAnnualPrecipitation)
	assert.Equal(t, "River", records[1].Biophysical.FepaFeatures)
}

func TestJoinToleratesOddShapes(t *testing.T) {
	records := Join("p", "u", []docstore.Doc{
		doc("a", `"not an object"`),
		doc("b", `{"elevation":350,"images":"nope"}`),
		doc("c", `{"images":[{"url":"https://x/1.jpg","name":"1.jpg"},{"name":"no url"}]}`),
	}, nil)
	require.Len(t, records, 3)

	assert.Equal(t, "350", records[1].Biophysical.Elevation)
	assert.Empty(t, records[1].Images)
	assert.Equal(t, []domain.Image{{URL: "https://x/1.jpg", Name: "1.jpg"}, {Name: "no url"}}, records[2].Images)
	assert.Equal(t, 2, Aggregate(records).TotalImages)
}
