package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

func TestBuildPromptSummarizesRecords(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		ClientName:  "Eco Solutions",
		ProjectName: "River Survey",
		Question:    "Which sites are most degraded?",
		Records: []domain.FieldRecord{
			{
				CreatedAt:   1700000000000,
				Location:    domain.GeoLocation{Lat: -29.5, Lng: 30.25, Description: "Bank"},
				Biophysical: domain.BiophysicalAttributes{Elevation: "120", Ecoregion: "Highveld", VegetationType: "Reed"},
				Impacts:     &domain.PhaseImpacts{Pollution: "High"},
			},
			{Location: domain.GeoLocation{Description: "Hill"}},
		},
	})

	assert.Contains(t, prompt, "You are an expert environmental science consultant AI.")
	assert.Contains(t, prompt, "Client: Eco Solutions")
	assert.Contains(t, prompt, "Project: River Survey")
	assert.Contains(t, prompt, "- Entry on 2023-11-14:")
	assert.Contains(t, prompt, "Location: Bank (-29.5, 30.25)")
	assert.Contains(t, prompt, "Elevation: 120m")
	assert.Contains(t, prompt, "Impacts: Pollution - High, Weeds - N/A")
	assert.Contains(t, prompt, "Impacts: Pollution - N/A, Weeds - N/A")
	assert.Contains(t, prompt, `User Query: "Which sites are most degraded?"`)
	assert.Contains(t, prompt, "your knowledge")
}

func TestBuildPromptWithoutRecords(t *testing.T) {
	prompt := BuildPrompt(PromptInput{ClientName: "A", ProjectName: "B", Question: "q", WebSearch: true})

	assert.Contains(t, prompt, "No field data available yet.")
	assert.Contains(t, prompt, "search the web")
}

func TestCollect(t *testing.T) {
	ch := make(chan Chunk, 3)
	ch <- Chunk{Text: "Hello, "}
	ch <- Chunk{Text: "world"}
	close(ch)

	text, err := Collect(ch)
	assert.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
}

func TestCollectStopsAtError(t *testing.T) {
	ch := make(chan Chunk, 3)
	ch <- Chunk{Text: "partial"}
	ch <- Chunk{Err: errors.New("boom")}
	close(ch)

	text, err := Collect(ch)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, "partial", text)
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{Backend: "gemini"}.Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
