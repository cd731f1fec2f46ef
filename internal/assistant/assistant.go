// Package assistant defines the AI consultant that answers questions about a
// project's field data, plus the prompt all backends share.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// Assistant streams an answer to prompt. The returned channel is closed when
// the answer is complete, ctx is cancelled or the stream fails; a failure is
// delivered as a final Chunk with Err set.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// WebSearcher is implemented by backends that ground answers with their own
// web search.
type WebSearcher interface {
	SearchesWeb() bool
}

type Chunk struct {
	Text string
	Err  error
}

var ErrNotConfigured = errors.New("assistant backend is not configured")

// Unconfigured answers every question with ErrNotConfigured. It stands in
// when the selected backend has no credentials so the rest of the app still
// runs.
type Unconfigured struct {
	Backend string
}

func (u Unconfigured) Ask(context.Context, string) (<-chan Chunk, error) {
	return nil, fmt.Errorf("%s: %w", u.Backend, ErrNotConfigured)
}

// Collect drains a stream into a single string.
func Collect(ch <-chan Chunk) (string, error) {
	var b strings.Builder
	for c := range ch {
		if c.Err != nil {
			return b.String(), c.Err
		}
		b.WriteString(c.Text)
	}
	return b.String(), nil
}

type PromptInput struct {
	ClientName  string
	ProjectName string
	Records     []domain.FieldRecord
	Question    string
	WebSearch   bool
}

// BuildPrompt renders the consultant prompt with a short summary line block
// per field record.
func BuildPrompt(in PromptInput) string {
	var summary strings.Builder
	for _, r := range in.Records {
		pollution, weeds := "N/A", "N/A"
		if r.Impacts != nil {
			if r.Impacts.Pollution != "" {
				pollution = r.Impacts.Pollution
			}
			if r.Impacts.WeedsIAP != "" {
				weeds = r.Impacts.WeedsIAP
			}
		}
		fmt.Fprintf(&summary, "- Entry on %s:\n", time.UnixMilli(r.CreatedAt).UTC().Format("2006-01-02"))
		fmt.Fprintf(&summary, "  Location: %s (%g, %g)\n", r.Location.Description, r.Location.Lat, r.Location.Lng)
		fmt.Fprintf(&summary, "  Elevation: %sm\n", r.Biophysical.Elevation)
		fmt.Fprintf(&summary, "  Ecoregion: %s\n", r.Biophysical.Ecoregion)
		fmt.Fprintf(&summary, "  Vegetation: %s\n", r.Biophysical.VegetationType)
		fmt.Fprintf(&summary, "  Impacts: Pollution - %s, Weeds - %s\n", pollution, weeds)
	}
	data := summary.String()
	if data == "" {
		data = "No field data available yet.\n"
	}

	guidance := "Use the provided data and your knowledge for additional context."
	if in.WebSearch {
		guidance = "Use the provided data and search the web for additional context if needed."
	}

	var b strings.Builder
	b.WriteString("You are an expert environmental science consultant AI.\n")
	b.WriteString("Your task is to provide insights on field data for a client project.\n")
	b.WriteString(guidance + "\n")
	b.WriteString("Be concise, professional, and helpful.\n\n")
	fmt.Fprintf(&b, "Client: %s\n", in.ClientName)
	fmt.Fprintf(&b, "Project: %s\n\n", in.ProjectName)
	b.WriteString("Project Field Data Summary:\n")
	b.WriteString(data)
	fmt.Fprintf(&b, "\nUser Query: %q\n\n", in.Question)
	b.WriteString("Your analysis:\n")
	return b.String()
}
