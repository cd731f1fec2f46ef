package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/analytics"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFailMapsServiceErrors(t *testing.T) {
	s := &Server{logger: discardLogger()}
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", fmt.Errorf("%w: company name is required", service.ErrValidation), http.StatusBadRequest, "company name is required"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("project p1: %w", service.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not found"},
		{"assistant off", fmt.Errorf("groq: %w", assistant.ErrNotConfigured), http.StatusServiceUnavailable, "not configured"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "failed to save client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.fail(w, tt.err, "save client")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}
}

func TestPercent(t *testing.T) {
	points := []analytics.Point{{Name: "a", Value: 4}, {Name: "b", Value: 2}}
	assert.Equal(t, 100, percent(4, points))
	assert.Equal(t, 50, percent(2, points))

	colored := []analytics.ColoredPoint{{Name: "x", Value: 3}}
	assert.Equal(t, 100, percent(3, colored))

	assert.Equal(t, 0, percent(1, []analytics.Point{}))
	assert.Equal(t, 0, percent(1, "not a series"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "N/A", formatDate(0))
	assert.Equal(t, "2025-03-01", formatDate(1740830400000))
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse := newSSEWriter(w)

	require.NoError(t, sse.send("", chunkEvent{Text: "Hel"}))
	require.NoError(t, sse.send("error", errorEvent{Error: "boom"}))
	require.NoError(t, sse.comment("keep-alive"))
	require.NoError(t, sse.send("done", struct{}{}))

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t,
		"data: {\"text\":\"Hel\"}\n\n"+
			"event: error\ndata: {\"error\":\"boom\"}\n\n"+
			": keep-alive\n\n"+
			"event: done\ndata: {}\n\n",
		w.Body.String())
	assert.True(t, w.Flushed)
}

func TestRecordFromForm(t *testing.T) {
	r := multipartRequest(t, map[string]string{
		"lat":            "-25.75",
		"lng":            "not a number",
		"description":    " Wetland edge ",
		"vegetationType": "Reed",
		"elevation":      "1200",
		"pollution":      "High",
	})
	r.SetPathValue("rid", "r1")

	rec := recordFromForm(r)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, -25.75, rec.Location.Lat)
	assert.Zero(t, rec.Location.Lng)
	assert.Equal(t, "Wetland edge", rec.Location.Description)
	assert.Equal(t, "Reed", rec.Biophysical.VegetationType)
	assert.Equal(t, "1200", rec.Biophysical.Elevation)
	require.NotNil(t, rec.Impacts)
	assert.Equal(t, "High", rec.Impacts.Pollution)
}

func TestAttachmentHeader(t *testing.T) {
	w := httptest.NewRecorder()
	attachment(w, "application/pdf", `Report "Ünïcode".pdf`)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="Report __n_code_.pdf"; filename*=UTF-8''Report%20%22%C3%9Cn%C3%AFcode%22.pdf`,
		w.Header().Get("Content-Disposition"))
}
