package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const sampleResponse = `{
  "location": {"name": "Pietermaritzburg", "region": "KwaZulu-Natal", "country": "South Africa"},
  "current": {"temp_c": 24.5, "condition": {"text": "Sunny", "icon": "//cdn.weatherapi.com/113.png", "code": 1000},
              "wind_kph": 11.2, "humidity": 40}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("k", srv.URL+"/", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "-29.6,30.38", r.URL.Query().Get("q"))
		assert.Equal(t, "no", r.URL.Query().Get("aqi"))
		fmt.Fprint(w, sampleResponse)
	})

	w, err := c.Current(context.Background(), domain.GeoLocation{Lat: -29.6, Lng: 30.38})
	require.NoError(t, err)
	assert.Equal(t, &domain.Weather{
		LocationName: "Pietermaritzburg",
		Region:       "KwaZulu-Natal",
		TempC:        24.5,
		Condition:    "Sunny",
		IconURL:      "https://cdn.weatherapi.com/113.png",
		WindKph:      11.2,
		Humidity:     40,
	}, w)
}

func TestCurrentSkipsMissingCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API must not be called")
	})

	_, err := c.Current(context.Background(), domain.GeoLocation{Description: "somewhere"})
	assert.ErrorIs(t, err, ErrNoCoordinates)
}

func TestByCity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Durban North", r.URL.Query().Get("q"))
		fmt.Fprint(w, sampleResponse)
	})

	w, err := c.ByCity(context.Background(), "  Durban North ")
	require.NoError(t, err)
	assert.Equal(t, "Sunny", w.Condition)

	_, err = c.ByCity(context.Background(), " ")
	assert.Error(t, err)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":2006,"message":"API key is invalid."}}`, http.StatusUnauthorized)
	})

	_, err := c.ByCity(context.Background(), "Durban")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
