// Package weather looks up current conditions from WeatherAPI.com.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const DefaultBaseURL = "https://api.weatherapi.com/v1"

var ErrNoCoordinates = errors.New("location has no coordinates")

type currentResponse struct {
	Location struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
		WindKph  float64 `json:"wind_kph"`
		Humidity int     `json:"humidity"`
	} `json:"current"`
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Current returns the weather at a location. Locations without coordinates
// are rejected with ErrNoCoordinates rather than sent to the API.
func (c *Client) Current(ctx context.Context, loc domain.GeoLocation) (*domain.Weather, error) {
	if !loc.HasCoordinates() {
		return nil, ErrNoCoordinates
	}
	q := strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
	return c.lookup(ctx, q)
}

func (c *Client) ByCity(ctx context.Context, city string) (*domain.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	return c.lookup(ctx, city)
}

func (c *Client) lookup(ctx context.Context, q string) (*domain.Weather, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", q)
	params.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather API: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close weather response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	icon := data.Current.Condition.Icon
	if strings.HasPrefix(icon, "//") {
		icon = "https:" + icon
	}
	return &domain.Weather{
		LocationName: data.Location.Name,
		Region:       data.Location.Region,
		TempC:        data.Current.TempC,
		Condition:    data.Current.Condition.Text,
		IconURL:      icon,
		WindKph:      data.Current.WindKph,
		Humidity:     data.Current.Humidity,
	}, nil
}
