package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/jlu5/multiweather"
)

// DefaultOpenMeteoURL is the Open-Meteo geocoding search endpoint. The service
// requires no API key.
const DefaultOpenMeteoURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoResolver resolves place names through the Open-Meteo geocoding API.
type OpenMeteoResolver struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

// OpenMeteoOption customizes an OpenMeteoResolver.
type OpenMeteoOption func(*OpenMeteoResolver)

// WithBaseURL overrides the geocoding endpoint, mainly for tests.
func WithBaseURL(u string) OpenMeteoOption {
	return func(r *OpenMeteoResolver) { r.baseURL = u }
}

// WithHTTPClient overrides the HTTP client used for lookups. A nil client
// keeps the default.
func WithHTTPClient(c *http.Client) OpenMeteoOption {
	return func(r *OpenMeteoResolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithLogger enables debug logging of request URLs.
func WithLogger(l *zap.SugaredLogger) OpenMeteoOption {
	return func(r *OpenMeteoResolver) { r.logger = l }
}

// NewOpenMeteo creates a resolver backed by the Open-Meteo geocoding API.
func NewOpenMeteo(opts ...OpenMeteoOption) *OpenMeteoResolver {
	r := &OpenMeteoResolver{
		baseURL: DefaultOpenMeteoURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best match for the place name. The country qualifier is
// appended to the query when present; Open-Meteo's search ranks matches
// itself, so the first result is taken.
func (r *OpenMeteoResolver) Resolve(ctx context.Context, name, country string) (float64, float64, error) {
	query := name
	if country != "" {
		query = name + "," + country
	}

	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "1")
	values.Set("format", "json")
	values.Set("language", "en")

	u := fmt.Sprintf("%s?%s", r.baseURL, values.Encode())
	if r.logger != nil {
		r.logger.Debugw("geocoding place name", "url", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, 0, &multiweather.UpstreamError{Provider: "Open-Meteo geocoding", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, &multiweather.UpstreamError{
			Provider: "Open-Meteo geocoding",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status"),
		}
	}

	var payload struct {
		Error   bool   `json:"error"`
		Reason  string `json:"reason"`
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, &multiweather.UpstreamError{Provider: "Open-Meteo geocoding", Err: err}
	}

	if payload.Error {
		return 0, 0, &multiweather.UpstreamError{
			Provider: "Open-Meteo geocoding",
			Err:      fmt.Errorf("%s", payload.Reason),
		}
	}
	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("%w: no results for %q", multiweather.ErrLocationNotFound, query)
	}

	return payload.Results[0].Latitude, payload.Results[0].Longitude, nil
}
