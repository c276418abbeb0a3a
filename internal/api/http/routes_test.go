package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jlu5/multiweather"
)

// stubBackend is a canned multiweather.Backend for handler tests.
type stubBackend struct {
	name      string
	maxDays   int
	geocoding bool
	resp      *multiweather.Response
	err       error
}

func (s *stubBackend) Name() string            { return s.name }
func (s *stubBackend) MaxForecastDays() int    { return s.maxDays }
func (s *stubBackend) SupportsGeocoding() bool { return s.geocoding }

func (s *stubBackend) GetWeather(ctx context.Context, loc multiweather.Location, days int) (*multiweather.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubBackend) GetWeatherAsync(ctx context.Context, loc multiweather.Location, days int) <-chan multiweather.Result {
	ch := make(chan multiweather.Result, 1)
	resp, err := s.GetWeather(ctx, loc, days)
	ch <- multiweather.Result{Response: resp, Err: err}
	return ch
}

func newTestApp(backends map[string]multiweather.Backend) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, backends, "stub")
	return app
}

func TestWeatherEndpoint(t *testing.T) {
	temp := multiweather.TempC(18.3)
	stub := &stubBackend{
		name: "Stub Provider",
		resp: &multiweather.Response{
			Provider: "Stub Provider",
			Current:  multiweather.Conditions{Summary: "Sunny", Temperature: &temp},
		},
	}
	app := newTestApp(map[string]multiweather.Backend{"stub": stub})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=52.52&lon=13.405", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body multiweather.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Provider != "Stub Provider" {
		t.Fatalf("expected provider %q, got %q", "Stub Provider", body.Provider)
	}
	if body.Current.Summary != "Sunny" {
		t.Fatalf("expected summary %q, got %q", "Sunny", body.Current.Summary)
	}
}

func TestWeatherEndpointValidation(t *testing.T) {
	app := newTestApp(map[string]multiweather.Backend{"stub": &stubBackend{}})

	cases := []string{
		"/api/v1/weather",                             // no location at all
		"/api/v1/weather?lat=52.52",                   // missing lon
		"/api/v1/weather?lat=91&lon=0",                // latitude out of range
		"/api/v1/weather?lat=52.52&lon=13.4&days=-1",  // negative days
		"/api/v1/weather?lat=abc&lon=13.4",            // unparsable latitude
		"/api/v1/weather?provider=nope&lat=1&lon=2",   // unknown provider
		"/api/v1/weather?lat=52.52&lon=13.4&days=abc", // unparsable days
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", url, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", url, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestWeatherEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: no results", multiweather.ErrLocationNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: no geocoding", multiweather.ErrUnsupportedFeature), http.StatusBadRequest},
		{fmt.Errorf("%w: bad coords", multiweather.ErrInvalidLocation), http.StatusBadRequest},
		{&multiweather.UpstreamError{Provider: "stub", Status: 500, Err: fmt.Errorf("boom")}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		app := newTestApp(map[string]multiweather.Backend{"stub": &stubBackend{err: tc.err}})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=52.52&lon=13.405", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Errorf("error %v: expected status %d, got %d", tc.err, tc.status, resp.StatusCode)
		}
	}
}

func TestProvidersEndpoint(t *testing.T) {
	app := newTestApp(map[string]multiweather.Backend{
		"stub":  &stubBackend{name: "Stub Provider", maxDays: 7, geocoding: true},
		"other": &stubBackend{name: "Other Provider"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Providers []struct {
			ID                string `json:"id"`
			Name              string `json:"name"`
			MaxForecastDays   int    `json:"max_forecast_days"`
			SupportsGeocoding bool   `json:"supports_geocoding"`
		} `json:"providers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(body.Providers))
	}
	// Sorted by id.
	if body.Providers[0].ID != "other" || body.Providers[1].ID != "stub" {
		t.Fatalf("unexpected provider order: %+v", body.Providers)
	}
	if body.Providers[1].MaxForecastDays != 7 || !body.Providers[1].SupportsGeocoding {
		t.Fatalf("unexpected capabilities: %+v", body.Providers[1])
	}
}

func TestWeatherEndpointPlaceName(t *testing.T) {
	stub := &stubBackend{
		name:      "Stub Provider",
		geocoding: true,
		resp:      &multiweather.Response{Provider: "Stub Provider"},
	}
	app := newTestApp(map[string]multiweather.Backend{"stub": stub})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?place=Berlin&country=DE", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
