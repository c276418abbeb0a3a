// Package backends contains the per-provider adapters implementing the
// multiweather.Backend interface. Each adapter knows one provider's endpoint,
// authentication convention and response schema, and maps that schema into the
// normalized multiweather.Response.
package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jlu5/multiweather"
	"github.com/jlu5/multiweather/geocode"
)

// Config carries the construction-time options shared by every adapter. It is
// immutable for the adapter's lifetime.
type Config struct {
	// APIKey is the provider credential. Adapters that require one fail fast
	// at construction when it is empty.
	APIKey string

	// BaseURL overrides the provider's weather endpoint, mainly for tests and
	// self-hosted instances.
	BaseURL string

	// Units is the caller's preferred display unit system. Stored values are
	// normalized regardless; this only informs rendering.
	Units multiweather.UnitSystem

	// HTTPClient overrides the client used for outbound calls. Defaults to
	// http.DefaultClient: the library imposes no timeouts of its own.
	HTTPClient *http.Client

	// Logger, when set, logs outbound request URLs at debug level.
	Logger *zap.SugaredLogger

	// Resolver supplies external geocoding for adapters without a native
	// geocoding endpoint.
	Resolver geocode.Resolver
}

// client bundles the HTTP mechanics shared by all adapters. One GET per call,
// status check, atomic decode of the full body.
type client struct {
	name   string
	http   *http.Client
	logger *zap.SugaredLogger
}

func newClient(name string, cfg Config) client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return client{name: name, http: hc, logger: cfg.Logger}
}

// getJSON issues a single GET and decodes the body into out. Transport
// failures, non-2xx statuses and undecodable bodies all surface as
// *multiweather.UpstreamError.
func (c client) getJSON(ctx context.Context, url string, out any) error {
	if c.logger != nil {
		c.logger.Debugw("requesting weather data", "provider", c.name, "url", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &multiweather.UpstreamError{Provider: c.name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &multiweather.UpstreamError{Provider: c.name, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &multiweather.UpstreamError{
			Provider: c.name,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &multiweather.UpstreamError{Provider: c.name, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// async runs the blocking fetch on its own goroutine and delivers the single
// result on a buffered channel. Both calling conventions share the same
// validation and mapping path.
func async(fetch func() (*multiweather.Response, error)) <-chan multiweather.Result {
	ch := make(chan multiweather.Result, 1)
	go func() {
		resp, err := fetch()
		ch <- multiweather.Result{Response: resp, Err: err}
	}()
	return ch
}

// resolveCoords validates the location and produces final coordinates,
// geocoding place names through resolve. A nil resolve means the adapter
// cannot geocode, and place names fail before any network call.
func resolveCoords(
	ctx context.Context,
	loc multiweather.Location,
	resolve func(ctx context.Context, name, country string) (float64, float64, error),
	provider string,
) (float64, float64, error) {
	if err := loc.Validate(); err != nil {
		return 0, 0, err
	}
	if loc.IsCoordinates() {
		return loc.Lat, loc.Lon, nil
	}
	if resolve == nil {
		return 0, 0, fmt.Errorf("%w: %s does not support geocoding place names", multiweather.ErrUnsupportedFeature, provider)
	}
	return resolve(ctx, loc.Name, loc.Country)
}

// checkForecastDays enforces the adapter's documented forecast horizon before
// any network call.
func checkForecastDays(days, max int, provider string) error {
	if days < 0 {
		return fmt.Errorf("%w: negative forecast days", multiweather.ErrUnsupportedFeature)
	}
	if days > max {
		return fmt.Errorf("%w: %s supports at most %d forecast days, got %d",
			multiweather.ErrUnsupportedFeature, provider, max, days)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// unixTime converts epoch seconds into the given zone, returning nil for the
// zero value so absent provider timestamps stay absent.
func unixTime(sec int64, tz *time.Location) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).In(tz)
	return &t
}
