package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/jlu5/multiweather"
)

const googleGeocoderName = "Google geocoding"

// GoogleResolver resolves place names through the Google Maps geocoding API.
// A Google API key is required.
type GoogleResolver struct{}

// NewGoogle creates a Google Maps backed resolver. The key is installed into
// the underlying geocoder package, which holds it globally; constructing two
// resolvers with different keys is not supported.
func NewGoogle(apiKey string) (*GoogleResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: google geocoder", multiweather.ErrAuthenticationRequired)
	}
	geocoder.ApiKey = apiKey
	return &GoogleResolver{}, nil
}

// Resolve returns the best match for the place name. The geocoder package
// offers no context plumbing, so ctx only gates entry.
func (r *GoogleResolver) Resolve(ctx context.Context, name, country string) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	address := geocoder.Address{City: name, Country: country}
	loc, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, classifyGeocodingError(name, err)
	}
	return loc.Latitude, loc.Longitude, nil
}

// classifyGeocodingError separates "no match" results from transport and API
// failures. The geocoder package reports everything as a flat error, so
// classification goes by shape: a url.Error covers the HTTP round trip, and
// the Google status ZERO_RESULTS (or the package's own "no results" wording)
// means the place name simply did not match. Anything else is an upstream
// failure.
func classifyGeocodingError(name string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &multiweather.UpstreamError{Provider: googleGeocoderName, Err: err}
	}
	msg := strings.ToUpper(err.Error())
	if strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NO RESULTS") {
		return fmt.Errorf("%w: no results for %q", multiweather.ErrLocationNotFound, name)
	}
	return &multiweather.UpstreamError{Provider: googleGeocoderName, Err: err}
}
