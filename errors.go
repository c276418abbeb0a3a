package multiweather

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all backends. Callers classify failures with
// errors.Is against these sentinels; UpstreamError additionally exposes the
// HTTP status and cause via errors.As.
var (
	// ErrInvalidLocation reports a malformed location (coordinates out of
	// range, empty place name). Raised by local validation before any network
	// call.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrAuthenticationRequired reports a missing API key for a backend that
	// requires one. Raised at construction time, never at request time.
	ErrAuthenticationRequired = errors.New("api key required")

	// ErrUnsupportedFeature reports a capability the chosen backend does not
	// offer, such as geocoding a place name or a forecast horizon beyond its
	// maximum. Raised before any network call.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrLocationNotFound reports that geocoding found no match for a place
	// name.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUpstream reports a failed provider call: transport error, non-2xx
	// status, or a response body that could not be parsed.
	ErrUpstream = errors.New("upstream provider error")
)

// UpstreamError wraps a provider-side failure with the backend name and, when
// available, the HTTP status code. It matches ErrUpstream under errors.Is.
type UpstreamError struct {
	Provider string
	// Status is the HTTP status code, or 0 when the request never completed.
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: upstream request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
