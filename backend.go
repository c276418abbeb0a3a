package multiweather

import "context"

// Backend abstracts a weather data provider (e.g. Open-Meteo, Pirate Weather,
// OpenWeatherMap). Implementations hold only immutable configuration, so one
// instance is safe to reuse for repeated independent calls.
type Backend interface {
	// Name returns the human-readable provider name.
	Name() string

	// MaxForecastDays returns the longest daily forecast the provider offers;
	// 0 means current conditions only.
	MaxForecastDays() int

	// SupportsGeocoding reports whether the backend can resolve place name
	// locations, natively or through a configured resolver.
	SupportsGeocoding() bool

	// GetWeather fetches weather for the location, blocking until the provider
	// responds. forecastDays > 0 additionally requests that many daily
	// forecast entries; it must not exceed MaxForecastDays. Exactly one
	// outbound HTTP request is made per call, two when a place name has to be
	// geocoded first.
	GetWeather(ctx context.Context, loc Location, forecastDays int) (*Response, error)

	// GetWeatherAsync is the non-blocking equivalent of GetWeather with
	// identical semantics. The returned channel is buffered and delivers
	// exactly one Result.
	GetWeatherAsync(ctx context.Context, loc Location, forecastDays int) <-chan Result
}
