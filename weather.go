package multiweather

import (
	"time"
)

// Wind holds normalized wind conditions. Gust and Direction are optional
// because several providers omit them.
type Wind struct {
	Speed Speed `json:"speed"`
	// Gust speed, when reported.
	Gust *Speed `json:"gust,omitempty"`
	// Direction in meteorological degrees (0 = north).
	Direction *float64 `json:"direction,omitempty"`
}

// Conditions is the normalized view of the weather at a single point in time.
// Optional fields are pointers: they hold provider data or nil, never a
// zero-filled guess.
type Conditions struct {
	// Summary text of the conditions (e.g. "Partly cloudy").
	Summary string `json:"summary"`
	// Provider-native condition code (WMO code, OWM id, icon name, ...).
	Code string `json:"code,omitempty"`
	// Icon URL for the condition, when the provider exposes one.
	Icon string `json:"icon,omitempty"`
	// Observation time in the location's timezone.
	Time time.Time `json:"time"`

	Temperature *Temperature `json:"temperature,omitempty"`
	FeelsLike   *Temperature `json:"feels_like,omitempty"`
	DewPoint    *Temperature `json:"dew_point,omitempty"`

	// Humidity percentage between 0 and 100.
	Humidity *float64 `json:"humidity,omitempty"`
	// Atmospheric pressure in hPa.
	Pressure *float64 `json:"pressure,omitempty"`

	Precipitation *Precipitation `json:"precipitation,omitempty"`
	// Precipitation probability percentage between 0 and 100.
	PrecipProbability *float64 `json:"precip_probability,omitempty"`
	// Cloud cover percentage between 0 and 100.
	CloudCover *float64 `json:"cloud_cover,omitempty"`

	Wind *Wind `json:"wind,omitempty"`

	UVIndex    *float64  `json:"uv_index,omitempty"`
	Visibility *Distance `json:"visibility,omitempty"`

	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`
}

// DayForecast is one daily entry of a multi-day forecast.
type DayForecast struct {
	// Date of the forecast day in the location's timezone.
	Date    time.Time `json:"date"`
	Summary string    `json:"summary"`
	Code    string    `json:"code,omitempty"`

	HighTemp *Temperature `json:"high_temp,omitempty"`
	LowTemp  *Temperature `json:"low_temp,omitempty"`

	HighFeelsLike *Temperature `json:"high_feels_like,omitempty"`
	LowFeelsLike  *Temperature `json:"low_feels_like,omitempty"`

	Precipitation     *Precipitation `json:"precipitation,omitempty"`
	PrecipProbability *float64       `json:"precip_probability,omitempty"`

	Wind    *Wind    `json:"wind,omitempty"`
	UVIndex *float64 `json:"uv_index,omitempty"`

	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`
}

// Response is the provider-independent weather response returned to callers.
// It is built fresh for every request and never mutated by the library after
// being returned.
type Response struct {
	// Provider is the human-readable name of the backend that produced this
	// response (e.g. "Open-Meteo.com").
	Provider string `json:"provider"`
	// URL points at a human-facing page for the reported location.
	URL string `json:"url,omitempty"`

	Current Conditions `json:"current"`

	// Forecast holds daily entries ordered by ascending date. Its length never
	// exceeds the backend's MaxForecastDays.
	Forecast []DayForecast `json:"forecast,omitempty"`
}

// Result carries the outcome of a non-blocking weather request.
type Result struct {
	Response *Response
	Err      error
}
