package backends

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jlu5/multiweather"
	"github.com/jlu5/multiweather/geocode"
)

// PirateWeatherMaxForecastDays is the longest daily forecast Pirate Weather
// serves.
const PirateWeatherMaxForecastDays = 7

const (
	pirateWeatherName    = "Pirate Weather"
	pirateWeatherBaseURL = "https://api.pirateweather.net/forecast"
)

// PirateWeather is the adapter for the Pirate Weather (Dark Sky compatible)
// API. An API key is required. The provider has no geocoding endpoint; place
// names work only when an external geocode.Resolver is configured.
type PirateWeather struct {
	client
	apiKey   string
	baseURL  string
	resolver geocode.Resolver
}

// NewPirateWeather creates the Pirate Weather adapter. It fails with
// multiweather.ErrAuthenticationRequired when cfg.APIKey is empty.
func NewPirateWeather(cfg Config) (*PirateWeather, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", multiweather.ErrAuthenticationRequired, pirateWeatherName)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = pirateWeatherBaseURL
	}
	return &PirateWeather{
		client:   newClient(pirateWeatherName, cfg),
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		resolver: cfg.Resolver,
	}, nil
}

func (b *PirateWeather) Name() string         { return pirateWeatherName }
func (b *PirateWeather) MaxForecastDays() int { return PirateWeatherMaxForecastDays }

// SupportsGeocoding reports whether an external resolver was configured;
// Pirate Weather itself only accepts coordinates.
func (b *PirateWeather) SupportsGeocoding() bool { return b.resolver != nil }

// GetWeather fetches current conditions, and a daily forecast when
// forecastDays > 0, blocking until the provider responds.
func (b *PirateWeather) GetWeather(ctx context.Context, loc multiweather.Location, forecastDays int) (*multiweather.Response, error) {
	if err := checkForecastDays(forecastDays, PirateWeatherMaxForecastDays, pirateWeatherName); err != nil {
		return nil, err
	}

	var resolve func(context.Context, string, string) (float64, float64, error)
	if b.resolver != nil {
		resolve = b.resolver.Resolve
	}
	lat, lon, err := resolveCoords(ctx, loc, resolve, pirateWeatherName)
	if err != nil {
		return nil, err
	}

	var payload pirateWeatherResponse
	if err := b.getJSON(ctx, b.requestURL(lat, lon, forecastDays), &payload); err != nil {
		return nil, err
	}
	return mapPirateWeather(&payload, lat, lon, forecastDays)
}

// GetWeatherAsync is the non-blocking equivalent of GetWeather.
func (b *PirateWeather) GetWeatherAsync(ctx context.Context, loc multiweather.Location, forecastDays int) <-chan multiweather.Result {
	return async(func() (*multiweather.Response, error) {
		return b.GetWeather(ctx, loc, forecastDays)
	})
}

func (b *PirateWeather) requestURL(lat, lon float64, forecastDays int) string {
	// The daily block is excluded entirely when no forecast was asked for;
	// minutely and hourly data are not used by this library.
	exclude := "minutely,hourly,alerts"
	if forecastDays == 0 {
		exclude += ",daily"
	}
	values := url.Values{}
	// Request US units and convert during mapping.
	values.Set("units", "us")
	values.Set("exclude", exclude)
	return fmt.Sprintf("%s/%s/%s,%s?%s",
		b.baseURL, b.apiKey,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		values.Encode())
}

type pirateWeatherConditions struct {
	Time    int64   `json:"time"`
	Summary *string `json:"summary"`
	Icon    string  `json:"icon"`

	Temperature *float64 `json:"temperature"`         // °F
	FeelsLike   *float64 `json:"apparentTemperature"` // °F
	DewPoint    *float64 `json:"dewPoint"`            // °F
	Humidity    *float64 `json:"humidity"`            // 0-1
	Pressure    *float64 `json:"pressure"`            // hPa

	PrecipIntensity   *float64 `json:"precipIntensity"`   // in/h
	PrecipProbability *float64 `json:"precipProbability"` // 0-1
	CloudCover        *float64 `json:"cloudCover"`        // 0-1

	WindSpeed   *float64 `json:"windSpeed"` // mph
	WindGust    *float64 `json:"windGust"`  // mph
	WindBearing *float64 `json:"windBearing"`

	UVIndex    *float64 `json:"uvIndex"`
	Visibility *float64 `json:"visibility"` // miles

	SunriseTime int64 `json:"sunriseTime"`
	SunsetTime  int64 `json:"sunsetTime"`

	TemperatureHigh *float64 `json:"temperatureHigh"` // °F
	TemperatureLow  *float64 `json:"temperatureLow"`
	FeelsLikeHigh   *float64 `json:"apparentTemperatureHigh"`
	FeelsLikeLow    *float64 `json:"apparentTemperatureLow"`
}

type pirateWeatherResponse struct {
	Message  string                  `json:"message"` // set on error payloads
	Timezone string                  `json:"timezone"`
	Offset   float64                 `json:"offset"` // hours from UTC
	Current  pirateWeatherConditions `json:"currently"`
	Daily    struct {
		Data []pirateWeatherConditions `json:"data"`
	} `json:"daily"`
}

func mapPirateWeather(payload *pirateWeatherResponse, lat, lon float64, forecastDays int) (*multiweather.Response, error) {
	if payload.Message != "" {
		return nil, &multiweather.UpstreamError{
			Provider: pirateWeatherName,
			Err:      fmt.Errorf("%s", payload.Message),
		}
	}

	tz := time.FixedZone(payload.Timezone, int(payload.Offset*3600))

	resp := &multiweather.Response{
		Provider: pirateWeatherName,
		URL: fmt.Sprintf("https://merrysky.net/forecast/%s,%s",
			strconv.FormatFloat(lat, 'f', -1, 64),
			strconv.FormatFloat(lon, 'f', -1, 64)),
		Current: mapPirateConditions(&payload.Current, tz),
	}

	daily := payload.Daily.Data
	if len(daily) > forecastDays {
		daily = daily[:forecastDays]
	}
	for i := range daily {
		d := &daily[i]
		cond := mapPirateConditions(d, tz)
		resp.Forecast = append(resp.Forecast, multiweather.DayForecast{
			Date:              cond.Time,
			Summary:           cond.Summary,
			Code:              cond.Code,
			HighTemp:          tempF(d.TemperatureHigh),
			LowTemp:           tempF(d.TemperatureLow),
			HighFeelsLike:     tempF(d.FeelsLikeHigh),
			LowFeelsLike:      tempF(d.FeelsLikeLow),
			Precipitation:     cond.Precipitation,
			PrecipProbability: cond.PrecipProbability,
			Wind:              cond.Wind,
			UVIndex:           cond.UVIndex,
			Sunrise:           cond.Sunrise,
			Sunset:            cond.Sunset,
		})
	}

	return resp, nil
}

func mapPirateConditions(d *pirateWeatherConditions, tz *time.Location) multiweather.Conditions {
	cond := multiweather.Conditions{
		Code:              d.Icon,
		Time:              time.Unix(d.Time, 0).In(tz),
		Temperature:       tempF(d.Temperature),
		FeelsLike:         tempF(d.FeelsLike),
		DewPoint:          tempF(d.DewPoint),
		Humidity:          fraction(d.Humidity),
		Pressure:          d.Pressure,
		PrecipProbability: fraction(d.PrecipProbability),
		CloudCover:        fraction(d.CloudCover),
		UVIndex:           d.UVIndex,
		Sunrise:           unixTime(d.SunriseTime, tz),
		Sunset:            unixTime(d.SunsetTime, tz),
	}
	if d.Summary != nil {
		cond.Summary = *d.Summary
	}
	if d.PrecipIntensity != nil {
		cond.Precipitation = ptr(multiweather.PrecipIn(*d.PrecipIntensity))
	}
	if d.WindSpeed != nil {
		w := &multiweather.Wind{Speed: multiweather.SpeedMPH(*d.WindSpeed), Direction: d.WindBearing}
		if d.WindGust != nil {
			w.Gust = ptr(multiweather.SpeedMPH(*d.WindGust))
		}
		cond.Wind = w
	}
	if d.Visibility != nil {
		cond.Visibility = ptr(multiweather.DistanceMI(*d.Visibility))
	}
	return cond
}

// tempF converts an optional Fahrenheit value, keeping absence.
func tempF(v *float64) *multiweather.Temperature {
	if v == nil {
		return nil
	}
	return ptr(multiweather.TempF(*v))
}

// fraction scales an optional 0-1 ratio to a percentage, keeping absence.
func fraction(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(*v * 100)
}
