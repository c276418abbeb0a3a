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

// OpenWeatherMapMaxForecastDays documents that the basic OpenWeatherMap v2.5
// endpoint serves current conditions only.
const OpenWeatherMapMaxForecastDays = 0

const (
	openWeatherMapName    = "OpenWeatherMap"
	openWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	openWeatherMapGeoURL  = "http://api.openweathermap.org/geo/1.0/direct"
)

// OpenWeatherMap is the adapter for the OpenWeatherMap v2.5 current weather
// API. An API key is required. Place names resolve natively through the OWM
// geocoding endpoint unless an external resolver is configured.
type OpenWeatherMap struct {
	client
	apiKey   string
	baseURL  string
	geoURL   string
	resolver geocode.Resolver
}

// NewOpenWeatherMap creates the OpenWeatherMap adapter. It fails with
// multiweather.ErrAuthenticationRequired when cfg.APIKey is empty.
func NewOpenWeatherMap(cfg Config) (*OpenWeatherMap, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", multiweather.ErrAuthenticationRequired, openWeatherMapName)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openWeatherMapBaseURL
	}
	return &OpenWeatherMap{
		client:   newClient(openWeatherMapName, cfg),
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		geoURL:   openWeatherMapGeoURL,
		resolver: cfg.Resolver,
	}, nil
}

func (b *OpenWeatherMap) Name() string            { return openWeatherMapName }
func (b *OpenWeatherMap) MaxForecastDays() int    { return OpenWeatherMapMaxForecastDays }
func (b *OpenWeatherMap) SupportsGeocoding() bool { return true }

// GetWeather fetches current conditions, blocking until the provider
// responds. Daily forecasts are not offered by this endpoint, so any
// forecastDays > 0 fails with multiweather.ErrUnsupportedFeature.
func (b *OpenWeatherMap) GetWeather(ctx context.Context, loc multiweather.Location, forecastDays int) (*multiweather.Response, error) {
	if err := checkForecastDays(forecastDays, OpenWeatherMapMaxForecastDays, openWeatherMapName); err != nil {
		return nil, err
	}

	resolve := b.geocode
	if b.resolver != nil {
		resolve = b.resolver.Resolve
	}
	lat, lon, err := resolveCoords(ctx, loc, resolve, openWeatherMapName)
	if err != nil {
		return nil, err
	}

	var payload openWeatherMapResponse
	if err := b.getJSON(ctx, b.requestURL(lat, lon), &payload); err != nil {
		return nil, err
	}
	return mapOpenWeatherMap(&payload, lat, lon), nil
}

// GetWeatherAsync is the non-blocking equivalent of GetWeather.
func (b *OpenWeatherMap) GetWeatherAsync(ctx context.Context, loc multiweather.Location, forecastDays int) <-chan multiweather.Result {
	return async(func() (*multiweather.Response, error) {
		return b.GetWeather(ctx, loc, forecastDays)
	})
}

func (b *OpenWeatherMap) requestURL(lat, lon float64) string {
	values := url.Values{}
	values.Set("appid", b.apiKey)
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	// Default is Kelvin.
	values.Set("units", "metric")
	return fmt.Sprintf("%s?%s", b.baseURL, values.Encode())
}

// geocode resolves a place name through the OWM geocoding endpoint.
func (b *OpenWeatherMap) geocode(ctx context.Context, name, country string) (float64, float64, error) {
	query := name
	if country != "" {
		query = name + "," + country
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "1")
	values.Set("appid", b.apiKey)

	var results []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := b.getJSON(ctx, fmt.Sprintf("%s?%s", b.geoURL, values.Encode()), &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: no results for %q", multiweather.ErrLocationNotFound, query)
	}
	return results[0].Lat, results[0].Lon, nil
}

type openWeatherMapResponse struct {
	Dt       int64 `json:"dt"`
	Timezone int   `json:"timezone"` // offset from UTC in seconds

	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`

	Main struct {
		Temp      *float64 `json:"temp"` // °C with units=metric
		FeelsLike *float64 `json:"feels_like"`
		TempMin   *float64 `json:"temp_min"`
		TempMax   *float64 `json:"temp_max"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`

	Wind struct {
		Speed *float64 `json:"speed"` // m/s with units=metric
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`

	Clouds struct {
		All *float64 `json:"all"`
	} `json:"clouds"`

	Visibility *float64 `json:"visibility"` // meters

	Rain map[string]float64 `json:"rain"`
	Snow map[string]float64 `json:"snow"`

	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

func mapOpenWeatherMap(payload *openWeatherMapResponse, lat, lon float64) *multiweather.Response {
	tz := time.FixedZone("", payload.Timezone)

	current := multiweather.Conditions{
		Time:        time.Unix(payload.Dt, 0).In(tz),
		Temperature: tempC(payload.Main.Temp),
		FeelsLike:   tempC(payload.Main.FeelsLike),
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		CloudCover:  payload.Clouds.All,
		Sunrise:     unixTime(payload.Sys.Sunrise, tz),
		Sunset:      unixTime(payload.Sys.Sunset, tz),
	}

	if len(payload.Weather) > 0 {
		w := payload.Weather[0]
		current.Summary = w.Main
		current.Code = strconv.Itoa(w.ID)
		if w.Icon != "" {
			current.Icon = fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", w.Icon)
		}
	}

	// Precipitation is reported as rain or snow volume over the last 1h or
	// 3h; absent keys stay absent.
	if mm := precipVolume(payload.Rain); mm != nil {
		current.Precipitation = ptr(multiweather.PrecipMM(*mm))
	} else if mm := precipVolume(payload.Snow); mm != nil {
		current.Precipitation = ptr(multiweather.PrecipMM(*mm))
	}

	if payload.Wind.Speed != nil {
		w := &multiweather.Wind{Speed: multiweather.SpeedMS(*payload.Wind.Speed), Direction: payload.Wind.Deg}
		if payload.Wind.Gust != nil {
			w.Gust = ptr(multiweather.SpeedMS(*payload.Wind.Gust))
		}
		current.Wind = w
	}
	if payload.Visibility != nil {
		current.Visibility = ptr(multiweather.DistanceKM(*payload.Visibility / 1000))
	}

	mapURL := url.Values{}
	mapURL.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	mapURL.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	mapURL.Set("zoom", "12")

	return &multiweather.Response{
		Provider: openWeatherMapName,
		URL:      "https://openweathermap.org/weathermap?" + mapURL.Encode(),
		Current:  current,
	}
}

func precipVolume(vols map[string]float64) *float64 {
	for _, window := range []string{"1h", "3h"} {
		if v, ok := vols[window]; ok {
			return &v
		}
	}
	return nil
}
