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

// OpenMeteoMaxForecastDays is the longest daily forecast Open-Meteo serves.
const OpenMeteoMaxForecastDays = 16

const (
	openMeteoName        = "Open-Meteo.com"
	openMeteoFreeURL     = "https://api.open-meteo.com/v1/forecast"
	openMeteoCustomerURL = "https://customer-api.open-meteo.com/v1/forecast"

	// Field lists requested from the API. These match the coverage of the
	// normalized data model.
	openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,cloud_cover," +
		"pressure_msl,wind_speed_10m,wind_direction_10m,wind_gusts_10m,weather_code,is_day"
	openMeteoDailyFields = "temperature_2m_max,temperature_2m_min,apparent_temperature_max,apparent_temperature_min," +
		"sunrise,sunset,uv_index_max,precipitation_sum,precipitation_probability_max," +
		"wind_speed_10m_max,wind_gusts_10m_max,wind_direction_10m_dominant,weather_code"
	// Merged into current conditions; the API only exposes these hourly.
	openMeteoHourlyFields = "dew_point_2m,uv_index,visibility"
)

// OpenMeteo is the adapter for the Open-Meteo forecast API. No API key is
// needed for the free tier; supplying one switches to the commercial endpoint.
// Place names resolve natively through the Open-Meteo geocoding API.
type OpenMeteo struct {
	client
	apiKey  string
	baseURL string
	// fillCurrentWithHourly merges one hour of dew point / UV / visibility
	// data into current conditions, which the current endpoint lacks.
	fillCurrentWithHourly bool
	resolver              geocode.Resolver
}

// OpenMeteoOption customizes the adapter beyond the shared Config.
type OpenMeteoOption func(*OpenMeteo)

// WithoutHourlyFill disables merging hourly dew point, UV index and visibility
// into current conditions, trading those fields for a cheaper API call.
func WithoutHourlyFill() OpenMeteoOption {
	return func(b *OpenMeteo) { b.fillCurrentWithHourly = false }
}

// NewOpenMeteo creates the Open-Meteo adapter. The key in cfg is optional.
func NewOpenMeteo(cfg Config, opts ...OpenMeteoOption) *OpenMeteo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.APIKey != "" {
			baseURL = openMeteoCustomerURL
		} else {
			baseURL = openMeteoFreeURL
		}
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = geocode.NewOpenMeteo(
			geocode.WithHTTPClient(cfg.HTTPClient),
			geocode.WithLogger(cfg.Logger),
		)
	}

	b := &OpenMeteo{
		client:                newClient(openMeteoName, cfg),
		apiKey:                cfg.APIKey,
		baseURL:               baseURL,
		fillCurrentWithHourly: true,
		resolver:              resolver,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *OpenMeteo) Name() string            { return openMeteoName }
func (b *OpenMeteo) MaxForecastDays() int    { return OpenMeteoMaxForecastDays }
func (b *OpenMeteo) SupportsGeocoding() bool { return true }

// GetWeather fetches current conditions, and a daily forecast when
// forecastDays > 0, blocking until the provider responds.
func (b *OpenMeteo) GetWeather(ctx context.Context, loc multiweather.Location, forecastDays int) (*multiweather.Response, error) {
	if err := checkForecastDays(forecastDays, OpenMeteoMaxForecastDays, openMeteoName); err != nil {
		return nil, err
	}

	lat, lon, err := resolveCoords(ctx, loc, b.resolver.Resolve, openMeteoName)
	if err != nil {
		return nil, err
	}

	var payload openMeteoResponse
	if err := b.getJSON(ctx, b.requestURL(lat, lon, forecastDays), &payload); err != nil {
		return nil, err
	}
	return b.mapResponse(&payload)
}

// GetWeatherAsync is the non-blocking equivalent of GetWeather.
func (b *OpenMeteo) GetWeatherAsync(ctx context.Context, loc multiweather.Location, forecastDays int) <-chan multiweather.Result {
	return async(func() (*multiweather.Response, error) {
		return b.GetWeather(ctx, loc, forecastDays)
	})
}

func (b *OpenMeteo) requestURL(lat, lon float64, forecastDays int) string {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")
	values.Set("current", openMeteoCurrentFields)
	if forecastDays > 0 {
		values.Set("daily", openMeteoDailyFields)
		values.Set("forecast_days", strconv.Itoa(forecastDays))
	}
	if b.fillCurrentWithHourly {
		values.Set("hourly", openMeteoHourlyFields)
		values.Set("forecast_hours", "1")
	}
	if b.apiKey != "" {
		values.Set("api_key", b.apiKey)
	}
	return fmt.Sprintf("%s?%s", b.baseURL, values.Encode())
}

type openMeteoResponse struct {
	Error            bool   `json:"error"`
	Reason           string `json:"reason"`
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`

	Current struct {
		Time          int64    `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		FeelsLike     *float64 `json:"apparent_temperature"`
		Precipitation *float64 `json:"precipitation"`
		CloudCover    *float64 `json:"cloud_cover"`
		Pressure      *float64 `json:"pressure_msl"`
		WindSpeed     *float64 `json:"wind_speed_10m"` // km/h
		WindDirection *float64 `json:"wind_direction_10m"`
		WindGusts     *float64 `json:"wind_gusts_10m"`
		WeatherCode   *int     `json:"weather_code"`
		IsDay         int      `json:"is_day"`
	} `json:"current"`

	Hourly struct {
		DewPoint   []float64 `json:"dew_point_2m"`
		UVIndex    []float64 `json:"uv_index"`
		Visibility []float64 `json:"visibility"` // meters
	} `json:"hourly"`

	Daily struct {
		Time            []int64   `json:"time"`
		WeatherCode     []int     `json:"weather_code"`
		TempMax         []float64 `json:"temperature_2m_max"`
		TempMin         []float64 `json:"temperature_2m_min"`
		FeelsLikeMax    []float64 `json:"apparent_temperature_max"`
		FeelsLikeMin    []float64 `json:"apparent_temperature_min"`
		Sunrise         []int64   `json:"sunrise"`
		Sunset          []int64   `json:"sunset"`
		UVIndexMax      []float64 `json:"uv_index_max"`
		PrecipSum       []float64 `json:"precipitation_sum"`
		PrecipProbMax   []float64 `json:"precipitation_probability_max"`
		WindSpeedMax    []float64 `json:"wind_speed_10m_max"`
		WindGustsMax    []float64 `json:"wind_gusts_10m_max"`
		WindDirDominant []float64 `json:"wind_direction_10m_dominant"`
	} `json:"daily"`
}

func (b *OpenMeteo) mapResponse(payload *openMeteoResponse) (*multiweather.Response, error) {
	if payload.Error {
		return nil, &multiweather.UpstreamError{
			Provider: openMeteoName,
			Err:      fmt.Errorf("%s", payload.Reason),
		}
	}

	tz := time.FixedZone(payload.Timezone, payload.UTCOffsetSeconds)
	cur := payload.Current

	current := multiweather.Conditions{
		Time:              time.Unix(cur.Time, 0).In(tz),
		Humidity:          cur.Humidity,
		Pressure:          cur.Pressure,
		CloudCover:        cur.CloudCover,
		Temperature:       tempC(cur.Temperature),
		FeelsLike:         tempC(cur.FeelsLike),
		Precipitation:     precipMM(cur.Precipitation),
		Wind:              windKPH(cur.WindSpeed, cur.WindGusts, cur.WindDirection),
		DewPoint:          tempC(firstOf(payload.Hourly.DewPoint)),
		UVIndex:           firstOf(payload.Hourly.UVIndex),
		PrecipProbability: nil, // only available in daily forecasts
	}
	if cur.WeatherCode != nil {
		current.Code = strconv.Itoa(*cur.WeatherCode)
		current.Summary = summaryForWMOCode(*cur.WeatherCode, cur.IsDay != 0)
	}
	if vis := firstOf(payload.Hourly.Visibility); vis != nil {
		current.Visibility = ptr(multiweather.DistanceKM(*vis / 1000))
	}

	var forecast []multiweather.DayForecast
	for i, ts := range payload.Daily.Time {
		day := multiweather.DayForecast{
			Date:              time.Unix(ts, 0).In(tz),
			HighTemp:          tempC(floatAt(payload.Daily.TempMax, i)),
			LowTemp:           tempC(floatAt(payload.Daily.TempMin, i)),
			HighFeelsLike:     tempC(floatAt(payload.Daily.FeelsLikeMax, i)),
			LowFeelsLike:      tempC(floatAt(payload.Daily.FeelsLikeMin, i)),
			Precipitation:     precipMM(floatAt(payload.Daily.PrecipSum, i)),
			PrecipProbability: floatAt(payload.Daily.PrecipProbMax, i),
			UVIndex:           floatAt(payload.Daily.UVIndexMax, i),
			Wind: windKPH(
				floatAt(payload.Daily.WindSpeedMax, i),
				floatAt(payload.Daily.WindGustsMax, i),
				floatAt(payload.Daily.WindDirDominant, i),
			),
		}
		if i < len(payload.Daily.Sunrise) {
			day.Sunrise = unixTime(payload.Daily.Sunrise[i], tz)
		}
		if i < len(payload.Daily.Sunset) {
			day.Sunset = unixTime(payload.Daily.Sunset[i], tz)
		}
		if i < len(payload.Daily.WeatherCode) {
			code := payload.Daily.WeatherCode[i]
			day.Code = strconv.Itoa(code)
			day.Summary = summaryForWMOCode(code, true)
		}
		forecast = append(forecast, day)
	}

	return &multiweather.Response{
		Provider: openMeteoName,
		URL:      "https://open-meteo.com/",
		Current:  current,
		Forecast: forecast,
	}, nil
}

// tempC converts an optional Celsius value, keeping absence.
func tempC(v *float64) *multiweather.Temperature {
	if v == nil {
		return nil
	}
	return ptr(multiweather.TempC(*v))
}

// precipMM converts an optional millimeter amount, keeping absence.
func precipMM(v *float64) *multiweather.Precipitation {
	if v == nil {
		return nil
	}
	return ptr(multiweather.PrecipMM(*v))
}

// windKPH assembles wind conditions from optional km/h values. Wind is absent
// entirely when the provider reports no speed.
func windKPH(speed, gust, direction *float64) *multiweather.Wind {
	if speed == nil {
		return nil
	}
	w := &multiweather.Wind{Speed: multiweather.SpeedKPH(*speed), Direction: direction}
	if gust != nil {
		w.Gust = ptr(multiweather.SpeedKPH(*gust))
	}
	return w
}

func firstOf(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func floatAt(vals []float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return &vals[i]
}
