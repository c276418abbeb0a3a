package backends

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlu5/multiweather"
)

// Current conditions plus a three-day forecast. The current block carries no
// precipitation field on purpose, to verify absent fields stay absent.
const openMeteoFixture = `{
	"timezone": "Europe/Berlin",
	"utc_offset_seconds": 7200,
	"current": {
		"time": 1724000000,
		"temperature_2m": 18.3,
		"relative_humidity_2m": 60,
		"apparent_temperature": 17.8,
		"cloud_cover": 25,
		"pressure_msl": 1014.2,
		"wind_speed_10m": 14.8,
		"wind_direction_10m": 230,
		"wind_gusts_10m": 28.1,
		"weather_code": 1,
		"is_day": 1
	},
	"hourly": {
		"dew_point_2m": [10.5],
		"uv_index": [4.2],
		"visibility": [24140.0]
	},
	"daily": {
		"time": [1723932000, 1724018400, 1724104800],
		"weather_code": [1, 3, 61],
		"temperature_2m_max": [21.4, 19.9, 18.2],
		"temperature_2m_min": [12.1, 11.4, 10.9],
		"apparent_temperature_max": [20.9, 19.2, 17.5],
		"apparent_temperature_min": [11.3, 10.8, 10.2],
		"sunrise": [1723954020, 1724040540, 1724127060],
		"sunset": [1724006460, 1724092740, 1724179020],
		"uv_index_max": [5.1, 4.0, 3.2],
		"precipitation_sum": [0, 0.4, 6.2],
		"precipitation_probability_max": [5, 35, 80],
		"wind_speed_10m_max": [15.2, 18.4, 22.0],
		"wind_gusts_10m_max": [30.1, 33.8, 40.2],
		"wind_direction_10m_dominant": [225, 240, 190]
	}
}`

func TestOpenMeteoGetWeather(t *testing.T) {
	var calls atomic.Int32
	client := mockClient(&calls, func(req *http.Request) *http.Response {
		assert.Equal(t, "api.open-meteo.com", req.URL.Host)
		assert.Equal(t, "52.52", req.URL.Query().Get("latitude"))
		assert.Equal(t, "13.405", req.URL.Query().Get("longitude"))
		assert.Equal(t, "3", req.URL.Query().Get("forecast_days"))
		return jsonResponse(http.StatusOK, openMeteoFixture)
	})

	b := NewOpenMeteo(Config{HTTPClient: client})
	resp, err := b.GetWeather(context.Background(), multiweather.Coordinates(52.52, 13.405), 3)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "Open-Meteo.com", resp.Provider)
	require.NotNil(t, resp.Current.Temperature)
	assert.Equal(t, 18.3, resp.Current.Temperature.C())
	require.NotNil(t, resp.Current.Humidity)
	assert.Equal(t, 60.0, *resp.Current.Humidity)
	require.NotNil(t, resp.Current.Wind)
	assert.InDelta(t, 14.8/3.6, resp.Current.Wind.Speed.MS(), 1e-9)
	assert.Equal(t, "Mainly Sunny", resp.Current.Summary)
	assert.Equal(t, "1", resp.Current.Code)

	// Hourly fill.
	require.NotNil(t, resp.Current.DewPoint)
	assert.Equal(t, 10.5, resp.Current.DewPoint.C())
	require.NotNil(t, resp.Current.Visibility)
	assert.InDelta(t, 24.14, resp.Current.Visibility.KM(), 1e-9)

	// No precipitation field in the fixture: must be absent, not zero.
	assert.Nil(t, resp.Current.Precipitation)

	require.Len(t, resp.Forecast, 3)
	for i := 1; i < len(resp.Forecast); i++ {
		assert.True(t, resp.Forecast[i].Date.After(resp.Forecast[i-1].Date),
			"forecast dates must be ascending")
	}
	day := resp.Forecast[2]
	assert.Equal(t, "Light Rain", day.Summary)
	require.NotNil(t, day.HighTemp)
	assert.Equal(t, 18.2, day.HighTemp.C())
	require.NotNil(t, day.PrecipProbability)
	assert.Equal(t, 80.0, *day.PrecipProbability)
	require.NotNil(t, day.Precipitation)
	assert.Equal(t, 6.2, day.Precipitation.MM())
}

func TestOpenMeteoSyncAsyncEquivalence(t *testing.T) {
	client := mockClient(nil, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, openMeteoFixture)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})
	loc := multiweather.Coordinates(52.52, 13.405)

	syncResp, err := b.GetWeather(context.Background(), loc, 3)
	require.NoError(t, err)

	result := <-b.GetWeatherAsync(context.Background(), loc, 3)
	require.NoError(t, result.Err)

	assert.Equal(t, syncResp, result.Response)
}

func TestOpenMeteoGeocoding(t *testing.T) {
	var calls atomic.Int32
	client := mockClient(&calls, func(req *http.Request) *http.Response {
		switch req.URL.Host {
		case "geocoding-api.open-meteo.com":
			assert.Equal(t, "Berlin", req.URL.Query().Get("name"))
			return jsonResponse(http.StatusOK, `{"results":[{"latitude":52.52,"longitude":13.405}]}`)
		case "api.open-meteo.com":
			assert.Equal(t, "52.52", req.URL.Query().Get("latitude"))
			return jsonResponse(http.StatusOK, openMeteoFixture)
		default:
			t.Errorf("unexpected host %s", req.URL.Host)
			return jsonResponse(http.StatusNotFound, `{}`)
		}
	})

	b := NewOpenMeteo(Config{HTTPClient: client})
	resp, err := b.GetWeather(context.Background(), multiweather.PlaceName("Berlin"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Open-Meteo.com", resp.Provider)
	assert.Equal(t, int32(2), calls.Load(), "geocoding plus weather request")
}

func TestOpenMeteoGeocodingNoMatch(t *testing.T) {
	client := mockClient(nil, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"results":[]}`)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})

	_, err := b.GetWeather(context.Background(), multiweather.PlaceName("Nowhereville"), 0)
	assert.True(t, errors.Is(err, multiweather.ErrLocationNotFound))
}

func TestOpenMeteoForecastHorizon(t *testing.T) {
	var calls atomic.Int32
	client := mockClient(&calls, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, openMeteoFixture)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})

	assert.Equal(t, 16, b.MaxForecastDays())

	_, err := b.GetWeather(context.Background(), multiweather.Coordinates(0, 0), 17)
	assert.True(t, errors.Is(err, multiweather.ErrUnsupportedFeature))
	assert.Equal(t, int32(0), calls.Load(), "horizon check must run before any HTTP call")
}

func TestOpenMeteoInvalidLocation(t *testing.T) {
	var calls atomic.Int32
	client := mockClient(&calls, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, openMeteoFixture)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})

	_, err := b.GetWeather(context.Background(), multiweather.Coordinates(91, 0), 0)
	assert.True(t, errors.Is(err, multiweather.ErrInvalidLocation))
	assert.Equal(t, int32(0), calls.Load())
}

func TestOpenMeteoErrorPayload(t *testing.T) {
	client := mockClient(nil, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"error":true,"reason":"invalid latitude"}`)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})

	_, err := b.GetWeather(context.Background(), multiweather.Coordinates(52.52, 13.405), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, multiweather.ErrUpstream))
	assert.Contains(t, err.Error(), "invalid latitude")
}

func TestOpenMeteoHTTPError(t *testing.T) {
	client := mockClient(nil, func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusInternalServerError, `oops`)
	})
	b := NewOpenMeteo(Config{HTTPClient: client})

	_, err := b.GetWeather(context.Background(), multiweather.Coordinates(52.52, 13.405), 0)
	require.Error(t, err)

	var upstream *multiweather.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.Status)
	assert.True(t, errors.Is(err, multiweather.ErrUpstream))
}

func TestOpenMeteoCommercialEndpoint(t *testing.T) {
	client := mockClient(nil, func(req *http.Request) *http.Response {
		assert.Equal(t, "customer-api.open-meteo.com", req.URL.Host)
		assert.Equal(t, "secret", req.URL.Query().Get("api_key"))
		return jsonResponse(http.StatusOK, openMeteoFixture)
	})
	b := NewOpenMeteo(Config{APIKey: "secret", HTTPClient: client})

	_, err := b.GetWeather(context.Background(), multiweather.Coordinates(52.52, 13.405), 0)
	require.NoError(t, err)
}
