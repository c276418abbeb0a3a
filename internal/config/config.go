// Package config loads settings for the multiweather CLI and HTTP server.
// Values come from the environment (optionally via a .env file) or an optional
// config.yaml; nothing is required, and missing provider keys simply leave
// those backends unregistered.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jlu5/multiweather"
)

type AppConfig struct {
	// Provider credentials. Open-Meteo works without one.
	OpenMeteoAPIKey      string
	PirateWeatherAPIKey  string
	OpenWeatherMapAPIKey string

	// GoogleGeocoderAPIKey enables the Google Maps resolver used as the
	// external geocoder for Pirate Weather.
	GoogleGeocoderAPIKey string

	// DefaultProvider selects the backend when a caller names none.
	DefaultProvider string

	// Units is the preferred display unit system.
	Units multiweather.UnitSystem

	// HTTPTimeout bounds outbound provider calls made by the server and CLI.
	HTTPTimeout time.Duration

	Port  string
	Debug bool
}

// Load reads configuration with sensible defaults. A .env file and a
// config.yaml in the working directory are both optional.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("default_provider", "openmeteo")
	v.SetDefault("units", string(multiweather.UnitsMetric))
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)

	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		OpenMeteoAPIKey:      v.GetString("openmeteo_api_key"),
		PirateWeatherAPIKey:  v.GetString("pirateweather_api_key"),
		OpenWeatherMapAPIKey: v.GetString("openweathermap_api_key"),
		GoogleGeocoderAPIKey: v.GetString("google_geocoder_api_key"),
		DefaultProvider:      v.GetString("default_provider"),
		Units:                multiweather.UnitSystem(v.GetString("units")),
		HTTPTimeout:          timeout,
		Port:                 v.GetString("port"),
		Debug:                v.GetBool("debug"),
	}, nil
}
