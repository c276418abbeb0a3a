package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jlu5/multiweather"
	"github.com/jlu5/multiweather/backends"
	"github.com/jlu5/multiweather/geocode"
	httpapi "github.com/jlu5/multiweather/internal/api/http"
	"github.com/jlu5/multiweather/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	rootCmd := &cobra.Command{
		Use:   "multiweather",
		Short: "Unified client for third-party weather APIs",
		Long:  "Fetches normalized weather data from Open-Meteo, Pirate Weather or OpenWeatherMap.",
	}

	getCmd := &cobra.Command{
		Use:   "get <lat,lon | place name>",
		Short: "Fetch weather for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _ := cmd.Flags().GetString("provider")
			days, _ := cmd.Flags().GetInt("days")
			country, _ := cmd.Flags().GetString("country")
			asJSON, _ := cmd.Flags().GetBool("json")
			return getWeather(cfg, logger, args[0], provider, country, days, asJSON)
		},
	}
	getCmd.Flags().StringP("provider", "p", cfg.DefaultProvider, "weather provider (openmeteo, pirateweather, openweathermap)")
	getCmd.Flags().IntP("days", "d", 0, "number of daily forecast entries to fetch")
	getCmd.Flags().StringP("country", "c", "", "country qualifier for place name lookups")
	getCmd.Flags().Bool("json", false, "print the normalized response as JSON")

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List configured providers and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildBackends(cfg, logger)
			if err != nil {
				return err
			}
			for _, id := range sortedIDs(reg) {
				b := reg[id]
				fmt.Printf("%-16s %s (forecast: %d days, geocoding: %v)\n",
					id, b.Name(), b.MaxForecastDays(), b.SupportsGeocoding())
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, logger)
		},
	}

	rootCmd.AddCommand(getCmd, providersCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	if debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// buildBackends registers every backend the configuration has credentials
// for. Open-Meteo needs none, so it is always available.
func buildBackends(cfg *config.AppConfig, logger *zap.SugaredLogger) (map[string]multiweather.Backend, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	base := backends.Config{
		Units:      cfg.Units,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	reg := map[string]multiweather.Backend{}

	omCfg := base
	omCfg.APIKey = cfg.OpenMeteoAPIKey
	reg["openmeteo"] = backends.NewOpenMeteo(omCfg)

	if cfg.PirateWeatherAPIKey != "" {
		pwCfg := base
		pwCfg.APIKey = cfg.PirateWeatherAPIKey
		// Pirate Weather has no geocoding of its own; give it the Google
		// resolver when a key is configured.
		if cfg.GoogleGeocoderAPIKey != "" {
			google, err := geocode.NewGoogle(cfg.GoogleGeocoderAPIKey)
			if err != nil {
				return nil, err
			}
			pwCfg.Resolver = google
		}
		pw, err := backends.NewPirateWeather(pwCfg)
		if err != nil {
			return nil, err
		}
		reg["pirateweather"] = pw
	}

	if cfg.OpenWeatherMapAPIKey != "" {
		owmCfg := base
		owmCfg.APIKey = cfg.OpenWeatherMapAPIKey
		owm, err := backends.NewOpenWeatherMap(owmCfg)
		if err != nil {
			return nil, err
		}
		reg["openweathermap"] = owm
	}

	return reg, nil
}

func getWeather(cfg *config.AppConfig, logger *zap.SugaredLogger, locArg, provider, country string, days int, asJSON bool) error {
	reg, err := buildBackends(cfg, logger)
	if err != nil {
		return err
	}
	backend, ok := reg[provider]
	if !ok {
		return fmt.Errorf("unknown or unconfigured provider %q", provider)
	}

	loc, err := parseLocationArg(locArg, country)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := backend.GetWeather(ctx, loc, days)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printWeather(resp, cfg.Units)
	return nil
}

// parseLocationArg accepts "lat,lon" pairs and free-text place names.
func parseLocationArg(arg, country string) (multiweather.Location, error) {
	if parts := strings.Split(arg, ","); len(parts) == 2 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr == nil && lonErr == nil {
			return multiweather.Coordinates(lat, lon), nil
		}
	}
	if country != "" {
		return multiweather.PlaceNameIn(arg, country), nil
	}
	return multiweather.PlaceName(arg), nil
}

func printWeather(resp *multiweather.Response, units multiweather.UnitSystem) {
	fmt.Printf("Weather from %s\n", resp.Provider)
	fmt.Println(strings.Repeat("=", 40))

	cur := resp.Current
	fmt.Printf("Conditions: %s\n", cur.Summary)
	if cur.Temperature != nil {
		fmt.Printf("Temperature: %s\n", formatTemp(*cur.Temperature, units))
	}
	if cur.FeelsLike != nil {
		fmt.Printf("Feels like: %s\n", formatTemp(*cur.FeelsLike, units))
	}
	if cur.Humidity != nil {
		fmt.Printf("Humidity: %.0f%%\n", *cur.Humidity)
	}
	if cur.Pressure != nil {
		fmt.Printf("Pressure: %.0f hPa\n", *cur.Pressure)
	}
	if cur.Wind != nil {
		if units == multiweather.UnitsImperial {
			fmt.Printf("Wind: %.1f mph\n", cur.Wind.Speed.MPH())
		} else {
			fmt.Printf("Wind: %.1f m/s\n", cur.Wind.Speed.MS())
		}
	}

	for _, day := range resp.Forecast {
		line := fmt.Sprintf("%s: %s", day.Date.Format("Mon 2006-01-02"), day.Summary)
		if day.HighTemp != nil && day.LowTemp != nil {
			line += fmt.Sprintf(" (%s / %s)", formatTemp(*day.HighTemp, units), formatTemp(*day.LowTemp, units))
		}
		if day.PrecipProbability != nil {
			line += fmt.Sprintf(", %.0f%% precip", *day.PrecipProbability)
		}
		fmt.Println(line)
	}
}

func formatTemp(t multiweather.Temperature, units multiweather.UnitSystem) string {
	if units == multiweather.UnitsImperial {
		return fmt.Sprintf("%.1f°F", t.F())
	}
	return fmt.Sprintf("%.1f°C", t.C())
}

func sortedIDs(reg map[string]multiweather.Backend) []string {
	ids := make([]string, 0, len(reg))
	for id := range reg {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func serve(cfg *config.AppConfig, logger *zap.SugaredLogger) error {
	reg, err := buildBackends(cfg, logger)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:               "multiweather",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "multiweather",
			"providers": len(reg),
		})
	})

	httpapi.RegisterRoutes(app, reg, cfg.DefaultProvider)

	go func() {
		logger.Infow("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
