// Package httpapi exposes the weather backends over a small HTTP facade.
package httpapi

import (
	"errors"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jlu5/multiweather"
)

var validate = validator.New()

// weatherQuery holds the query parameters for the weather endpoint. Either a
// coordinate pair or a place name must be supplied.
type weatherQuery struct {
	Provider string  `validate:"required"`
	Lat      float64 `validate:"gte=-90,lte=90"`
	Lon      float64 `validate:"gte=-180,lte=180"`
	Place    string
	Country  string
	Days     int `validate:"gte=0"`

	hasCoords bool
}

func (q *weatherQuery) bind(c *fiber.Ctx, defaultProvider string) error {
	q.Provider = c.Query("provider", defaultProvider)
	q.Place = c.Query("place")
	q.Country = c.Query("country")

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return errors.New("invalid lat query parameter")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return errors.New("invalid lon query parameter")
		}
		q.Lat, q.Lon = lat, lon
		q.hasCoords = true
	} else if q.Place == "" {
		return errors.New("either lat/lon or place query parameters are required")
	}

	if daysStr := c.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return errors.New("invalid days query parameter")
		}
		q.Days = days
	}

	return validate.Struct(q)
}

func (q *weatherQuery) toLocation() multiweather.Location {
	if q.hasCoords {
		return multiweather.Coordinates(q.Lat, q.Lon)
	}
	return multiweather.PlaceNameIn(q.Place, q.Country)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. backends maps the
// short provider identifiers (e.g. "openmeteo") used in query parameters.
func RegisterRoutes(app *fiber.App, backends map[string]multiweather.Backend, defaultProvider string) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c, defaultProvider); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		backend, ok := backends[q.Provider]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown provider: "+q.Provider)
		}

		resp, err := backend.GetWeather(c.Context(), q.toLocation(), q.Days)
		if err != nil {
			return fiber.NewError(statusForError(err), err.Error())
		}
		return c.JSON(resp)
	})

	v1.Get("/providers", func(c *fiber.Ctx) error {
		ids := make([]string, 0, len(backends))
		for id := range backends {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		out := make([]fiber.Map, 0, len(ids))
		for _, id := range ids {
			b := backends[id]
			out = append(out, fiber.Map{
				"id":                 id,
				"name":               b.Name(),
				"max_forecast_days":  b.MaxForecastDays(),
				"supports_geocoding": b.SupportsGeocoding(),
			})
		}
		return c.JSON(fiber.Map{"providers": out})
	})
}

// statusForError maps the library's error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, multiweather.ErrInvalidLocation),
		errors.Is(err, multiweather.ErrUnsupportedFeature):
		return fiber.StatusBadRequest
	case errors.Is(err, multiweather.ErrLocationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, multiweather.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
