package multiweather

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location identifies where to fetch weather for: either a coordinate pair or
// a free-text place name. Place names require a backend (or configured
// resolver) with geocoding support.
type Location struct {
	Lat float64 `json:"lat,omitempty" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon,omitempty" validate:"gte=-180,lte=180"`

	// Name is the free-text place name. When set, coordinates are ignored and
	// the location is resolved through geocoding.
	Name string `json:"name,omitempty"`
	// Country optionally qualifies Name (e.g. "DE").
	Country string `json:"country,omitempty"`

	coords bool
}

// Coordinates builds a Location from a latitude/longitude pair.
func Coordinates(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon, coords: true}
}

// PlaceName builds a Location from a free-text place name.
func PlaceName(name string) Location {
	return Location{Name: name}
}

// PlaceNameIn builds a Location from a place name qualified by a country.
func PlaceNameIn(name, country string) Location {
	return Location{Name: name, Country: country}
}

// IsCoordinates reports whether the location carries a coordinate pair rather
// than a place name.
func (l Location) IsCoordinates() bool { return l.coords }

// Validate checks the location before any network call. Failures wrap
// ErrInvalidLocation.
func (l Location) Validate() error {
	if l.coords {
		if err := validate.Struct(l); err != nil {
			return fmt.Errorf("%w: coordinates (%v, %v) out of range", ErrInvalidLocation, l.Lat, l.Lon)
		}
		return nil
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: empty place name", ErrInvalidLocation)
	}
	return nil
}

func (l Location) String() string {
	if l.coords {
		return fmt.Sprintf("%g,%g", l.Lat, l.Lon)
	}
	if l.Country != "" {
		return l.Name + "," + l.Country
	}
	return l.Name
}
