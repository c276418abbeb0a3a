// Package geocode resolves free-text place names to coordinate pairs. It is
// used by backends without native geocoding support and is usable standalone.
package geocode

import "context"

// Resolver turns a place name (optionally qualified by a country) into a
// single best-match coordinate pair. Implementations return
// multiweather.ErrLocationNotFound when no match exists.
type Resolver interface {
	Resolve(ctx context.Context, name, country string) (lat, lon float64, err error)
}
