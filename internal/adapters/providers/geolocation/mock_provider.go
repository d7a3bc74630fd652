package geolocation

import (
	"context"
	"fmt"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
)

type knownCity struct {
	city  string
	state string
	at    entities.Coordinates
}

var knownCities = []knownCity{
	{"New York", "NY", entities.Coordinates{Lat: 40.7128, Lng: -74.0060}},
	{"Los Angeles", "CA", entities.Coordinates{Lat: 34.0522, Lng: -118.2437}},
	{"Chicago", "IL", entities.Coordinates{Lat: 41.8781, Lng: -87.6298}},
	{"Houston", "TX", entities.Coordinates{Lat: 29.7604, Lng: -95.3698}},
	{"Phoenix", "AZ", entities.Coordinates{Lat: 33.4484, Lng: -112.0740}},
	{"Philadelphia", "PA", entities.Coordinates{Lat: 39.9526, Lng: -75.1652}},
	{"Denver", "CO", entities.Coordinates{Lat: 39.7392, Lng: -104.9903}},
	{"Seattle", "WA", entities.Coordinates{Lat: 47.6062, Lng: -122.3321}},
	{"Miami", "FL", entities.Coordinates{Lat: 25.7617, Lng: -80.1918}},
	{"San Francisco", "CA", entities.Coordinates{Lat: 37.7749, Lng: -122.4194}},
}

// MockGeolocationProvider resolves coordinates to the nearest of a fixed set
// of US cities. It is used offline and in tests.
type MockGeolocationProvider struct{}

var _ providers.GeolocationProvider = (*MockGeolocationProvider)(nil)

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() *MockGeolocationProvider {
	return &MockGeolocationProvider{}
}

// ReverseGeocode converts coordinates to an address (mock implementation)
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*providers.GeocodedAddress, error) {
	at := entities.Coordinates{Lat: lat, Lng: lng}
	nearest := knownCities[0]
	best := geo.DistanceKm(at, nearest.at)
	for _, c := range knownCities[1:] {
		if d := geo.DistanceKm(at, c.at); d < best {
			nearest, best = c, d
		}
	}

	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%s, %s, USA", nearest.city, nearest.state),
		City:             nearest.city,
		State:            nearest.state,
		Country:          "USA",
		Coordinates:      at,
	}, nil
}
