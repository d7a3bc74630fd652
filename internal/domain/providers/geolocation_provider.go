package providers

import (
	"context"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

// GeolocationProvider resolves coordinates into a human-readable place
type GeolocationProvider interface {
	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodedAddress, error)
}

// LocationSource acquires the user's current position, e.g. a browser or OS
// location API. Implementations return an error when access is denied.
type LocationSource interface {
	CurrentLocation(ctx context.Context) (entities.Coordinates, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string
	Street           string
	City             string
	State            string
	ZipCode          string
	Country          string
	Coordinates      entities.Coordinates
}

// LocationName is the label used for location-driven searches: "City, ST"
// when both parts are known, otherwise whichever part exists, otherwise the
// formatted address.
func (a *GeocodedAddress) LocationName() string {
	switch {
	case a == nil:
		return ""
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "":
		return a.City
	case a.State != "":
		return a.State
	default:
		return a.FormattedAddress
	}
}
