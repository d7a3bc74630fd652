package geolocation

import (
	"context"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

// StaticLocationSource reports a fixed position, e.g. from command-line flags
type StaticLocationSource struct {
	At entities.Coordinates
}

var _ providers.LocationSource = StaticLocationSource{}

// CurrentLocation returns the configured position if it is valid
func (s StaticLocationSource) CurrentLocation(ctx context.Context) (entities.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return entities.Coordinates{}, apperrors.NewGeolocationError("location request cancelled", err)
	}
	if !s.At.Valid() {
		return entities.Coordinates{}, apperrors.NewGeolocationError("position unavailable", nil)
	}
	return s.At, nil
}

// DeniedLocationSource behaves like a user who refused location access
type DeniedLocationSource struct{}

var _ providers.LocationSource = DeniedLocationSource{}

// CurrentLocation always fails with a geolocation error
func (DeniedLocationSource) CurrentLocation(ctx context.Context) (entities.Coordinates, error) {
	return entities.Coordinates{}, apperrors.NewGeolocationError("location access denied", nil)
}
