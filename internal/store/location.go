package store

import (
	"context"

	"github.com/zatekoja/nursinghomefinder/internal/derive"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

// LocationNotice is shown when geolocation is unavailable; search by filters keeps working
const LocationNotice = "your location is unavailable, search by city or state instead"

// SetCoordinates replaces the reference point and fetches with the current
// filters. nil clears it.
func (s *Store) SetCoordinates(ctx context.Context, coords *entities.Coordinates) (Outcome, error) {
	if coords != nil && !coords.Valid() {
		return OutcomeFailed, apperrors.NewValidationError("coordinates must be finite, in range and not (0,0)")
	}

	return s.fetchAfter(ctx, "set_coordinates", func() bool {
		s.applyCoordinates(coords, "")
		return true
	}, keepFilters)
}

// LocateUser acquires the user's position from src, reverse geocodes it into
// the tracked location name when a geocoder is configured, then fetches.
//
// Acquisition failures are non-fatal: the store records a notice and keeps
// its results. Only the latest LocateUser call may update Coordinates.
func (s *Store) LocateUser(ctx context.Context, src providers.LocationSource) (Outcome, error) {
	ctx, span := observability.StartSpan(ctx, "store.locate_user")
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return OutcomeFailed, ErrClosed
	}
	s.locSeq++
	seq := s.locSeq
	s.mu.Unlock()

	log := s.logger(ctx).With().Uint64("loc_seq", seq).Logger()

	coords, err := src.CurrentLocation(ctx)
	if err == nil && !coords.Valid() {
		err = apperrors.NewGeolocationError("location source returned invalid coordinates", nil)
	}
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeGeolocation) {
			err = apperrors.NewGeolocationError("location unavailable", err)
		}
		observability.RecordError(span, err)

		s.mu.Lock()
		if seq != s.locSeq || s.closed {
			s.mu.Unlock()
			return OutcomeStale, nil
		}
		s.state.Notice = LocationNotice
		s.notify()
		s.mu.Unlock()

		log.Warn().Err(err).Msg("geolocation unavailable")
		return OutcomeFailed, err
	}

	var name string
	if s.geocoder != nil {
		addr, gerr := s.geocoder.ReverseGeocode(ctx, coords.Lat, coords.Lng)
		if gerr != nil {
			log.Warn().Err(gerr).Msg("reverse geocoding failed, keeping previous location name")
		} else {
			name = addr.LocationName()
		}
	}

	located := false
	outcome, err := s.fetchAfter(ctx, "locate_user", func() bool {
		if seq != s.locSeq {
			return false
		}
		s.applyCoordinates(&coords, name)
		located = true
		return true
	}, keepFilters)
	if located {
		log.Info().Str("location_name", name).Msg("user located")
	} else if err == nil {
		log.Debug().Msg("discarding superseded location fix")
	}
	return outcome, err
}

// applyCoordinates updates the reference point and recomputes distances.
// Responses still in flight were requested against the old point and become
// stale. Callers hold s.mu.
func (s *Store) applyCoordinates(coords *entities.Coordinates, locationName string) {
	if coords != nil {
		c := *coords
		coords = &c
	}
	s.state.Coordinates = coords
	if locationName != "" {
		s.state.LocationName = locationName
	}
	s.state.Notice = ""
	s.state.Facilities = derive.Relocate(s.state.Facilities, coords)
	s.state.Phase = PhaseIdle
	s.fetchSeq++
	s.commit()
}

func keepFilters(current entities.FilterState) entities.FilterState {
	return current
}
