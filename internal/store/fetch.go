package store

import (
	"context"
	"strconv"
	"time"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	"github.com/zatekoja/nursinghomefinder/internal/query"
)

// SetFilters merges patch into the current filters and fetches. A blank
// value in patch clears that filter. When no query parameters remain the
// results are cleared without a network request.
func (s *Store) SetFilters(ctx context.Context, patch entities.FilterState) (Outcome, error) {
	return s.fetch(ctx, "set_filters", func(current entities.FilterState) entities.FilterState {
		return current.Merge(patch)
	})
}

// ClearFilters blanks every filter. Location fallbacks are not applied to a
// cleared filter set, so this yields an empty query unless geolocation is known.
func (s *Store) ClearFilters(ctx context.Context) (Outcome, error) {
	return s.fetch(ctx, "clear_filters", func(current entities.FilterState) entities.FilterState {
		return current.Cleared()
	})
}

// Refetch re-issues the current query, or the query for explicit when it
// is non-nil. It is the user-initiated retry; nothing retries on its own.
func (s *Store) Refetch(ctx context.Context, explicit entities.FilterState) (Outcome, error) {
	return s.fetch(ctx, "refetch", func(current entities.FilterState) entities.FilterState {
		if explicit != nil {
			return explicit.Clone()
		}
		return current
	})
}

// fetch runs one cycle: Idle -> Loading -> Success|Failure -> Idle
func (s *Store) fetch(ctx context.Context, op string, next func(entities.FilterState) entities.FilterState) (Outcome, error) {
	return s.fetchAfter(ctx, op, nil, next)
}

// fetchAfter runs prepare under the same lock that starts the cycle, so no
// other response can land between the two. prepare returning false
// abandons the cycle as stale.
func (s *Store) fetchAfter(ctx context.Context, op string, prepare func() bool, next func(entities.FilterState) entities.FilterState) (Outcome, error) {
	ctx, span := observability.StartSpan(ctx, "store."+op)
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return OutcomeFailed, ErrClosed
	}
	if prepare != nil && !prepare() {
		s.mu.Unlock()
		return OutcomeStale, nil
	}

	filters := next(s.state.Filters)
	q, err := query.Build(query.Input{
		Filters:           filters,
		Coordinates:       s.state.Coordinates,
		LastLocationName:  s.state.LocationName,
		FirstFacilityName: s.state.FirstFacilityName(),
	})
	if err != nil {
		s.mu.Unlock()
		observability.RecordError(span, err)
		return OutcomeFailed, err
	}

	s.fetchSeq++
	seq := s.fetchSeq
	s.state.Filters = filters
	log := s.logger(ctx).With().
		Str("op", op).
		Uint64("seq", seq).
		Int("params", len(q.Params())).
		Logger()

	if q.IsEmpty() {
		s.state.Phase = PhaseIdle
		s.state.Facilities = nil
		s.state.Error = nil
		s.state.LocationDriven = false
		s.state.ResultsVersion++
		s.commit()
		s.mu.Unlock()

		observability.RecordFetch(ctx, s.metrics, string(OutcomeEmptyQuery), 0)
		log.Info().Str("outcome", string(OutcomeEmptyQuery)).Msg("no query parameters, skipped request")
		return OutcomeEmptyQuery, nil
	}

	s.state.Phase = PhaseLoading
	s.notify()
	s.mu.Unlock()

	started := time.Now()
	resp, fetchErr := s.source.Search(ctx, q.Values())
	elapsed := time.Since(started)

	s.mu.Lock()
	if seq != s.fetchSeq || s.closed {
		latest := s.fetchSeq
		s.mu.Unlock()

		observability.RecordStale(ctx, s.metrics)
		log.Debug().Uint64("latest_seq", latest).Msg("discarding superseded response")
		return OutcomeStale, nil
	}

	if fetchErr != nil {
		failure := &FetchError{Message: UserFacingError, Cause: fetchErr}
		s.state.Phase = PhaseIdle
		s.state.Facilities = nil
		s.state.Error = failure
		s.state.ResultsVersion++
		s.commit()
		s.mu.Unlock()

		observability.RecordError(span, fetchErr)
		observability.RecordFetch(ctx, s.metrics, string(OutcomeFailed), elapsed)
		log.Error().Err(fetchErr).Dur("elapsed", elapsed).Msg("facility fetch failed")
		if s.reporter != nil {
			s.reporter.Report(ctx, fetchErr, map[string]string{
				"operation":  op,
				"session_id": s.sessionID,
				"seq":        strconv.FormatUint(seq, 10),
			})
		}
		return OutcomeFailed, failure
	}

	if resp.CenterCoords != nil && resp.CenterCoords.Valid() {
		center := *resp.CenterCoords
		s.state.Coordinates = &center
	}
	if name := filters.Get(entities.FilterLocationName); name != "" {
		s.state.LocationName = name
	}
	s.state.Phase = PhaseIdle
	s.state.Facilities = s.resolver.ResolveAll(resp.Facilities, s.state.Coordinates)
	s.state.Error = nil
	s.state.LocationDriven = q.Get(query.ParamUserLat) != ""
	s.state.ResultsVersion++
	count := len(s.state.Facilities)
	s.commit()
	s.mu.Unlock()

	observability.RecordFetch(ctx, s.metrics, string(OutcomeApplied), elapsed)
	log.Info().
		Str("outcome", string(OutcomeApplied)).
		Int("facilities", count).
		Dur("elapsed", elapsed).
		Msg("facility fetch applied")
	return OutcomeApplied, nil
}
