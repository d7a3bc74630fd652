package store

import (
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

// UserFacingError is the single message shown for every fetch failure
const UserFacingError = "could not load facilities"

// Phase is the fetch-cycle position of the store
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
)

// Outcome describes what a store operation did
type Outcome string

const (
	// OutcomeApplied means a response replaced the result set
	OutcomeApplied Outcome = "applied"
	// OutcomeEmptyQuery means no parameters remained; results were cleared without a request
	OutcomeEmptyQuery Outcome = "empty_query"
	// OutcomeStale means a newer operation superseded this one and its result was discarded
	OutcomeStale Outcome = "stale"
	// OutcomeFailed means the operation failed; see the returned error
	OutcomeFailed Outcome = "failed"
)

// FetchError is the user-visible failure state. Cause keeps the underlying
// NETWORK, HTTP or DECODE error for diagnostics.
type FetchError struct {
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// State is an immutable snapshot of the store
type State struct {
	Phase        Phase
	Facilities   []entities.Facility
	Filters      entities.FilterState
	Coordinates  *entities.Coordinates
	LocationName string
	Error        *FetchError
	// Notice carries non-fatal geolocation problems
	Notice string
	// LocationDriven is true when the applied query carried userLat/userLng
	LocationDriven bool
	// ResultsVersion increases every time the facility list is replaced
	ResultsVersion uint64
}

func (s State) clone() State {
	out := s
	if s.Facilities != nil {
		out.Facilities = append([]entities.Facility(nil), s.Facilities...)
	}
	out.Filters = s.Filters.Clone()
	if s.Coordinates != nil {
		c := *s.Coordinates
		out.Coordinates = &c
	}
	return out
}

// FirstFacilityName is the display name of the first result, if any
func (s State) FirstFacilityName() string {
	if len(s.Facilities) == 0 {
		return ""
	}
	return s.Facilities[0].DisplayName
}
