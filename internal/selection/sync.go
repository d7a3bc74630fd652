package selection

import (
	"github.com/paulmach/orb"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
)

// ZoomMode tells the map surface how to frame its markers
type ZoomMode string

const (
	// ZoomSingle zooms close onto a single marker
	ZoomSingle ZoomMode = "single"
	// ZoomFitBounds fits the viewport to all markers
	ZoomFitBounds ZoomMode = "fit_bounds"
	// ZoomContinental shows the continental default view
	ZoomContinental ZoomMode = "continental"
)

// ZoomHint is the framing suggestion for the map surface. Level is set for
// single and continental modes, Bounds for fit-bounds.
type ZoomHint struct {
	Mode   ZoomMode   `json:"mode"`
	Level  int        `json:"level,omitempty"`
	Bounds *orb.Bound `json:"bounds,omitempty"`
}

// MapView is everything the map surface needs to render
type MapView struct {
	Markers    []entities.MapPoint  `json:"markers"`
	Focal      entities.Coordinates `json:"focal"`
	Zoom       ZoomHint             `json:"zoom"`
	SelectedID string               `json:"selectedId,omitempty"`
}

// Options configures map defaults
type Options struct {
	Fallback        entities.Coordinates
	SingleZoom      int
	ContinentalZoom int
}

// DefaultOptions returns the continental-US defaults
func DefaultOptions() Options {
	return Options{Fallback: geo.FallbackCenter, SingleZoom: 14, ContinentalZoom: 4}
}

// Sync couples the selected result-list item to the map focal point.
// It is not safe for concurrent use.
type Sync struct {
	opts           Options
	facilities     []entities.Facility
	origin         *entities.Coordinates
	locationDriven bool
	selectedID     string
	focal          entities.Coordinates
}

// NewSync creates a Sync with no results, focused on the fallback center
func NewSync(opts Options) *Sync {
	if !opts.Fallback.Valid() {
		opts.Fallback = geo.FallbackCenter
	}
	return &Sync{opts: opts, focal: opts.Fallback}
}

// Load replaces the result set, clears the selection and recomputes the
// default focal point. When the search is location-driven and origin is
// valid the map centers on origin; otherwise on the centroid of the
// facilities, or the fallback center when none have coordinates.
func (s *Sync) Load(facilities []entities.Facility, origin *entities.Coordinates, locationDriven bool) {
	s.facilities = facilities
	s.origin = origin
	s.locationDriven = locationDriven
	s.selectedID = ""
	s.focal = s.defaultFocal()
}

// Select marks a facility as selected. Facilities with valid coordinates
// become the focal point; others leave the map where it is. It returns false
// when id is not in the result set.
func (s *Sync) Select(id string) bool {
	f, ok := s.find(id)
	if !ok {
		return false
	}
	s.selectedID = id
	if f.Coordinates != nil && f.Coordinates.Valid() {
		s.focal = *f.Coordinates
	}
	return true
}

// ClearSelection drops the selection and returns to the default focal point
func (s *Sync) ClearSelection() {
	s.selectedID = ""
	s.focal = s.defaultFocal()
}

// Selected returns the selected facility, if any
func (s *Sync) Selected() (entities.Facility, bool) {
	if s.selectedID == "" {
		return entities.Facility{}, false
	}
	return s.find(s.selectedID)
}

// Focal returns the current map focal point
func (s *Sync) Focal() entities.Coordinates {
	return s.focal
}

// View builds the map surface: one close zoom for a single marker, a
// bounds fit for several, the continental default for none.
func (s *Sync) View() MapView {
	markers := geo.ExtractValidCoordinates(s.facilities)
	view := MapView{Markers: markers, Focal: s.focal, SelectedID: s.selectedID}

	switch len(markers) {
	case 0:
		view.Zoom = ZoomHint{Mode: ZoomContinental, Level: s.opts.ContinentalZoom}
	case 1:
		view.Zoom = ZoomHint{Mode: ZoomSingle, Level: s.opts.SingleZoom}
	default:
		bound, _ := geo.Bounds(markers)
		view.Zoom = ZoomHint{Mode: ZoomFitBounds, Bounds: &bound}
	}
	return view
}

func (s *Sync) defaultFocal() entities.Coordinates {
	if s.locationDriven && s.origin != nil && s.origin.Valid() {
		return *s.origin
	}
	return geo.Center(geo.FacilityCoordinates(s.facilities), s.opts.Fallback)
}

func (s *Sync) find(id string) (entities.Facility, bool) {
	for _, f := range s.facilities {
		if f.ID == id {
			return f, true
		}
	}
	return entities.Facility{}, false
}
