package services

import (
	"context"
	"sync"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/pagination"
	"github.com/zatekoja/nursinghomefinder/internal/selection"
	"github.com/zatekoja/nursinghomefinder/internal/store"
)

// SessionView is everything a results page renders
type SessionView struct {
	Page         int                  `json:"page"`
	TotalPages   int                  `json:"totalPages"`
	Pages        []string             `json:"pages"`
	TotalResults int                  `json:"totalResults"`
	Facilities   []entities.Facility  `json:"facilities"`
	Map          selection.MapView    `json:"map"`
	Filters      entities.FilterState `json:"filters,omitempty"`
	LocationName string               `json:"locationName,omitempty"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
	Notice       string               `json:"notice,omitempty"`
}

// SearchSession couples the facility store with the result list pagination
// and the map selection for one user session. Whenever the store replaces
// its result list the page returns to 1 and the selection is cleared.
type SearchSession struct {
	store *store.Store

	mu      sync.Mutex
	pager   *pagination.Paginator
	mapSync *selection.Sync
	last    store.State
	loaded  bool
}

// NewSearchSession creates a session over st
func NewSearchSession(st *store.Store, pageSize, delta int, mapOpts selection.Options) *SearchSession {
	s := &SearchSession{
		store:   st,
		pager:   pagination.NewPaginator(pageSize, delta),
		mapSync: selection.NewSync(mapOpts),
	}
	s.refresh(st.State())
	return s
}

// Search applies a filter patch
func (s *SearchSession) Search(ctx context.Context, patch entities.FilterState) (store.Outcome, error) {
	outcome, err := s.store.SetFilters(ctx, patch)
	s.refresh(s.store.State())
	return outcome, err
}

// ClearFilters blanks every filter
func (s *SearchSession) ClearFilters(ctx context.Context) (store.Outcome, error) {
	outcome, err := s.store.ClearFilters(ctx)
	s.refresh(s.store.State())
	return outcome, err
}

// Retry re-issues the current query
func (s *SearchSession) Retry(ctx context.Context) (store.Outcome, error) {
	outcome, err := s.store.Refetch(ctx, nil)
	s.refresh(s.store.State())
	return outcome, err
}

// LocateUser runs a location-driven search from src
func (s *SearchSession) LocateUser(ctx context.Context, src providers.LocationSource) (store.Outcome, error) {
	outcome, err := s.store.LocateUser(ctx, src)
	s.refresh(s.store.State())
	return outcome, err
}

// SetCoordinates runs a search around coords
func (s *SearchSession) SetCoordinates(ctx context.Context, coords *entities.Coordinates) (store.Outcome, error) {
	outcome, err := s.store.SetCoordinates(ctx, coords)
	s.refresh(s.store.State())
	return outcome, err
}

// Watch follows store changes made through other handles until ctx ends or
// the store closes.
func (s *SearchSession) Watch(ctx context.Context) {
	for st := range s.store.Subscribe(ctx) {
		s.refresh(st)
	}
}

// GotoPage moves to page, clamped, and returns the page reached
func (s *SearchSession) GotoPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Goto(page)
}

// NextPage moves forward one page
func (s *SearchSession) NextPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Next()
}

// PrevPage moves back one page
func (s *SearchSession) PrevPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Prev()
}

// SelectFacility selects a result, switching to the page that holds it and
// recentering the map when it has coordinates. It returns false for an
// unknown id.
func (s *SearchSession) SelectFacility(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, f := range s.last.Facilities {
		if f.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}
	s.pager.Goto(s.pager.PageOf(index))
	return s.mapSync.Select(id)
}

// ClearSelection drops the selection and recenters on the default focal point
func (s *SearchSession) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapSync.ClearSelection()
}

// View renders the current page and map surface
func (s *SearchSession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := s.pager.Bounds()
	view := SessionView{
		Page:         s.pager.Current(),
		TotalPages:   s.pager.TotalPages(),
		Pages:        pagination.Labels(s.pager.Window()),
		TotalResults: len(s.last.Facilities),
		Facilities:   append([]entities.Facility{}, s.last.Facilities[start:end]...),
		Map:          s.mapSync.View(),
		Filters:      s.last.Filters,
		LocationName: s.last.LocationName,
		Loading:      s.last.Phase == store.PhaseLoading,
		Notice:       s.last.Notice,
	}
	if s.last.Error != nil {
		view.Error = s.last.Error.Message
	}
	return view
}

func (s *SearchSession) refresh(st store.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// snapshots may arrive out of order from Watch; never go backwards
	if s.loaded && st.ResultsVersion < s.last.ResultsVersion {
		return
	}
	changed := !s.loaded || st.ResultsVersion != s.last.ResultsVersion
	s.last = st
	s.loaded = true
	if changed {
		s.pager.Reset(len(st.Facilities))
		s.mapSync.Load(st.Facilities, st.Coordinates, st.LocationDriven)
	}
}
