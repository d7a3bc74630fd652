package services_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/nursinghomefinder/internal/application/services"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/clients/facilityapi"
	"github.com/zatekoja/nursinghomefinder/internal/selection"
	"github.com/zatekoja/nursinghomefinder/internal/store"
)

// chicagoFacilities renders n facilities at distinct coordinates around the Loop
func chicagoFacilities(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{
			"federal_provider_number": "IL%03d",
			"provider_name": "Lakeview Care %d",
			"city_town": "Chicago",
			"state": "IL",
			"number_of_certified_beds": "100",
			"average_number_of_residents_per_day": "%d",
			"overall_rating": "%d",
			"latitude": %f,
			"longitude": %f
		}`, i, i, 60+i*3, 1+i%5, 41.80+float64(i)*0.01, -87.70+float64(i)*0.005))
	}
	return `{"facilities": [` + strings.Join(items, ",") + `]}`
}

func newSession(t *testing.T, handler http.HandlerFunc) (*services.SearchSession, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st, err := store.New(context.Background(), store.Options{
		Source: facilityapi.NewClient(server.URL, 2*time.Second),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return services.NewSearchSession(st, 6, 2, selection.DefaultOptions()), server
}

func TestSearchSession_ChicagoEndToEnd(t *testing.T) {
	body := chicagoFacilities(12)
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter", r.URL.Path)
		assert.Equal(t, "Chicago", r.URL.Query().Get("city"))
		_, _ = w.Write([]byte(body))
	})

	outcome, err := session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeApplied, outcome)

	view := session.View()
	assert.Equal(t, 12, view.TotalResults)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, []string{"1", "2"}, view.Pages)
	assert.Equal(t, 1, view.Page)
	require.Len(t, view.Facilities, 6)
	assert.Len(t, view.Map.Markers, 12)
	assert.Equal(t, selection.ZoomFitBounds, view.Map.Zoom.Mode)

	// item 7 lives on page 2
	require.True(t, session.SelectFacility("IL007"))

	view = session.View()
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, "IL007", view.Map.SelectedID)
	assert.InDelta(t, 41.87, view.Map.Focal.Lat, 1e-9)
	assert.InDelta(t, -87.665, view.Map.Focal.Lng, 1e-9)
	require.Len(t, view.Facilities, 6)
	assert.Equal(t, "IL007", view.Facilities[0].ID)
}

func TestSearchSession_NewResultsResetPageAndSelection(t *testing.T) {
	var calls atomic.Int32
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("city") == "Chicago" {
			_, _ = w.Write([]byte(chicagoFacilities(12)))
			return
		}
		_, _ = w.Write([]byte(chicagoFacilities(3)))
	})

	_, err := session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
	require.NoError(t, err)
	assert.Equal(t, 2, session.NextPage())
	require.True(t, session.SelectFacility("IL009"))

	_, err = session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Evanston"})
	require.NoError(t, err)

	view := session.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.Empty(t, view.Map.SelectedID)
	assert.Len(t, view.Facilities, 3)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchSession_SelectUnknownOrUnlocated(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"facilities": [
			{"id": "here", "provider_name": "Here", "latitude": 41.9, "longitude": -87.6},
			{"id": "nowhere", "provider_name": "Nowhere", "latitude": 0, "longitude": 0}
		]}`))
	})

	_, err := session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
	require.NoError(t, err)

	before := session.View().Map.Focal
	assert.False(t, session.SelectFacility("missing"))

	require.True(t, session.SelectFacility("nowhere"))
	view := session.View()
	assert.Equal(t, before, view.Map.Focal)
	assert.Equal(t, "nowhere", view.Map.SelectedID)
	assert.Len(t, view.Map.Markers, 1)
	assert.Equal(t, selection.ZoomSingle, view.Map.Zoom.Mode)
}

func TestSearchSession_FailureShowsSingleMessage(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	outcome, err := session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
	require.Error(t, err)
	assert.Equal(t, store.OutcomeFailed, outcome)

	view := session.View()
	assert.Equal(t, store.UserFacingError, view.Error)
	assert.Empty(t, view.Facilities)
	assert.Empty(t, view.Pages)
	assert.Equal(t, geo.FallbackCenter, view.Map.Focal)
	assert.Equal(t, selection.ZoomContinental, view.Map.Zoom.Mode)
}

func TestSearchSession_ClearFiltersEmptiesResults(t *testing.T) {
	session, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chicagoFacilities(4)))
	})

	_, err := session.Search(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
	require.NoError(t, err)

	outcome, err := session.ClearFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeEmptyQuery, outcome)
	assert.Equal(t, 0, session.View().TotalResults)
}

func TestSearchSession_WatchFollowsStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chicagoFacilities(7)))
	}))
	defer server.Close()

	st, err := store.New(context.Background(), store.Options{Source: facilityapi.NewClient(server.URL, time.Second)})
	require.NoError(t, err)
	defer st.Close()

	session := services.NewSearchSession(st, 6, 2, selection.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Watch(ctx)

	// Watch subscribes asynchronously; keep driving the store until the session catches up
	assert.Eventually(t, func() bool {
		_, _ = st.SetFilters(context.Background(), entities.FilterState{entities.FilterCity: "Chicago"})
		return session.View().TotalResults == 7
	}, 2*time.Second, 20*time.Millisecond)
}
