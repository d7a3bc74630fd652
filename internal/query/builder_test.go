package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/query"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

func TestBuild_SingleFilter(t *testing.T) {
	q, err := query.Build(query.Input{
		Filters: entities.FilterState{entities.FilterRatingMin: "4"},
	})

	require.NoError(t, err)
	assert.False(t, q.IsEmpty())
	assert.Equal(t, "4", q.Get("ratingMin"))
	assert.Equal(t, "ratingMin=4", q.Encode())
}

func TestBuild_EmptyQueryWhenNothingToSend(t *testing.T) {
	for name, filters := range map[string]entities.FilterState{
		"nil":     nil,
		"blank":   {entities.FilterCity: "  ", entities.FilterRatingMin: ""},
		"cleared": entities.FilterState(nil).Cleared(),
	} {
		t.Run(name, func(t *testing.T) {
			q, err := query.Build(query.Input{Filters: filters})
			require.NoError(t, err)
			assert.True(t, q.IsEmpty())
			assert.Empty(t, q.Encode())
		})
	}
}

func TestBuild_CanonicalOrder(t *testing.T) {
	q, err := query.Build(query.Input{
		Filters: entities.FilterState{
			entities.FilterStateCode: "IL",
			entities.FilterCity:      "Chicago",
			entities.FilterRatingMin: "3",
			entities.FilterDistance:  "25",
			entities.FilterOwnership: "non-profit",
			entities.FilterBeds:      "50-100",
		},
		Coordinates: &entities.Coordinates{Lat: 41.8781, Lng: -87.6298},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"ratingMin=3&distance=25&beds=50-100&ownership=non-profit&city=Chicago&state=IL&userLat=41.8781&userLng=-87.6298",
		q.Encode())
	assert.Equal(t, "Chicago", q.Values().Get("city"))
}

func TestBuild_LocationPrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   query.Input
		want string
	}{
		{
			name: "explicit filter wins",
			in: query.Input{
				Filters:           entities.FilterState{entities.FilterLocationName: "Evanston, IL"},
				LastLocationName:  "Chicago, IL",
				FirstFacilityName: "Lakeview Care",
			},
			want: "Evanston, IL",
		},
		{
			name: "last resolved location",
			in: query.Input{
				Filters:           entities.FilterState{entities.FilterCity: "Chicago"},
				LastLocationName:  "Chicago, IL",
				FirstFacilityName: "Lakeview Care",
			},
			want: "Chicago, IL",
		},
		{
			name: "first facility name",
			in:   query.Input{FirstFacilityName: "Lakeview Care"},
			want: "Lakeview Care",
		},
		{
			name: "omitted",
			in:   query.Input{Filters: entities.FilterState{entities.FilterCity: "Chicago"}},
			want: "",
		},
		{
			name: "cleared filters ignore fallbacks",
			in: query.Input{
				Filters:           entities.FilterState(nil).Cleared(),
				LastLocationName:  "Chicago, IL",
				FirstFacilityName: "Lakeview Care",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := query.Build(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Get(string(entities.FilterLocationName)))
		})
	}
}

func TestBuild_GeolocationAlwaysAttached(t *testing.T) {
	q, err := query.Build(query.Input{
		Filters:     entities.FilterState(nil).Cleared(),
		Coordinates: &entities.Coordinates{Lat: 40.5, Lng: -74.25},
	})

	require.NoError(t, err)
	assert.False(t, q.IsEmpty())
	assert.Equal(t, "40.5", q.Get(query.ParamUserLat))
	assert.Equal(t, "-74.25", q.Get(query.ParamUserLng))
}

func TestBuild_SentinelCoordinatesNotAttached(t *testing.T) {
	q, err := query.Build(query.Input{Coordinates: &entities.Coordinates{}})

	require.NoError(t, err)
	assert.True(t, q.IsEmpty())
}

func TestBuild_ValidatesNumericFilters(t *testing.T) {
	for _, filters := range []entities.FilterState{
		{entities.FilterRatingMin: "great"},
		{entities.FilterRatingMin: "6"},
		{entities.FilterDistance: "-1"},
		{entities.FilterDistance: "far"},
		{entities.FilterRatingMin: "NaN"},
		{entities.FilterRatingMin: "-Inf"},
		{entities.FilterDistance: "Inf"},
		{entities.FilterDistance: "+Infinity"},
		{entities.FilterDistance: "nan"},
	} {
		_, err := query.Build(query.Input{Filters: filters})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	}
}

func TestQuery_ParamsIsACopy(t *testing.T) {
	q, err := query.Build(query.Input{Filters: entities.FilterState{entities.FilterCity: "Chicago"}})
	require.NoError(t, err)

	params := q.Params()
	params[0].Value = "Peoria"

	assert.Equal(t, "Chicago", q.Get("city"))
}
