package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
)

var (
	chicago    = entities.Coordinates{Lat: 41.8781, Lng: -87.6298}
	newYork    = entities.Coordinates{Lat: 40.7128, Lng: -74.0060}
	losAngeles = entities.Coordinates{Lat: 34.0522, Lng: -118.2437}
)

func TestDistanceKm_Identity(t *testing.T) {
	for _, c := range []entities.Coordinates{chicago, newYork, losAngeles, {Lat: -33.86, Lng: 151.2}} {
		assert.Equal(t, 0.0, geo.DistanceKm(c, c))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]entities.Coordinates{
		{chicago, newYork},
		{newYork, losAngeles},
		{losAngeles, {Lat: -33.86, Lng: 151.2}},
	}
	for _, p := range pairs {
		assert.Equal(t, geo.DistanceKm(p[0], p[1]), geo.DistanceKm(p[1], p[0]))
		assert.GreaterOrEqual(t, geo.DistanceKm(p[0], p[1]), 0.0)
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Chicago to New York is roughly 1145 km along the great circle.
	assert.InDelta(t, 1145, geo.DistanceKm(chicago, newYork), 5)
}

func TestDistanceBetween_RequiresValidPoints(t *testing.T) {
	assert.Nil(t, geo.DistanceBetween(nil, &chicago))
	assert.Nil(t, geo.DistanceBetween(&entities.Coordinates{}, &chicago))

	d := geo.DistanceBetween(&chicago, &newYork)
	require.NotNil(t, d)
	assert.InDelta(t, geo.DistanceKm(chicago, newYork), *d, 1e-9)
}

func TestRegionCenter_MeanOfValidPoints(t *testing.T) {
	center := geo.RegionCenter([]entities.Coordinates{
		{Lat: 40, Lng: -80},
		{Lat: 42, Lng: -84},
		{Lat: 0, Lng: 0},
		{Lat: math.NaN(), Lng: 1},
	})

	assert.InDelta(t, 41, center.Lat, 1e-9)
	assert.InDelta(t, -82, center.Lng, 1e-9)
}

func TestRegionCenter_FallbackWhenNothingValid(t *testing.T) {
	assert.Equal(t, geo.FallbackCenter, geo.RegionCenter(nil))
	assert.Equal(t, geo.FallbackCenter, geo.RegionCenter([]entities.Coordinates{{}, {Lat: 0, Lng: 0}}))

	custom := entities.Coordinates{Lat: 6.52, Lng: 3.37}
	assert.Equal(t, custom, geo.Center(nil, custom))
}

func TestExtractValidCoordinates_SkipsSentinelAndMissing(t *testing.T) {
	facilities := []entities.Facility{
		{ID: "a", DisplayName: "Lakeview Care", Coordinates: &chicago},
		{ID: "b", DisplayName: "Origin Manor", Coordinates: &entities.Coordinates{Lat: 0, Lng: 0}},
		{ID: "c", DisplayName: "No Map Home"},
		{ID: "d", ProviderName: "HUDSON REHAB", Coordinates: &newYork},
		{ID: "e", Coordinates: &losAngeles},
	}

	points := geo.ExtractValidCoordinates(facilities)

	require.Len(t, points, 3)
	assert.Equal(t, entities.MapPoint{Lat: chicago.Lat, Lng: chicago.Lng, Name: "Lakeview Care"}, points[0])
	assert.Equal(t, "HUDSON REHAB", points[1].Name)
	assert.Equal(t, geo.GenericFacilityLabel, points[2].Name)
	for _, p := range points {
		assert.False(t, p.Lat == 0 && p.Lng == 0)
	}
}

func TestBounds(t *testing.T) {
	_, ok := geo.Bounds(nil)
	assert.False(t, ok)

	bound, ok := geo.Bounds([]entities.MapPoint{
		{Lat: chicago.Lat, Lng: chicago.Lng},
		{Lat: newYork.Lat, Lng: newYork.Lng},
	})
	require.True(t, ok)
	assert.Equal(t, newYork.Lat, bound.Min.Lat())
	assert.Equal(t, chicago.Lat, bound.Max.Lat())
	assert.Equal(t, chicago.Lng, bound.Min.Lon())
	assert.Equal(t, newYork.Lng, bound.Max.Lon())
}
