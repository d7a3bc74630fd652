package entities_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

func TestAddress_Format(t *testing.T) {
	tests := []struct {
		name    string
		address entities.Address
		want    string
	}{
		{"full", entities.Address{Street: "1 Elm St", City: "Chicago", State: "IL", Zip: "60601"}, "1 Elm St, Chicago, IL 60601"},
		{"no street", entities.Address{City: "Chicago", State: "IL", Zip: "60601"}, "Chicago, IL 60601"},
		{"no zip", entities.Address{Street: "1 Elm St", City: "Chicago", State: "IL"}, "1 Elm St, Chicago, IL"},
		{"zip only", entities.Address{Zip: "60601"}, "60601"},
		{"blank parts", entities.Address{Street: "  ", City: "Chicago"}, "Chicago"},
		{"empty", entities.Address{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.address.Format())
		})
	}
}

func TestCoordinates_Valid(t *testing.T) {
	assert.True(t, entities.Coordinates{Lat: 41.88, Lng: -87.63}.Valid())
	assert.True(t, entities.Coordinates{Lat: 0, Lng: 10}.Valid())
	assert.False(t, entities.Coordinates{}.Valid(), "(0,0) is the unset sentinel")
	assert.False(t, entities.Coordinates{Lat: math.NaN(), Lng: 1}.Valid())
	assert.False(t, entities.Coordinates{Lat: 1, Lng: math.Inf(1)}.Valid())
	assert.False(t, entities.Coordinates{Lat: 91, Lng: 1}.Valid())

	assert.Nil(t, entities.NewCoordinates(0, 0))
	assert.Equal(t, &entities.Coordinates{Lat: 1, Lng: 2}, entities.NewCoordinates(1, 2))
}

func TestRatings_CompositeCountsAbsentAsZero(t *testing.T) {
	four, two := 4.0, 2.0
	r := entities.Ratings{Overall: &four, Staffing: &two}

	assert.Equal(t, 1.5, r.Composite())
	assert.Nil(t, r.HealthInspection)
	assert.Equal(t, 0.0, entities.Ratings{}.Composite())
}

func TestFilterState_EmptyVersusCleared(t *testing.T) {
	var empty entities.FilterState
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsCleared())

	cleared := empty.Cleared()
	assert.False(t, cleared.IsEmpty())
	assert.True(t, cleared.IsCleared())

	set := entities.FilterState{entities.FilterCity: "Chicago"}
	assert.False(t, set.IsCleared())
}

func TestFilterState_MergeTrimsAndClears(t *testing.T) {
	base := entities.FilterState{entities.FilterCity: "Chicago", entities.FilterStateCode: "IL"}

	merged := base.Merge(entities.FilterState{entities.FilterCity: "", entities.FilterRatingMin: " 4 "})

	assert.Equal(t, "", merged.Get(entities.FilterCity))
	assert.Equal(t, "IL", merged.Get(entities.FilterStateCode))
	assert.Equal(t, "4", merged.Get(entities.FilterRatingMin))
	assert.Equal(t, "Chicago", base.Get(entities.FilterCity), "merge must not mutate the receiver")

	assert.Nil(t, entities.FilterState(nil).Clone())
}
