package entities

import (
	"math"
	"strings"
)

// Facility represents a nursing home after derived fields have been resolved
type Facility struct {
	ID                   string       `json:"id"`
	DisplayName          string       `json:"displayName"`
	ProviderName         string       `json:"providerName,omitempty"`
	Address              Address      `json:"address"`
	Coordinates          *Coordinates `json:"coordinates,omitempty"`
	Phone                string       `json:"phone,omitempty"`
	Photo                string       `json:"photo,omitempty"`
	BedsCertified        int          `json:"bedsCertified"`
	AverageResidents     *float64     `json:"averageResidents,omitempty"`
	OwnershipType        string       `json:"ownershipType,omitempty"`
	OwnershipIsNonProfit bool         `json:"ownershipIsNonProfit"`
	Ratings              Ratings      `json:"ratings"`
	ReviewRating         *float64     `json:"reviewRating,omitempty"`
	ReviewCount          int          `json:"reviewCount,omitempty"`
	Status               Status       `json:"status"`
	ReviewDigest         ReviewDigest `json:"reviewDigest"`
	DistanceFromOrigin   *float64     `json:"distanceFromOrigin,omitempty"`
}

// Address represents a physical address; any part may be missing
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Format renders "street, city, state zip" leaving out missing parts
// without dangling separators.
func (a Address) Format() string {
	region := strings.TrimSpace(strings.Join(nonBlank(a.State, a.Zip), " "))
	return strings.Join(nonBlank(a.Street, a.City, region), ", ")
}

func nonBlank(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite, in range, and not the
// (0,0) sentinel, which upstream data uses for "unset".
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// NewCoordinates returns nil unless lat/lng form a valid pair
func NewCoordinates(lat, lng float64) *Coordinates {
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

// Ratings holds CMS star ratings on a 0-5 scale. A nil field is absent and
// must be displayed as such; Composite treats it as 0.
type Ratings struct {
	Overall          *float64 `json:"overall,omitempty"`
	HealthInspection *float64 `json:"healthInspection,omitempty"`
	Staffing         *float64 `json:"staffing,omitempty"`
	QualityMeasure   *float64 `json:"qualityMeasure,omitempty"`
}

// Composite is the mean of the four sub-ratings with absent values counted as 0
func (r Ratings) Composite() float64 {
	values := []*float64{r.Overall, r.HealthInspection, r.Staffing, r.QualityMeasure}
	var sum float64
	for _, v := range values {
		if v != nil {
			sum += *v
		}
	}
	return sum / float64(len(values))
}

// Status is the occupancy-based availability of a facility
type Status string

const (
	StatusAccepting Status = "Accepting"
	StatusWaitlist  Status = "Waitlist"
	StatusFull      Status = "Full"
	StatusUnknown   Status = "Unknown"
)

// ReviewDigest holds the flattened pros/cons text of an AI review summary.
// Both fields are always non-empty.
type ReviewDigest struct {
	Pros string `json:"pros"`
	Cons string `json:"cons"`
}

// MapPoint is a facility position labelled for a map marker
type MapPoint struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}
