package geo

import (
	"strings"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

// earthRadiusKm is the Earth's volumetric mean radius
const earthRadiusKm = 6371.0

// GenericFacilityLabel names a facility that carries no usable name
const GenericFacilityLabel = "Nursing Home"

// FallbackCenter is the geographic center of the contiguous United States,
// used when there is nothing valid to center a map on.
var FallbackCenter = entities.Coordinates{Lat: 39.8283, Lng: -98.5795}

// DistanceKm returns the great-circle distance between a and b in kilometers.
// Both inputs must be finite.
func DistanceKm(a, b entities.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// DistanceBetween is DistanceKm for optional coordinates; it returns nil
// unless both points are valid.
func DistanceBetween(a, b *entities.Coordinates) *float64 {
	if a == nil || b == nil || !a.Valid() || !b.Valid() {
		return nil
	}
	d := DistanceKm(*a, *b)
	return &d
}

// RegionCenter returns the mean latitude and longitude of the valid points,
// or FallbackCenter when there are none.
func RegionCenter(points []entities.Coordinates) entities.Coordinates {
	return Center(points, FallbackCenter)
}

// Center is RegionCenter with an explicit fallback
func Center(points []entities.Coordinates, fallback entities.Coordinates) entities.Coordinates {
	var latSum, lngSum float64
	n := 0
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		latSum += p.Lat
		lngSum += p.Lng
		n++
	}
	if n == 0 {
		return fallback
	}
	return entities.Coordinates{Lat: latSum / float64(n), Lng: lngSum / float64(n)}
}

// FacilityCoordinates collects the coordinates of facilities that have them
func FacilityCoordinates(facilities []entities.Facility) []entities.Coordinates {
	out := make([]entities.Coordinates, 0, len(facilities))
	for _, f := range facilities {
		if f.Coordinates != nil && f.Coordinates.Valid() {
			out = append(out, *f.Coordinates)
		}
	}
	return out
}

// ExtractValidCoordinates returns a labelled map point for every facility
// with valid coordinates, in input order. Facilities at the (0,0) sentinel
// are skipped.
func ExtractValidCoordinates(facilities []entities.Facility) []entities.MapPoint {
	points := make([]entities.MapPoint, 0, len(facilities))
	for _, f := range facilities {
		if f.Coordinates == nil || !f.Coordinates.Valid() {
			continue
		}
		points = append(points, entities.MapPoint{
			Lat:  f.Coordinates.Lat,
			Lng:  f.Coordinates.Lng,
			Name: PointLabel(f),
		})
	}
	return points
}

// PointLabel picks the marker label for a facility
func PointLabel(f entities.Facility) string {
	for _, name := range []string{f.DisplayName, f.ProviderName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return GenericFacilityLabel
}

// Bounds returns the bounding box of points; ok is false for an empty list
func Bounds(points []entities.MapPoint) (bound orb.Bound, ok bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.Lng, p.Lat})
	}
	return mp.Bound(), true
}
