package derive

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
)

// facilityNamespace seeds name-based ids for records that arrive without one
var facilityNamespace = uuid.MustParse("9d1c6f0e-6a53-4d7b-9a55-3f2d8f0b7c41")

// Resolver turns raw upstream records into normalized facilities
type Resolver struct {
	thresholds Thresholds
}

// NewResolver creates a resolver with the given occupancy thresholds
func NewResolver(thresholds Thresholds) *Resolver {
	return &Resolver{thresholds: thresholds}
}

// Resolve normalizes one record. origin is the reference point for
// DistanceFromOrigin and may be nil.
func (r *Resolver) Resolve(raw entities.RawFacility, origin *entities.Coordinates) entities.Facility {
	f := entities.Facility{
		ID:           strings.TrimSpace(raw.ID),
		DisplayName:  DisplayName(raw),
		ProviderName: strings.TrimSpace(raw.ProviderName),
		Address: entities.Address{
			Street: strings.TrimSpace(raw.Street),
			City:   strings.TrimSpace(raw.City),
			State:  strings.TrimSpace(raw.State),
			Zip:    strings.TrimSpace(raw.Zip),
		},
		Phone:                strings.TrimSpace(raw.Phone),
		Photo:                strings.TrimSpace(raw.Photo),
		BedsCertified:        bedCount(raw.CertifiedBeds),
		AverageResidents:     raw.AverageResidents,
		OwnershipType:        strings.TrimSpace(raw.OwnershipType),
		OwnershipIsNonProfit: IsNonProfit(raw.OwnershipType),
		Ratings: entities.Ratings{
			Overall:          ParseRating(raw.OverallRating),
			HealthInspection: ParseRating(raw.HealthInspection),
			Staffing:         ParseRating(raw.StaffingRating),
			QualityMeasure:   ParseRating(raw.QualityMeasure),
		},
		ReviewRating: ClampRating(raw.ReviewRating),
		ReviewCount:  max(raw.ReviewCount, 0),
		Status:       r.thresholds.Status(raw.CertifiedBeds, raw.AverageResidents),
		ReviewDigest: Digest(raw.Pros, raw.Cons),
	}

	if raw.Latitude != nil && raw.Longitude != nil {
		f.Coordinates = entities.NewCoordinates(*raw.Latitude, *raw.Longitude)
	}
	f.DistanceFromOrigin = geo.DistanceBetween(origin, f.Coordinates)

	if f.ID == "" {
		f.ID = uuid.NewSHA1(facilityNamespace, []byte(f.DisplayName+"|"+f.Address.Format())).String()
	}
	return f
}

// ResolveAll normalizes a result set, keeping ids unique within it
func (r *Resolver) ResolveAll(raws []entities.RawFacility, origin *entities.Coordinates) []entities.Facility {
	out := make([]entities.Facility, 0, len(raws))
	seen := make(map[string]int, len(raws))
	for _, raw := range raws {
		f := r.Resolve(raw, origin)
		seen[f.ID]++
		if n := seen[f.ID]; n > 1 {
			f.ID = fmt.Sprintf("%s-%d", f.ID, n)
		}
		out = append(out, f)
	}
	return out
}

// Relocate recomputes DistanceFromOrigin for every facility against origin
func Relocate(facilities []entities.Facility, origin *entities.Coordinates) []entities.Facility {
	out := make([]entities.Facility, len(facilities))
	for i, f := range facilities {
		f.DistanceFromOrigin = geo.DistanceBetween(origin, f.Coordinates)
		out[i] = f
	}
	return out
}

// maxCount caps counts converted from floats so the int conversion is defined
const maxCount = math.MaxInt32

func bedCount(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0
	}
	return int(math.Min(math.Round(*v), maxCount))
}
