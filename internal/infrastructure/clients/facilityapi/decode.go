package facilityapi

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

// DecodeSearchResponse decodes a filter endpoint body of the shape
// {"facilities": [...], "centerCoords": {"lat": .., "lng": ..}}.
func DecodeSearchResponse(body []byte) (*entities.SearchResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperrors.NewDecodeError("response body is not valid JSON", nil)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, apperrors.NewDecodeError("response body is not a JSON object", nil)
	}

	list := root.Get("facilities")
	if !list.IsArray() {
		return nil, apperrors.NewDecodeError("response body has no facilities array", nil)
	}

	out := &entities.SearchResponse{Facilities: make([]entities.RawFacility, 0, len(list.Array()))}
	for i, item := range list.Array() {
		if !item.IsObject() {
			return nil, apperrors.NewDecodeError("facility "+strconv.Itoa(i)+" is not an object", nil)
		}
		out.Facilities = append(out.Facilities, ParseRawFacility(item))
	}

	if center := root.Get("centerCoords"); center.IsObject() {
		lat, latOK := number(first(center, "lat", "latitude"))
		lng, lngOK := number(first(center, "lng", "longitude"))
		if latOK && lngOK {
			out.CenterCoords = entities.NewCoordinates(lat, lng)
		}
	}
	return out, nil
}

// ParseRawFacility maps one upstream record onto RawFacility, accepting both
// the CMS field names and the review/enrichment field names.
func ParseRawFacility(obj gjson.Result) entities.RawFacility {
	return entities.RawFacility{
		ID:                text(first(obj, "id", "_id", "federal_provider_number", "cms_certification_number_ccn", "place_id")),
		ProviderName:      text(first(obj, "provider_name", "name")),
		LegalBusinessName: text(first(obj, "legal_business_name")),
		Street:            text(first(obj, "provider_address", "street", "address")),
		City:              text(first(obj, "city_town", "provider_city", "city")),
		State:             text(first(obj, "state", "provider_state")),
		Zip:               text(first(obj, "zip_code", "provider_zip_code", "zip")),
		Phone:             text(first(obj, "telephone_number", "phone")),
		CertifiedBeds:     numberPtr(first(obj, "number_of_certified_beds", "certified_beds", "beds")),
		AverageResidents:  numberPtr(first(obj, "average_number_of_residents_per_day", "avg_residents_per_day")),
		OwnershipType:     text(first(obj, "ownership_type", "ownershipType")),
		OverallRating:     text(first(obj, "overall_rating")),
		HealthInspection:  text(first(obj, "health_inspection_rating")),
		StaffingRating:    text(first(obj, "staffing_rating")),
		QualityMeasure:    text(first(obj, "qm_rating", "quality_measure_rating")),
		ReviewName:        text(first(obj, "googleName")),
		ReviewRating:      numberPtr(first(obj, "rating")),
		ReviewCount:       count(first(obj, "user_ratings_total", "reviewCount", "review_count")),
		Photo:             text(first(obj, "photo", "photoUrl")),
		Pros:              phrases(obj.Get("aiSummary.pros")),
		Cons:              phrases(obj.Get("aiSummary.cons")),
		Latitude:          numberPtr(first(obj, "latitude", "lat")),
		Longitude:         numberPtr(first(obj, "longitude", "lng")),
	}
}

// first returns the first path that is present and not null
func first(obj gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := obj.Get(p); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(r.String())
	default:
		return ""
	}
}

func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, finite(r.Num)
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		return v, err == nil && finite(v)
	default:
		return 0, false
	}
}

func numberPtr(r gjson.Result) *float64 {
	v, ok := number(r)
	if !ok {
		return nil
	}
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func count(r gjson.Result) int {
	v, ok := number(r)
	if !ok || v < 0 {
		return 0
	}
	return int(math.Min(v, math.MaxInt32))
}

// phrases accepts a list of strings or a single comma-free string
func phrases(r gjson.Result) []string {
	switch {
	case r.IsArray():
		out := make([]string, 0, len(r.Array()))
		for _, item := range r.Array() {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case r.Type == gjson.String && strings.TrimSpace(r.Str) != "":
		return []string{strings.TrimSpace(r.Str)}
	default:
		return nil
	}
}
