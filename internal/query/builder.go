package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

const (
	// ParamUserLat carries the user's latitude
	ParamUserLat = "userLat"
	// ParamUserLng carries the user's longitude
	ParamUserLng = "userLng"
)

// Param is a single query parameter
type Param struct {
	Key   string
	Value string
}

// Query is an ordered set of non-empty facility query parameters. The zero
// value is the empty query, which must not be sent: a request without
// parameters means "all facilities".
type Query struct {
	params []Param
}

// IsEmpty reports whether the query has no parameters
func (q Query) IsEmpty() bool {
	return len(q.params) == 0
}

// Params returns the parameters in canonical order
func (q Query) Params() []Param {
	out := make([]Param, len(q.params))
	copy(out, q.params)
	return out
}

// Get returns the value for key, or "" when absent
func (q Query) Get(key string) string {
	for _, p := range q.params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Values returns the parameters as url.Values
func (q Query) Values() url.Values {
	values := make(url.Values, len(q.params))
	for _, p := range q.params {
		values.Set(p.Key, p.Value)
	}
	return values
}

// Encode renders the parameters in canonical order
func (q Query) Encode() string {
	var sb strings.Builder
	for i, p := range q.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// Input is everything the builder needs to produce a query
type Input struct {
	Filters entities.FilterState
	// Coordinates is the user's geolocation, if known
	Coordinates *entities.Coordinates
	// LastLocationName is the separately tracked last-resolved location
	LastLocationName string
	// FirstFacilityName is the name of the first facility in the current result set
	FirstFacilityName string
}

// Build converts filter state into a query.
//
// The location parameter resolves, in order, to the explicit locationName
// filter, the last resolved location name, then the first facility's name.
// When filters were explicitly cleared only the explicit filter counts.
// Geolocation is always attached when present. A VALIDATION error is returned
// for malformed numeric filters.
func Build(in Input) (Query, error) {
	var params []Param
	for _, key := range entities.FilterKeys {
		value := in.Filters.Get(key)
		if key == entities.FilterLocationName {
			value = resolveLocation(in)
		}
		if value == "" {
			continue
		}
		normalized, err := normalize(key, value)
		if err != nil {
			return Query{}, err
		}
		params = append(params, Param{Key: string(key), Value: normalized})
	}

	if in.Coordinates != nil && in.Coordinates.Valid() {
		params = append(params,
			Param{Key: ParamUserLat, Value: formatFloat(in.Coordinates.Lat)},
			Param{Key: ParamUserLng, Value: formatFloat(in.Coordinates.Lng)},
		)
	}

	return Query{params: params}, nil
}

func resolveLocation(in Input) string {
	if explicit := in.Filters.Get(entities.FilterLocationName); explicit != "" {
		return explicit
	}
	if in.Filters.IsCleared() {
		return ""
	}
	if name := strings.TrimSpace(in.LastLocationName); name != "" {
		return name
	}
	return strings.TrimSpace(in.FirstFacilityName)
}

func normalize(key entities.FilterKey, value string) (string, error) {
	switch key {
	case entities.FilterRatingMin:
		v, err := parseFinite(value)
		if err != nil || v < 0 || v > 5 {
			return "", apperrors.NewValidationError(fmt.Sprintf("%s must be a number between 0 and 5, got %q", key, value))
		}
		return formatFloat(v), nil
	case entities.FilterDistance:
		v, err := parseFinite(value)
		if err != nil || v <= 0 {
			return "", apperrors.NewValidationError(fmt.Sprintf("%s must be a positive number, got %q", key, value))
		}
		return formatFloat(v), nil
	default:
		return value, nil
	}
}

// parseFinite rejects NaN and infinities, which ParseFloat accepts
func parseFinite(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
