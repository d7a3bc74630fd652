package entities

import "strings"

// FilterKey names a facility search filter. Keys double as query parameter names.
type FilterKey string

const (
	FilterRatingMin    FilterKey = "ratingMin"
	FilterDistance     FilterKey = "distance"
	FilterBeds         FilterKey = "beds"
	FilterOwnership    FilterKey = "ownership"
	FilterCity         FilterKey = "city"
	FilterStateCode    FilterKey = "state"
	FilterLocationName FilterKey = "locationName"
)

// FilterKeys lists every filter in canonical query order
var FilterKeys = []FilterKey{
	FilterRatingMin,
	FilterDistance,
	FilterBeds,
	FilterOwnership,
	FilterCity,
	FilterStateCode,
	FilterLocationName,
}

// FilterState maps filters to optional values; a blank value means unconstrained.
//
// A nil FilterState is empty (nothing was ever set). A non-nil FilterState
// whose values are all blank has been cleared.
type FilterState map[FilterKey]string

// IsEmpty reports whether no filter was ever set
func (f FilterState) IsEmpty() bool {
	return f == nil
}

// IsCleared reports whether filters were set and every value is now blank
func (f FilterState) IsCleared() bool {
	if f == nil {
		return false
	}
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Get returns the trimmed value for key
func (f FilterState) Get(key FilterKey) string {
	return strings.TrimSpace(f[key])
}

// Merge returns a new FilterState with patch applied over f. A blank value in
// patch clears that key.
func (f FilterState) Merge(patch FilterState) FilterState {
	out := make(FilterState, len(f)+len(patch))
	for k, v := range f {
		out[k] = strings.TrimSpace(v)
	}
	for k, v := range patch {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Cleared returns a FilterState with every known key explicitly blank
func (f FilterState) Cleared() FilterState {
	out := make(FilterState, len(FilterKeys))
	for _, k := range FilterKeys {
		out[k] = ""
	}
	return out
}

// Clone copies f, preserving nil
func (f FilterState) Clone() FilterState {
	if f == nil {
		return nil
	}
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
