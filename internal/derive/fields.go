package derive

import (
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/geo"
)

const (
	// NoProsPlaceholder is shown when a summary lists no pros
	NoProsPlaceholder = "No specific pros listed"
	// NoConsPlaceholder is shown when a summary lists no cons
	NoConsPlaceholder = "No specific cons listed"

	maxRating = 5.0
)

// IsNonProfit reports whether an ownership type string carries a non-profit
// marker ("Non profit - Corporation", "Non-Profit", "nonprofit", ...).
func IsNonProfit(ownershipType string) bool {
	normalized := strings.NewReplacer("-", "", " ", "", "_", "").Replace(strings.ToLower(ownershipType))
	return strings.Contains(normalized, "nonprofit")
}

// ParseRating reads a CMS star rating ("1".."5" or a decimal), clamped to
// [0,5]. It returns nil when the value is missing or unparseable.
func ParseRating(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return ClampRating(&v)
}

// ClampRating clamps an already numeric rating to [0,5]; nil and NaN stay absent
func ClampRating(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	clamped := math.Max(0, math.Min(maxRating, *v))
	return &clamped
}

// RatingValue is the aggregate-math view of a rating: absent counts as 0
func RatingValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Digest flattens summary phrases into display text. Empty lists get a
// placeholder so neither field is ever blank.
func Digest(pros, cons []string) entities.ReviewDigest {
	return entities.ReviewDigest{
		Pros: joinPhrases(pros, NoProsPlaceholder),
		Cons: joinPhrases(cons, NoConsPlaceholder),
	}
}

func joinPhrases(phrases []string, placeholder string) string {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return placeholder
	}
	return strings.Join(kept, ", ")
}

// DisplayName prefers the review-source name, then the registered provider
// name, then the legal business name, then a generic label.
func DisplayName(raw entities.RawFacility) string {
	for _, name := range []string{raw.ReviewName, raw.ProviderName, raw.LegalBusinessName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return geo.GenericFacilityLabel
}
