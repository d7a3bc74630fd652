package derive

import (
	"math"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

// Thresholds are the occupancy cut-offs for availability status
type Thresholds struct {
	AcceptingBelow float64
	WaitlistBelow  float64
}

// DefaultThresholds returns the standard 80% / 100% occupancy cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{AcceptingBelow: 0.80, WaitlistBelow: 1.00}
}

// Status derives availability from certified beds and average daily
// residents. It never fails: missing, non-finite or non-positive inputs yield
// StatusUnknown.
func (t Thresholds) Status(beds, residents *float64) entities.Status {
	if !positive(beds) || !positive(residents) {
		return entities.StatusUnknown
	}
	occupancy := *residents / *beds
	switch {
	case occupancy < t.AcceptingBelow:
		return entities.StatusAccepting
	case occupancy < t.WaitlistBelow:
		return entities.StatusWaitlist
	default:
		return entities.StatusFull
	}
}

func positive(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0
}
