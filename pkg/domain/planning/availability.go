package planning

import (
	"math"
	"time"
)

// AvailabilityBasis is the fixed-point scale of availability fractions:
// 10000 basis points equal full availability.
const AvailabilityBasis int64 = 10000

// BasisPoints converts an availability fraction to basis points.
func BasisPoints(fraction float64) int64 {
	return int64(math.Round(fraction * float64(AvailabilityBasis)))
}

// AvailabilityPoints converts a fraction to basis points and reports whether
// it is usable: inside (0, 1] and not rounded away to zero.
func AvailabilityPoints(fraction float64) (int64, bool) {
	bp := BasisPoints(fraction)
	if fraction <= 0 || fraction > 1 || bp <= 0 {
		return AvailabilityBasis, false
	}
	return bp, true
}

// StretchWork returns the working-time span needed to perform work at the
// given availability, rounded to whole seconds.
func StretchWork(work time.Duration, bp int64) time.Duration {
	if work <= 0 {
		return 0
	}
	if bp <= 0 {
		bp = AvailabilityBasis
	}
	secs := int64(work / time.Second)
	return time.Duration((secs*AvailabilityBasis+bp/2)/bp) * time.Second
}

// ScaleWork returns the effort contained in a span of working time at the
// given availability, rounded down to whole seconds.
func ScaleWork(span time.Duration, bp int64) time.Duration {
	if span <= 0 {
		return 0
	}
	secs := int64(span / time.Second)
	return time.Duration(secs*bp/AvailabilityBasis) * time.Second
}
