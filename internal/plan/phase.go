package plan

import "math"

// MinimumTolerance is how close to phase 0 (or 1) a sample must be to count
// as an eclipse minimum.
const MinimumTolerance = 0.05

// Phase returns the orbital phase in [0, 1) of a heliocentric Julian date
// for a binary with the given epoch of primary minimum and period in days.
func Phase(hjd, epoch, period float64) float64 {
	p := math.Mod((hjd-epoch)/period, 1)
	if p < 0 {
		p++
	}
	// p+1 can round up to exactly 1 for tiny negative remainders
	if p >= 1 {
		p = 0
	}
	return p
}

// IsNearMinimum reports whether phase falls within MinimumTolerance of a
// primary eclipse.
func IsNearMinimum(phase float64) bool {
	return phase <= MinimumTolerance || phase >= 1-MinimumTolerance
}
