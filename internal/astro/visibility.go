package astro

import (
	"errors"
	"math"
	"time"
)

// ElevationSample is an object's altitude at one instant.
type ElevationSample struct {
	Time  time.Time
	ElDeg float64
}

// Crossing is an interpolated passage of an elevation threshold.
type Crossing struct {
	Time   time.Time
	Rising bool // true when the object climbs through the threshold
}

// ErrInsufficientSamples is returned when too few samples are supplied.
var ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")

// MaxElevation finds the time of maximum elevation in a chronological track.
// With three or more samples the discrete maximum is refined by fitting a
// parabola through it and its neighbours.
func MaxElevation(samples []ElevationSample) (time.Time, float64, error) {
	if len(samples) == 0 {
		return time.Time{}, 0, ErrInsufficientSamples
	}

	maxIdx := 0
	for i, s := range samples {
		if s.ElDeg > samples[maxIdx].ElDeg {
			maxIdx = i
		}
	}

	if maxIdx == 0 || maxIdx == len(samples)-1 {
		// Peak at the edge of the window; nothing to refine against
		return samples[maxIdx].Time, samples[maxIdx].ElDeg, nil
	}

	t, el := refineMaxElevation(samples[maxIdx-1], samples[maxIdx], samples[maxIdx+1])
	return t, el, nil
}

// refineMaxElevation fits y = at^2 + bt + c through three equally spaced
// samples at t = -1, 0, +1 and returns the vertex.
func refineMaxElevation(prev, peak, next ElevationSample) (time.Time, float64) {
	c := peak.ElDeg
	a := (prev.ElDeg+next.ElDeg)/2 - c
	b := (next.ElDeg - prev.ElDeg) / 2

	// Only a downward-opening parabola has a maximum
	if a >= 0 {
		return peak.Time, peak.ElDeg
	}

	tMax := -b / (2 * a)
	if tMax < -1 {
		tMax = -1
	} else if tMax > 1 {
		tMax = 1
	}

	dt := peak.Time.Sub(prev.Time)
	refinedTime := peak.Time.Add(time.Duration(float64(dt) * tMax))
	refinedEl := a*tMax*tMax + b*tMax + c

	return refinedTime, refinedEl
}

// Crossings returns every interpolated passage of threshold in the track.
func Crossings(samples []ElevationSample, threshold float64) []Crossing {
	var out []Crossing
	for i := 1; i < len(samples); i++ {
		prev := samples[i-1]
		curr := samples[i]

		switch {
		case prev.ElDeg <= threshold && curr.ElDeg > threshold:
			out = append(out, Crossing{
				Time:   interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, threshold),
				Rising: true,
			})
		case prev.ElDeg > threshold && curr.ElDeg <= threshold:
			out = append(out, Crossing{
				Time:   interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, threshold),
				Rising: false,
			})
		}
	}
	return out
}

// interpolateCrossing finds the time when elevation crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}

	fraction := (threshold - el1) / (el2 - el1)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}
