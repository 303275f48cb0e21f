package plan

import (
	"math"
	"time"

	"github.com/litescript/ls-eclipses/internal/astro"
	"github.com/litescript/ls-eclipses/internal/catalog"
)

// MinimumKind distinguishes primary from secondary eclipses.
type MinimumKind int

const (
	PrimaryMinimum   MinimumKind = iota // phase 0
	SecondaryMinimum                    // phase 0.5
)

func (k MinimumKind) String() string {
	if k == SecondaryMinimum {
		return "secondary"
	}
	return "primary"
}

// PredictedMinimum is an eclipse minimum falling inside the window.
type PredictedMinimum struct {
	Kind        MinimumKind
	LocalTime   time.Time
	HJD         float64
	AltitudeDeg float64
}

// StarSummary condenses one star's night.
type StarSummary struct {
	Star        string
	PeakTime    time.Time // refined time of highest altitude in the window
	PeakAltDeg  float64
	RisesAbove  time.Time // first upward crossing of LowAltitudeLimit, zero if none
	SetsBelow   time.Time // last downward crossing of LowAltitudeLimit, zero if none
	MinimumRows int       // samples classified Minimum
	Minima      []PredictedMinimum
	Err         error
}

// Summarize reduces a schedule to one entry per star.
func Summarize(s *Schedule) []StarSummary {
	obs := s.Site.Observer()
	loc := s.Site.Location()
	out := make([]StarSummary, 0, len(s.Stars))

	for _, st := range s.Stars {
		rows := s.RowsFor(st.Name)
		sum := StarSummary{Star: st.Name}
		if len(rows) == 0 {
			out = append(out, sum)
			continue
		}
		if rows[0].Status == Error {
			sum.Err = rows[0].Err
			out = append(out, sum)
			continue
		}

		samples := make([]astro.ElevationSample, len(rows))
		for i, r := range rows {
			samples[i] = astro.ElevationSample{Time: r.LocalTime, ElDeg: r.AltitudeDeg}
			if r.Status == Minimum {
				sum.MinimumRows++
			}
		}
		if t, el, err := astro.MaxElevation(samples); err == nil {
			sum.PeakTime, sum.PeakAltDeg = t.In(loc), el
		}
		for _, c := range astro.Crossings(samples, LowAltitudeLimit) {
			if c.Rising && sum.RisesAbove.IsZero() {
				sum.RisesAbove = c.Time.In(loc)
			}
			if !c.Rising {
				sum.SetsBelow = c.Time.In(loc)
			}
		}

		sum.Minima = predictMinima(st, obs, rows[0].HJD, rows[len(rows)-1].HJD, loc)
		out = append(out, sum)
	}
	return out
}

// predictMinima lists the half-period minima with HJD in [from, to].
func predictMinima(st catalog.Star, obs astro.Observer, from, to float64, loc *time.Location) []PredictedMinimum {
	half := st.Period / 2
	first := math.Ceil((from - st.Epoch) / half)
	last := math.Floor((to - st.Epoch) / half)

	var out []PredictedMinimum
	for k := first; k <= last; k++ {
		hjd := st.Epoch + k*half
		kind := PrimaryMinimum
		if math.Mod(math.Abs(k), 2) == 1 {
			kind = SecondaryMinimum
		}

		t := observedTime(hjd, st, obs)
		out = append(out, PredictedMinimum{
			Kind:        kind,
			LocalTime:   t.In(loc),
			HJD:         hjd,
			AltitudeDeg: astro.Altitude(st.RAdeg, st.DecDeg, obs, t),
		})
	}
	return out
}

// observedTime inverts the heliocentric correction. The light time changes
// by well under a second per hour, so two fixed-point passes converge.
func observedTime(hjd float64, st catalog.Star, obs astro.Observer) time.Time {
	t := astro.TimeFromJulianDate(hjd)
	for i := 0; i < 2; i++ {
		ltt := astro.HeliocentricLightTime(st.RAdeg, st.DecDeg, obs, t)
		t = astro.TimeFromJulianDate(hjd - ltt/86400)
	}
	return t
}
