package plan

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-eclipses/internal/astro"
	"github.com/litescript/ls-eclipses/internal/catalog"
)

const rtAndPeriod = 0.6289

// starWithMinimumAt builds a star whose primary minimum, as seen from site,
// falls exactly ten periods after epoch at local instant t.
func starWithMinimumAt(name string, ra, dec float64, site Site, t time.Time) catalog.Star {
	hjd := astro.HeliocentricJD(t, ra, dec, site.Observer())
	return catalog.Star{
		Name:   name,
		RAdeg:  ra,
		DecDeg: dec,
		Epoch:  hjd - 10*rtAndPeriod,
		Period: rtAndPeriod,
	}
}

func TestScheduler_SampleTimes(t *testing.T) {
	s := NewScheduler(DefaultSite())
	times, err := s.SampleTimes("2024-09-20")
	if err != nil {
		t.Fatalf("SampleTimes: %v", err)
	}
	if len(times) != 13 {
		t.Fatalf("len = %d, want 13", len(times))
	}

	loc := DefaultSite().Location()
	if want := time.Date(2024, 9, 20, 18, 0, 0, 0, loc); !times[0].Equal(want) {
		t.Errorf("first = %v, want %v", times[0], want)
	}
	if want := time.Date(2024, 9, 21, 6, 0, 0, 0, loc); !times[12].Equal(want) {
		t.Errorf("last = %v, want %v", times[12], want)
	}
	// 18:00 at UTC+3 is 15:00 UTC
	if got := times[0].UTC().Hour(); got != 15 {
		t.Errorf("first sample UTC hour = %d, want 15", got)
	}
}

func TestScheduler_ParseError(t *testing.T) {
	s := NewScheduler(DefaultSite())
	for _, in := range []string{"", "2024/09/20", "20-09-2024", "2024-13-01", "tomorrow"} {
		_, err := s.Plan(in, nil)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Plan(%q) err = %v, want *ParseError", in, err)
		}
	}
}

func TestScheduler_RowOrder(t *testing.T) {
	stars := []catalog.Star{
		{Name: "B", RAdeg: 10, DecDeg: 20, Epoch: 2457000, Period: 1.1},
		{Name: "A", RAdeg: 200, DecDeg: -10, Epoch: 2457000, Period: 2.2},
	}
	sched, err := NewScheduler(DefaultSite()).Plan("2024-09-20", stars)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(sched.Rows) != 26 {
		t.Fatalf("rows = %d, want 26", len(sched.Rows))
	}
	for i, r := range sched.Rows {
		wantStar := stars[i%2].Name
		wantTime := sched.Times[i/2]
		if r.Star != wantStar || !r.LocalTime.Equal(wantTime) {
			t.Errorf("row %d = (%v, %s), want (%v, %s)", i, r.LocalTime, r.Star, wantTime, wantStar)
		}
		if r.Phase < 0 || r.Phase >= 1 {
			t.Errorf("row %d phase %v out of range", i, r.Phase)
		}
	}

	at := sched.RowsAt(3)
	if len(at) != 2 || at[0].Star != "B" || at[1].Star != "A" {
		t.Errorf("RowsAt(3) = %+v", at)
	}
	if got := sched.RowsFor("A"); len(got) != 13 || got[0].Star != "A" {
		t.Errorf("RowsFor(A) len = %d", len(got))
	}
	if got := sched.RowsFor("missing"); got != nil {
		t.Errorf("RowsFor(missing) = %v, want nil", got)
	}
}

func TestScheduler_MinimumAtMidnight(t *testing.T) {
	site := DefaultSite()
	midnight := time.Date(2024, 9, 21, 0, 0, 0, 0, site.Location())
	star := starWithMinimumAt("RT And", 0, 0, site, midnight)

	sched, err := NewScheduler(site).Plan("2024-09-20", []catalog.Star{star})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	row := sched.Rows[6]
	if !row.LocalTime.Equal(midnight) {
		t.Fatalf("sample 6 at %v, want local midnight", row.LocalTime)
	}
	if d := math.Min(row.Phase, 1-row.Phase); d > 1e-6 {
		t.Errorf("phase at midnight = %.6f, want 0.0000", row.Phase)
	}
	if row.AltitudeDeg <= 0 {
		t.Fatalf("altitude = %.1f; test date should have the star up", row.AltitudeDeg)
	}
	if row.Status != Minimum {
		t.Errorf("status = %v, want MINIMUM", row.Status)
	}

	// One hour is 0.066 of a period: outside the minimum tolerance.
	for _, i := range []int{5, 7} {
		if sched.Rows[i].Status == Minimum {
			t.Errorf("sample %d (phase %.4f) flagged as minimum", i, sched.Rows[i].Phase)
		}
	}
}

func TestScheduler_MinimumBelowHorizon(t *testing.T) {
	site := DefaultSite()
	midnight := time.Date(2024, 9, 21, 0, 0, 0, 0, site.Location())
	// Dec -80 never rises at latitude +39.8
	star := starWithMinimumAt("Southern", 0, -80, site, midnight)

	sched, err := NewScheduler(site).Plan("2024-09-20", []catalog.Star{star})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	row := sched.Rows[6]
	if d := math.Min(row.Phase, 1-row.Phase); d > 1e-6 {
		t.Errorf("phase = %.6f, want ~0", row.Phase)
	}
	if row.Status != BelowHorizon {
		t.Errorf("status = %v, want Below Horizon", row.Status)
	}
}

func TestScheduler_IsolatesFailures(t *testing.T) {
	good := catalog.Star{Name: "Algol", RAdeg: 47.04, DecDeg: 40.96, Epoch: 2445641.5135, Period: 2.867328}
	bad := catalog.Star{Name: "Broken", RAdeg: 10, DecDeg: 10, Epoch: 2457000, Period: 0}

	sched, err := NewScheduler(DefaultSite()).Plan("2024-09-20", []catalog.Star{bad, good})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(sched.Failures) != 1 || sched.Failures[0].Star != "Broken" {
		t.Fatalf("Failures = %v", sched.Failures)
	}

	var ce *ComputationError
	if !errors.As(sched.Err(), &ce) {
		t.Errorf("Err() = %v, want *ComputationError", sched.Err())
	}

	for _, r := range sched.RowsFor("Broken") {
		if r.Status != Error || r.Err == nil {
			t.Errorf("broken row = %+v", r)
		}
	}
	for _, r := range sched.RowsFor("Algol") {
		if r.Status == Error || r.HJD == 0 {
			t.Errorf("good row = %+v", r)
		}
	}
}

func TestScheduler_NoFailures(t *testing.T) {
	sched, err := NewScheduler(DefaultSite()).Plan("2024-09-20", nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sched.Err() != nil || len(sched.Rows) != 0 || len(sched.Times) != 13 {
		t.Errorf("empty plan = %+v", sched)
	}
}

func TestScheduler_WithWindow(t *testing.T) {
	s := NewScheduler(DefaultSite(), WithWindow(20, 5, 30*time.Minute))
	times, err := s.SampleTimes("2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 5 {
		t.Fatalf("len = %d, want 5", len(times))
	}
	if times[4].Sub(times[0]) != 2*time.Hour || times[0].Hour() != 20 {
		t.Errorf("window = %v .. %v", times[0], times[4])
	}
}

func TestScheduler_SunAltitude(t *testing.T) {
	sched, err := NewScheduler(DefaultSite()).Plan("2024-06-21", []catalog.Star{
		{Name: "X", RAdeg: 0, DecDeg: 0, Epoch: 2457000, Period: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Local midnight near the solstice is dark; 18:00 is daylight.
	if alt := sched.Rows[6].SunAltDeg; alt > -18 {
		t.Errorf("sun altitude at midnight = %.1f", alt)
	}
	if alt := sched.Rows[0].SunAltDeg; alt < 0 {
		t.Errorf("sun altitude at 18:00 = %.1f", alt)
	}
}

func TestSite_Location(t *testing.T) {
	tests := []struct {
		offset float64
		name   string
		secs   int
	}{
		{3, "UTC+3", 10800},
		{-5, "UTC-5", -18000},
		{5.5, "UTC+5:30", 19800},
		{0, "UTC+0", 0},
	}
	for _, tt := range tests {
		loc := Site{UTCOffsetHours: tt.offset}.Location()
		name, secs := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
		if name != tt.name || secs != tt.secs {
			t.Errorf("offset %v: zone = %s %d, want %s %d", tt.offset, name, secs, tt.name, tt.secs)
		}
	}
}

func TestSite_Validate(t *testing.T) {
	if err := DefaultSite().Validate(); err != nil {
		t.Errorf("DefaultSite().Validate() = %v", err)
	}
	if err := (Site{LatDeg: 95}).Validate(); err == nil {
		t.Error("latitude 95 should be rejected")
	}
	if err := (Site{UTCOffsetHours: 15}).Validate(); err == nil {
		t.Error("offset 15 should be rejected")
	}
}
