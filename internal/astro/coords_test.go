package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "Known date 2024-01-01 00:00 UTC",
			time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2460310.5,
			tol:      0.0001,
		},
		{
			name:     "Non-UTC location is converted",
			time:     time.Date(2024, 1, 1, 3, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			expected: 2460310.5,
			tol:      0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestTimeFromJulianDate_RoundTrip(t *testing.T) {
	want := time.Date(2025, 8, 14, 21, 37, 12, 0, time.UTC)
	got := TimeFromJulianDate(JulianDate(want))
	if d := got.Sub(want); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("round trip = %v, want %v (diff %v)", got, want, d)
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	// At J2000 epoch (2000-01-01 12:00 UTC), GMST should be approximately 280.46°
	gmst := GreenwichMeanSiderealTime(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(gmst-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}

	// Meeus example 12.a: 1987-04-10 0h UT -> 13h10m46.3668s = 197.693195°
	gmst = GreenwichMeanSiderealTime(time.Date(1987, 4, 10, 0, 0, 0, 0, time.UTC))
	if math.Abs(gmst-197.693195) > 0.001 {
		t.Errorf("GMST 1987-04-10 = %v, want 197.693195", gmst)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	gmst := GreenwichMeanSiderealTime(testTime)
	if lst0 := LocalSiderealTime(testTime, 0); math.Abs(lst0-gmst) > 0.001 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	lst90 := LocalSiderealTime(testTime, 90)
	if expected := math.Mod(gmst+90, 360); math.Abs(lst90-expected) > 0.001 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, expected)
	}

	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(testTime, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestPrecessFromJ2000(t *testing.T) {
	// At J2000 itself precession is the identity.
	ra, dec := PrecessFromJ2000(41.054063, 49.227750, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(ra-41.054063) > 1e-6 || math.Abs(dec-49.227750) > 1e-6 {
		t.Errorf("identity precession: got (%v, %v)", ra, dec)
	}

	// Meeus example 21.b (theta Persei), precessed to 2028-11-13.19 TD:
	// alpha = 41.547214°, delta = 49.348483°.
	target := time.Date(2028, 11, 13, 4, 33, 36, 0, time.UTC)
	ra, dec = PrecessFromJ2000(41.054063, 49.227750, target)
	if math.Abs(ra-41.547214) > 0.001 {
		t.Errorf("RA = %v, want 41.547214", ra)
	}
	if math.Abs(dec-49.348483) > 0.001 {
		t.Errorf("Dec = %v, want 49.348483", dec)
	}
}

func TestEquatorialToHorizontal_Polaris(t *testing.T) {
	polaris := SkyCoord{RAdeg: 37.95, DecDeg: 89.26}
	observer := Observer{LatDeg: 35.0, LonDeg: -117.0}

	result := EquatorialToHorizontal(polaris, observer, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	// Polaris elevation should be approximately the observer latitude
	if math.Abs(result.ElDeg-observer.LatDeg) > 2 {
		t.Errorf("Polaris elevation = %v°, expected ~%v°", result.ElDeg, observer.LatDeg)
	}
	if result.RAdeg != polaris.RAdeg || result.DecDeg != polaris.DecDeg {
		t.Error("RA/Dec should be preserved after transformation")
	}
}

func TestHorizontalOfDate_Zenith(t *testing.T) {
	observer := Observer{LatDeg: 39.8436, LonDeg: 32.7992}
	testTime := time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)
	lst := LocalSiderealTime(testTime, observer.LonDeg)

	_, el := horizontalOfDate(lst, observer.LatDeg, observer, testTime)
	if math.Abs(el-90) > 1e-6 {
		t.Errorf("Zenith star elevation = %v°, expected 90°", el)
	}
}

func TestEquatorialToHorizontal_NeverRises(t *testing.T) {
	// Max elevation = 90 - 39.8 - 60 < 0 from Ankara
	star := SkyCoord{RAdeg: 0, DecDeg: -60}
	observer := Observer{LatDeg: 39.8436, LonDeg: 32.7992}

	for hour := 0; hour < 24; hour++ {
		testTime := time.Date(2024, 6, 15, hour, 0, 0, 0, time.UTC)
		if el := EquatorialToHorizontal(star, observer, testTime).ElDeg; el > 0 {
			t.Errorf("Dec=-60° star above horizon at hour %d: El=%v°", hour, el)
		}
	}
}

func TestEquatorialToHorizontal_AzimuthRange(t *testing.T) {
	observer := Observer{LatDeg: 35, LonDeg: -117}
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -80.0; dec <= 80; dec += 20 {
			result := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, observer, testTime)
			if result.AzDeg < 0 || result.AzDeg >= 360 {
				t.Errorf("Azimuth out of range for RA=%v, Dec=%v: Az=%v", ra, dec, result.AzDeg)
			}
			if result.ElDeg < -90 || result.ElDeg > 90 {
				t.Errorf("Elevation out of range for RA=%v, Dec=%v: El=%v", ra, dec, result.ElDeg)
			}
		}
	}
}

func TestDegRadConversions(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		if got := degToRad(tt.deg); math.Abs(got-tt.rad) > 1e-10 {
			t.Errorf("degToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if got := radToDeg(tt.rad); math.Abs(got-tt.deg) > 1e-10 {
			t.Errorf("radToDeg(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}
