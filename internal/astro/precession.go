package astro

import (
	"math"
	"time"
)

// PrecessFromJ2000 precesses J2000 equatorial coordinates to the mean equinox
// of date using the IAU 1976 angles (Meeus, Astronomical Algorithms ch. 21).
// Nutation and aberration are ignored; together they stay under 30 arcsec.
func PrecessFromJ2000(raDeg, decDeg float64, t time.Time) (raDate, decDate float64) {
	T := julianCenturies(JulianDate(t))

	// Angles in arcseconds
	zeta := 2306.2181*T + 0.30188*T*T + 0.017998*T*T*T
	z := 2306.2181*T + 1.09468*T*T + 0.018203*T*T*T
	theta := 2004.3109*T - 0.42665*T*T - 0.041833*T*T*T

	zetaRad := degToRad(zeta / 3600)
	zRad := degToRad(z / 3600)
	thetaRad := degToRad(theta / 3600)

	ra0 := degToRad(raDeg)
	dec0 := degToRad(decDeg)

	A := math.Cos(dec0) * math.Sin(ra0+zetaRad)
	B := math.Cos(thetaRad)*math.Cos(dec0)*math.Cos(ra0+zetaRad) - math.Sin(thetaRad)*math.Sin(dec0)
	C := math.Sin(thetaRad)*math.Cos(dec0)*math.Cos(ra0+zetaRad) + math.Cos(thetaRad)*math.Sin(dec0)

	ra := math.Atan2(A, B) + zRad

	var dec float64
	if math.Abs(C) > 0.99 {
		// Near the poles asin loses precision
		dec = math.Acos(math.Sqrt(A*A + B*B))
		if C < 0 {
			dec = -dec
		}
	} else {
		dec = math.Asin(C)
	}

	return normalizeAngle360(radToDeg(ra)), radToDeg(dec)
}
