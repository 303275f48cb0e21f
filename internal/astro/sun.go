package astro

import (
	"math"
	"time"
)

// solarGeometry holds the low-precision solar theory terms shared by the
// apparent position and the heliocentric vector (Meeus ch. 25).
type solarGeometry struct {
	T        float64 // Julian centuries from J2000.0
	trueLon  float64 // Geometric true longitude, mean equinox of date (degrees)
	radiusAU float64 // Earth-Sun distance (AU)
}

func solarTheory(t time.Time) solarGeometry {
	T := julianCenturies(JulianDate(t))

	// Mean longitude of the Sun (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Eccentricity of Earth's orbit
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	v := degToRad(M + C)

	return solarGeometry{
		T:        T,
		trueLon:  L0 + C,
		radiusAU: 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v)),
	}
}

// SunPosition calculates the apparent equatorial coordinates of the Sun,
// referred to the true equinox of date.
// Accuracy: ~0.01 degrees, plenty for twilight and separation checks.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	g := solarTheory(t)
	T := g.T

	// Apparent longitude (correcting for aberration and nutation)
	omega := 125.04 - 1934.136*T
	sunLonApp := g.trueLon - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	// Mean obliquity of the ecliptic, corrected for nutation
	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(degToRad(omega))

	sunLonRad := degToRad(sunLonApp)
	epsRad := degToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad))
	raDeg = normalizeAngle360(radToDeg(ra))

	dec := math.Asin(math.Sin(epsRad) * math.Sin(sunLonRad))
	decDeg = radToDeg(dec)

	return raDeg, decDeg
}

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000.0 in degrees.
const obliquityJ2000 = 23.4392911

// SunVector returns the geometric geocentric position of the Sun in AU as a
// rectangular vector in the J2000 equatorial frame.
func SunVector(t time.Time) Vec3 {
	g := solarTheory(t)

	// Refer the longitude to the J2000 equinox
	years := g.T * 100
	lon := degToRad(g.trueLon - 0.01397*years)
	eps := degToRad(obliquityJ2000)

	return Vec3{
		X: g.radiusAU * math.Cos(lon),
		Y: g.radiusAU * math.Sin(lon) * math.Cos(eps),
		Z: g.radiusAU * math.Sin(lon) * math.Sin(eps),
	}
}

// SunAltitude returns the geometric altitude of the Sun in degrees.
func SunAltitude(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	_, el := horizontalOfDate(ra, dec, obs, t)
	return el
}

// Twilight limits for the Sun's altitude, in degrees.
const (
	CivilTwilight        = -6.0
	NauticalTwilight     = -12.0
	AstronomicalTwilight = -18.0
)

// SkyCondition describes how dark the sky is for a given solar altitude.
type SkyCondition int

const (
	SkyDay SkyCondition = iota
	SkyCivil
	SkyNautical
	SkyAstronomical
	SkyDark
)

// String returns a short label for the condition.
func (c SkyCondition) String() string {
	switch c {
	case SkyDay:
		return "day"
	case SkyCivil:
		return "civil"
	case SkyNautical:
		return "nautical"
	case SkyAstronomical:
		return "astro"
	case SkyDark:
		return "dark"
	default:
		return "unknown"
	}
}

// GetSkyCondition categorizes a solar altitude.
func GetSkyCondition(sunAltDeg float64) SkyCondition {
	switch {
	case sunAltDeg >= 0:
		return SkyDay
	case sunAltDeg >= CivilTwilight:
		return SkyCivil
	case sunAltDeg >= NauticalTwilight:
		return SkyNautical
	case sunAltDeg >= AstronomicalTwilight:
		return SkyAstronomical
	default:
		return SkyDark
	}
}
