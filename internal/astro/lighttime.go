package astro

import (
	"math"
	"time"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// LightSecondsPerAU is the light travel time across one AU.
const LightSecondsPerAU = 499.004784

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0             // semi-major axis (meters)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// UnitVector returns the direction of an equatorial RA/Dec as a unit vector.
func UnitVector(raDeg, decDeg float64) Vec3 {
	ra := degToRad(raDeg)
	dec := degToRad(decDeg)
	return Vec3{
		X: math.Cos(dec) * math.Cos(ra),
		Y: math.Cos(dec) * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

// ObserverVector returns the observer's geocentric position in AU, in the
// equatorial frame of date, from the WGS-84 geodetic location.
func ObserverVector(obs Observer, t time.Time) Vec3 {
	lat := degToRad(obs.LatDeg)
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	rho := (N + obs.ElevationM) * cosLat           // distance from the rotation axis (m)
	z := (N*(1-wgs84E2) + obs.ElevationM) * sinLat // height above the equator (m)

	lst := degToRad(LocalSiderealTime(t, obs.LonDeg))
	metersPerAU := AU * 1000

	return Vec3{
		X: rho * math.Cos(lst) / metersPerAU,
		Y: rho * math.Sin(lst) / metersPerAU,
		Z: z / metersPerAU,
	}
}

// HeliocentricLightTime returns the number of seconds to add to an observed
// instant so that it refers to the arrival of the same wavefront at the
// Sun's center, for a target at J2000 RA/Dec.
func HeliocentricLightTime(raDeg, decDeg float64, obs Observer, t time.Time) float64 {
	n := UnitVector(raDeg, decDeg)
	// Observer relative to the Sun
	r := ObserverVector(obs, t).Sub(SunVector(t))
	return LightTimeFromAU(r.Dot(n))
}

// HeliocentricJD returns the heliocentric Julian Date (UTC scale) for an
// observation of the target at t.
func HeliocentricJD(t time.Time, raDeg, decDeg float64, obs Observer) float64 {
	return JulianDate(t) + HeliocentricLightTime(raDeg, decDeg, obs, t)/86400
}

// LightTimeFromAU returns the one-way light time in seconds for a distance in AU.
func LightTimeFromAU(au float64) float64 {
	return au * LightSecondsPerAU
}
