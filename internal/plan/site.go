// Package plan computes observing schedules for eclipsing binaries: orbital
// phase and altitude at hourly samples across one night.
package plan

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-eclipses/internal/astro"
)

// Site is a fixed observatory location. It is passed by value and never
// changes after startup.
type Site struct {
	Name           string
	LatDeg         float64 // geodetic latitude, north positive
	LonDeg         float64 // longitude, east positive
	ElevationM     float64
	UTCOffsetHours float64 // local civil time minus UTC
}

// DefaultSite returns the Ankara University Kreiken Observatory.
func DefaultSite() Site {
	return Site{
		Name:           "Ankara University Kreiken Observatory",
		LatDeg:         39.8436,
		LonDeg:         32.7992,
		ElevationM:     1256,
		UTCOffsetHours: 3,
	}
}

// Observer returns the site as an astro observer.
func (s Site) Observer() astro.Observer {
	return astro.Observer{
		Name:       s.Name,
		LatDeg:     s.LatDeg,
		LonDeg:     s.LonDeg,
		ElevationM: s.ElevationM,
	}
}

// Location returns a fixed time zone for the site's UTC offset. Daylight
// saving is not modeled.
func (s Site) Location() *time.Location {
	secs := int(math.Round(s.UTCOffsetHours * 3600))
	return time.FixedZone(utcOffsetName(secs), secs)
}

func utcOffsetName(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	h, m := secs/3600, (secs%3600)/60
	if m == 0 {
		return fmt.Sprintf("UTC%c%d", sign, h)
	}
	return fmt.Sprintf("UTC%c%d:%02d", sign, h, m)
}

// Validate checks the site coordinates.
func (s Site) Validate() error {
	switch {
	case s.LatDeg < -90 || s.LatDeg > 90:
		return fmt.Errorf("site latitude %v out of range", s.LatDeg)
	case s.LonDeg < -180 || s.LonDeg > 360:
		return fmt.Errorf("site longitude %v out of range", s.LonDeg)
	case s.UTCOffsetHours < -14 || s.UTCOffsetHours > 14:
		return fmt.Errorf("site UTC offset %v out of range", s.UTCOffsetHours)
	}
	return nil
}
