// Package catalog holds the registered eclipsing binaries and keeps them in
// sync with a JSON file on disk.
package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Star is one registered eclipsing binary.
type Star struct {
	Name   string  `json:"name"`
	RAdeg  float64 `json:"ra"`     // J2000 right ascension, degrees
	DecDeg float64 `json:"dec"`    // J2000 declination, degrees
	Epoch  float64 `json:"epoch"`  // HJD of a primary minimum
	Period float64 `json:"period"` // days
}

// Key returns the case-insensitive identity of the star.
func (s Star) Key() string {
	return nameKey(s.Name)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Validate checks that the record can be scheduled.
func (s Star) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	for _, f := range []struct {
		field string
		value float64
	}{
		{"ra", s.RAdeg},
		{"dec", s.DecDeg},
		{"epoch", s.Epoch},
		{"period", s.Period},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.field, Reason: "must be a finite number"}
		}
	}
	if s.RAdeg < 0 || s.RAdeg >= 360 {
		return &ValidationError{Field: "ra", Reason: "must be in [0, 360)"}
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return &ValidationError{Field: "dec", Reason: "must be in [-90, 90]"}
	}
	if s.Period <= 0 {
		return &ValidationError{Field: "period", Reason: "must be positive"}
	}
	return nil
}

// ParseStar builds a Star from form text. Every field is required.
func ParseStar(name, ra, dec, epoch, period string) (Star, error) {
	for _, f := range []string{ra, dec, epoch, period} {
		if strings.TrimSpace(f) == "" {
			return Star{}, &ValidationError{Reason: "Please fill all fields."}
		}
	}
	if strings.TrimSpace(name) == "" {
		return Star{}, &ValidationError{Reason: "Please enter a variable star name."}
	}

	s := Star{Name: strings.TrimSpace(name)}
	for _, p := range []struct {
		field string
		raw   string
		dst   *float64
	}{
		{"ra", ra, &s.RAdeg},
		{"dec", dec, &s.DecDeg},
		{"epoch", epoch, &s.Epoch},
		{"period", period, &s.Period},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(p.raw), 64)
		if err != nil {
			return Star{}, &ValidationError{Field: p.field, Reason: "must be a number"}
		}
		*p.dst = v
	}

	if err := s.Validate(); err != nil {
		return Star{}, err
	}
	return s, nil
}
