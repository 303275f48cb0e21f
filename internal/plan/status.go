package plan

// LowAltitudeLimit is the altitude in degrees below which a star is flagged
// as hard to observe.
const LowAltitudeLimit = 20.0

// Status classifies one schedule sample.
type Status int

const (
	Observable Status = iota
	LowAltitude
	BelowHorizon
	Minimum
	Error // the star's computation failed
)

// String returns the label shown in tables.
func (s Status) String() string {
	switch s {
	case Observable:
		return "Observable"
	case LowAltitude:
		return "Low Altitude"
	case BelowHorizon:
		return "Below Horizon"
	case Minimum:
		return "MINIMUM"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Tag returns a short style key for the status.
func (s Status) Tag() string {
	switch s {
	case LowAltitude:
		return "low"
	case BelowHorizon:
		return "horizon"
	case Minimum:
		return "eclipse"
	case Error:
		return "error"
	default:
		return "normal"
	}
}

// MarshalText encodes the status by its label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify assigns a status from phase and altitude. A minimum is only
// reported when the star is above the horizon.
func Classify(phase, altDeg float64) Status {
	if IsNearMinimum(phase) && altDeg > 0 {
		return Minimum
	}
	switch {
	case altDeg < 0:
		return BelowHorizon
	case altDeg < LowAltitudeLimit:
		return LowAltitude
	default:
		return Observable
	}
}
