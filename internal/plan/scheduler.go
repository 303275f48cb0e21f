package plan

import (
	"errors"
	"strings"
	"time"

	"github.com/litescript/ls-eclipses/internal/astro"
	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/logging"
)

// DateLayout is the accepted observing date format.
const DateLayout = "2006-01-02"

// Default observing window: hourly from 18:00 local to 06:00 the next day.
const (
	DefaultStartHour = 18
	DefaultSteps     = 13
	DefaultStep      = time.Hour
)

// Row is one (sample time, star) cell of a schedule.
type Row struct {
	LocalTime   time.Time
	Star        string
	Phase       float64
	AltitudeDeg float64
	AzimuthDeg  float64
	SunAltDeg   float64
	HJD         float64
	Status      Status
	Err         error // set when Status is Error
}

// Schedule is the result of planning one night.
type Schedule struct {
	Date     string
	Site     Site
	Times    []time.Time    // sample instants in site-local time
	Stars    []catalog.Star // catalog snapshot, in display order
	Rows     []Row          // time-major, star-minor
	Failures []*ComputationError
}

// RowsAt returns the rows of sample i.
func (s *Schedule) RowsAt(i int) []Row {
	n := len(s.Stars)
	return s.Rows[i*n : (i+1)*n]
}

// RowsFor returns all rows of the named star in time order.
func (s *Schedule) RowsFor(name string) []Row {
	idx := -1
	for i, st := range s.Stars {
		if st.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]Row, 0, len(s.Times))
	for i := range s.Times {
		out = append(out, s.Rows[i*len(s.Stars)+idx])
	}
	return out
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWindow overrides the sampling window.
func WithWindow(startHour, steps int, step time.Duration) Option {
	return func(s *Scheduler) {
		s.startHour = startHour
		s.steps = steps
		s.step = step
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// Scheduler plans observing nights for one site.
type Scheduler struct {
	site      Site
	startHour int
	steps     int
	step      time.Duration
	logger    *logging.Logger
}

// NewScheduler creates a scheduler for site.
func NewScheduler(site Site, opts ...Option) *Scheduler {
	s := &Scheduler{
		site:      site,
		startHour: DefaultStartHour,
		steps:     DefaultSteps,
		step:      DefaultStep,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Site returns the scheduler's site.
func (s *Scheduler) Site() Site {
	return s.site
}

// SampleTimes returns the local sample instants for date.
func (s *Scheduler) SampleTimes(date string) ([]time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), s.site.Location())
	if err != nil {
		return nil, &ParseError{Input: date, Err: err}
	}
	start := day.Add(time.Duration(s.startHour) * time.Hour)

	times := make([]time.Time, s.steps)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * s.step)
	}
	return times, nil
}

// Plan computes phase, altitude and status for every star at every sample
// of the night starting on date. A star that cannot be computed gets Error
// rows and is listed in Failures; the other stars are unaffected.
func (s *Scheduler) Plan(date string, stars []catalog.Star) (*Schedule, error) {
	times, err := s.SampleTimes(date)
	if err != nil {
		return nil, err
	}

	sched := &Schedule{
		Date:  strings.TrimSpace(date),
		Site:  s.site,
		Times: times,
		Stars: append([]catalog.Star(nil), stars...),
		Rows:  make([]Row, 0, len(times)*len(stars)),
	}

	failed := make([]*ComputationError, len(stars))
	for j, st := range stars {
		if err := st.Validate(); err != nil {
			failed[j] = &ComputationError{Star: st.Name, Err: err}
			sched.Failures = append(sched.Failures, failed[j])
			s.logger.Warn("skipping %q: %v", st.Name, err)
		}
	}

	obs := s.site.Observer()
	for _, t := range times {
		sunAlt := astro.SunAltitude(obs, t)
		for j, st := range stars {
			row := Row{LocalTime: t, Star: st.Name, SunAltDeg: sunAlt}
			if failed[j] != nil {
				row.Status = Error
				row.Err = failed[j]
				sched.Rows = append(sched.Rows, row)
				continue
			}
			s.fill(&row, st, obs, t)
			sched.Rows = append(sched.Rows, row)
		}
	}

	s.logger.Debug("planned %s: %d stars, %d samples, %d failed",
		sched.Date, len(stars), len(times), len(sched.Failures))
	return sched, nil
}

func (s *Scheduler) fill(row *Row, st catalog.Star, obs astro.Observer, t time.Time) {
	hz := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: st.RAdeg, DecDeg: st.DecDeg}, obs, t)
	row.HJD = astro.HeliocentricJD(t, st.RAdeg, st.DecDeg, obs)
	row.Phase = Phase(row.HJD, st.Epoch, st.Period)
	row.AltitudeDeg = hz.ElDeg
	row.AzimuthDeg = hz.AzDeg
	row.Status = Classify(row.Phase, row.AltitudeDeg)
}

// Err returns the failures joined into one error, or nil.
func (s *Schedule) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(s.Failures))
	for i, f := range s.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
