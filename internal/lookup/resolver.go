package lookup

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
)

// Resolver pairs a position and an ephemeris source.
type Resolver struct {
	Positions   PositionResolver
	Ephemerides EphemerisResolver
}

// Result holds both halves of a full lookup. Either half may fail alone.
type Result struct {
	Name         string
	Position     *Position
	Ephemeris    *Ephemeris
	PositionErr  error
	EphemerisErr error
}

// Err returns nil if anything was found, otherwise both failures joined.
func (r Result) Err() error {
	if r.Position != nil || r.Ephemeris != nil {
		return nil
	}
	return errors.Join(r.PositionErr, r.EphemerisErr)
}

// MarshalJSON writes the failures as strings.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name           string     `json:"name"`
		Position       *Position  `json:"position,omitempty"`
		Ephemeris      *Ephemeris `json:"ephemeris,omitempty"`
		PositionError  string     `json:"position_error,omitempty"`
		EphemerisError string     `json:"ephemeris_error,omitempty"`
	}{
		Name:           r.Name,
		Position:       r.Position,
		Ephemeris:      r.Ephemeris,
		PositionError:  errString(r.PositionErr),
		EphemerisError: errString(r.EphemerisErr),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Resolve runs both lookups concurrently.
func (r *Resolver) Resolve(ctx context.Context, name string) Result {
	res := Result{Name: name}
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		pos, err := r.Positions.Position(ctx, name)
		if err != nil {
			res.PositionErr = err
			return
		}
		res.Position = &pos
	}()
	go func() {
		defer wg.Done()
		eph, err := r.Ephemerides.Ephemeris(ctx, name)
		if err != nil {
			res.EphemerisErr = err
			return
		}
		res.Ephemeris = &eph
	}()
	wg.Wait()

	return res
}
