// Package lookup resolves variable star names against remote astronomical
// services: coordinates from CDS Sesame, period and epoch from the VSX and
// GCVS catalogs served by VizieR.
package lookup

import (
	"context"
	"net/http"
	"time"

	"github.com/litescript/ls-eclipses/internal/logging"
)

// DefaultTimeout bounds each remote request.
const DefaultTimeout = 30 * time.Second

// Position is a resolved J2000 sky position.
type Position struct {
	RAdeg  float64 `json:"ra"`
	DecDeg float64 `json:"dec"`
	Source string  `json:"source"`
}

// Ephemeris is a period and, when the catalog has one, an epoch of minimum.
type Ephemeris struct {
	Period   float64 `json:"period"`
	Epoch    float64 `json:"epoch,omitempty"`
	HasEpoch bool    `json:"has_epoch"`
	Source   string  `json:"source"` // catalog that supplied the period
}

// PositionResolver resolves a star name to coordinates.
type PositionResolver interface {
	Position(ctx context.Context, name string) (Position, error)
}

// EphemerisResolver resolves a star name to a period and epoch.
type EphemerisResolver interface {
	Ephemeris(ctx context.Context, name string) (Ephemeris, error)
}

// Option configures a client.
type Option func(*client)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *client) {
		c.logger = l
	}
}

// client holds what the Sesame and VizieR clients share.
type client struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger
}

func newClient(baseURL string, opts []Option) client {
	c := client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
