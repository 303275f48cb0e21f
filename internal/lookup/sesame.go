package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SesameURL is the CDS Sesame name resolver, XML output, querying SIMBAD,
// NED and VizieR in turn.
const SesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-oxp/SNV"

// SesameClient resolves names to coordinates through CDS Sesame.
type SesameClient struct {
	client
}

// NewSesameClient creates a Sesame client.
func NewSesameClient(opts ...Option) *SesameClient {
	return &SesameClient{client: newClient(SesameURL, opts)}
}

type sesameResponse struct {
	Targets []struct {
		Name      string           `xml:"name"`
		Resolvers []sesameResolver `xml:"Resolver"`
	} `xml:"Target"`
}

type sesameResolver struct {
	Name   string `xml:"name,attr"`
	RAdeg  string `xml:"jradeg"`
	DecDeg string `xml:"jdedeg"`
}

// Position implements PositionResolver.
func (c *SesameClient) Position(ctx context.Context, name string) (Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Position{}, fmt.Errorf("empty star name: %w", ErrNotFound)
	}

	reqURL := c.baseURL + "?" + url.PathEscape(name)
	c.logger.Debug("resolving %q", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Position{}, &ServiceError{Service: "Sesame", Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Position{}, &ServiceError{Service: "Sesame", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, &ServiceError{Service: "Sesame", Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Position{}, &ServiceError{Service: "Sesame", Err: fmt.Errorf("read body: %w", err)}
	}

	pos, err := parseSesame(body)
	if err != nil {
		if err == ErrNotFound {
			c.logger.Warn("%q not resolved", name)
			return Position{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return Position{}, &ServiceError{Service: "Sesame", Err: err}
	}
	c.logger.Debug("resolved %q via %s: %.6f %+.6f", name, pos.Source, pos.RAdeg, pos.DecDeg)
	return pos, nil
}

// parseSesame returns the first resolver answer carrying decimal J2000
// coordinates.
func parseSesame(body []byte) (Position, error) {
	var r sesameResponse
	if err := xml.Unmarshal(body, &r); err != nil {
		return Position{}, fmt.Errorf("parse xml: %w", err)
	}

	for _, t := range r.Targets {
		for _, res := range t.Resolvers {
			if res.RAdeg == "" || res.DecDeg == "" {
				continue
			}
			ra, err := strconv.ParseFloat(strings.TrimSpace(res.RAdeg), 64)
			if err != nil {
				return Position{}, fmt.Errorf("parse jradeg %q: %w", res.RAdeg, err)
			}
			dec, err := strconv.ParseFloat(strings.TrimSpace(res.DecDeg), 64)
			if err != nil {
				return Position{}, fmt.Errorf("parse jdedeg %q: %w", res.DecDeg, err)
			}
			return Position{RAdeg: ra, DecDeg: dec, Source: resolverName(res.Name)}, nil
		}
	}
	return Position{}, ErrNotFound
}

// resolverName reduces "S=Simbad (via url):    1ms" to "Simbad".
func resolverName(attr string) string {
	s := attr
	if _, after, ok := strings.Cut(s, "="); ok {
		s = after
	}
	if i := strings.IndexAny(s, " (:"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "Sesame"
	}
	return s
}
