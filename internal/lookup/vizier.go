package lookup

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// VizierURL is the VizieR ASU tab-separated query endpoint.
const VizierURL = "https://vizier.cds.unistra.fr/viz-bin/asu-tsv"

// Catalog names a VizieR table and the columns holding period and epoch.
type Catalog struct {
	Name          string   // short label, e.g. "VSX"
	Table         string   // VizieR table id
	PeriodColumns []string // tried in order; first non-blank wins
	EpochColumn   string
}

// Catalogs queried in order; later ones only when earlier ones have no period.
var (
	VSX = Catalog{
		Name:          "VSX",
		Table:         "B/vsx/vsx",
		PeriodColumns: []string{"Period", "P1"},
		EpochColumn:   "Epoch",
	}
	GCVS = Catalog{
		Name:          "GCVS",
		Table:         "B/gcvs/gcvs_cat",
		PeriodColumns: []string{"Period"},
		EpochColumn:   "Epoch",
	}
)

// SearchRadiusArcsec is the cone radius around the resolved name.
const SearchRadiusArcsec = 10

// VizierClient looks up period and epoch in variable star catalogs.
type VizierClient struct {
	client
	catalogs []Catalog
}

// NewVizierClient creates a client querying VSX, then GCVS.
func NewVizierClient(opts ...Option) *VizierClient {
	return &VizierClient{
		client:   newClient(VizierURL, opts),
		catalogs: []Catalog{VSX, GCVS},
	}
}

// Ephemeris implements EphemerisResolver. When no catalog has a period the
// error wraps ErrNotFound, joined with any per-catalog failures. When every
// catalog request failed outright only the *ServiceError values are returned.
func (c *VizierClient) Ephemeris(ctx context.Context, name string) (Ephemeris, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ephemeris{}, fmt.Errorf("empty star name: %w", ErrNotFound)
	}

	var errs []error
	answered := false
	for _, cat := range c.catalogs {
		c.logger.Debug("querying %s for %q", cat.Name, name)
		rows, err := c.query(ctx, cat, name)
		if err != nil {
			c.logger.Warn("%s query for %q failed: %v", cat.Name, name, err)
			errs = append(errs, &ServiceError{Service: cat.Name, Err: err})
			continue
		}
		answered = true

		eph, ok := ephemerisFromRows(cat, rows)
		if ok {
			c.logger.Debug("%q: period %v from %s (epoch present: %v)", name, eph.Period, cat.Name, eph.HasEpoch)
			return eph, nil
		}
	}

	if !answered && len(errs) > 0 {
		return Ephemeris{}, errors.Join(errs...)
	}
	notFound := fmt.Errorf("no period for %q: %w", name, ErrNotFound)
	return Ephemeris{}, errors.Join(append([]error{notFound}, errs...)...)
}

// ephemerisFromRows takes the nearest row with a usable period.
func ephemerisFromRows(cat Catalog, rows []map[string]string) (Ephemeris, bool) {
	for _, row := range rows {
		var period float64
		for _, col := range cat.PeriodColumns {
			v, err := strconv.ParseFloat(row[col], 64)
			if err == nil && v > 0 {
				period = v
				break
			}
		}
		if period == 0 {
			continue
		}

		eph := Ephemeris{Period: period, Source: cat.Name}
		if raw := row[cat.EpochColumn]; raw != "" {
			if epoch, err := NormalizeEpoch(raw); err == nil {
				eph.Epoch = epoch
				eph.HasEpoch = true
			}
		}
		return eph, true
	}
	return Ephemeris{}, false
}

func (c *VizierClient) query(ctx context.Context, cat Catalog, name string) ([]map[string]string, error) {
	cols := append([]string{"Name"}, cat.PeriodColumns...)
	cols = append(cols, cat.EpochColumn)

	params := url.Values{}
	params.Set("-source", cat.Table)
	params.Set("-c", name)
	params.Set("-c.rs", strconv.Itoa(SearchRadiusArcsec))
	params.Set("-out", strings.Join(cols, ","))
	params.Set("-sort", "_r")
	params.Set("-out.max", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return parseTSV(body)
}

// parseTSV reads VizieR ASU-TSV output: '#' comment lines, a header line,
// a units line, a line of dashes, then one record per line.
func parseTSV(body []byte) ([]map[string]string, error) {
	var (
		header  []string
		started bool
		rows    []map[string]string
	)

	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		switch {
		case header == nil:
			header = make([]string, len(fields))
			for i, f := range fields {
				header[i] = strings.TrimSpace(f)
			}
		case !started:
			// units line, then dashes
			if isDashes(line) {
				started = true
			}
		default:
			row := make(map[string]string, len(header))
			for i, f := range fields {
				if i < len(header) {
					row[header[i]] = strings.TrimSpace(f)
				}
			}
			rows = append(rows, row)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan tsv: %w", err)
	}
	if header != nil && !started {
		return nil, fmt.Errorf("malformed tsv: no separator line after header")
	}
	return rows, nil
}

func isDashes(line string) bool {
	seen := false
	for _, r := range line {
		switch r {
		case '-':
			seen = true
		case '\t', ' ':
		default:
			return false
		}
	}
	return seen
}
