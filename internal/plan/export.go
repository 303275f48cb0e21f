package plan

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/litescript/ls-eclipses/internal/astro"
)

// ScheduleExport is the JSON-serializable representation of a schedule.
type ScheduleExport struct {
	Date     string          `json:"date"`
	Site     SiteExport      `json:"site"`
	Rows     []RowExport     `json:"rows"`
	Summary  []SummaryExport `json:"summary"`
	Failures []string        `json:"failures,omitempty"`
}

// SiteExport is a JSON-friendly site.
type SiteExport struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m"`
	UTCOffset  float64 `json:"utc_offset"`
}

// RowExport is a JSON-friendly schedule row.
type RowExport struct {
	LocalTime   time.Time `json:"local_time"`
	Star        string    `json:"star"`
	Phase       float64   `json:"phase"`
	AltitudeDeg float64   `json:"altitude_deg"`
	AzimuthDeg  float64   `json:"azimuth_deg"`
	SunAltDeg   float64   `json:"sun_altitude_deg"`
	HJD         float64   `json:"hjd"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// SummaryExport is a JSON-friendly star summary.
type SummaryExport struct {
	Star       string          `json:"star"`
	PeakTime   *time.Time      `json:"peak_time,omitempty"`
	PeakAltDeg float64         `json:"peak_altitude_deg"`
	RisesAbove *time.Time      `json:"rises_above_limit,omitempty"`
	SetsBelow  *time.Time      `json:"sets_below_limit,omitempty"`
	Minima     []MinimumExport `json:"minima,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// MinimumExport is a JSON-friendly predicted minimum.
type MinimumExport struct {
	Kind        string    `json:"kind"`
	LocalTime   time.Time `json:"local_time"`
	HJD         float64   `json:"hjd"`
	AltitudeDeg float64   `json:"altitude_deg"`
}

// Export converts a schedule to its exportable form.
func Export(s *Schedule) *ScheduleExport {
	out := &ScheduleExport{
		Date: s.Date,
		Site: SiteExport{
			Name:       s.Site.Name,
			Latitude:   s.Site.LatDeg,
			Longitude:  s.Site.LonDeg,
			ElevationM: s.Site.ElevationM,
			UTCOffset:  s.Site.UTCOffsetHours,
		},
		Rows: make([]RowExport, 0, len(s.Rows)),
	}

	for _, r := range s.Rows {
		re := RowExport{
			LocalTime:   r.LocalTime,
			Star:        r.Star,
			Phase:       r.Phase,
			AltitudeDeg: r.AltitudeDeg,
			AzimuthDeg:  r.AzimuthDeg,
			SunAltDeg:   r.SunAltDeg,
			HJD:         r.HJD,
			Status:      r.Status,
		}
		if r.Err != nil {
			re.Error = r.Err.Error()
		}
		out.Rows = append(out.Rows, re)
	}

	for _, sum := range Summarize(s) {
		se := SummaryExport{
			Star:       sum.Star,
			PeakTime:   timePtr(sum.PeakTime),
			PeakAltDeg: sum.PeakAltDeg,
			RisesAbove: timePtr(sum.RisesAbove),
			SetsBelow:  timePtr(sum.SetsBelow),
		}
		if sum.Err != nil {
			se.Error = sum.Err.Error()
		}
		for _, m := range sum.Minima {
			se.Minima = append(se.Minima, MinimumExport{
				Kind:        m.Kind.String(),
				LocalTime:   m.LocalTime,
				HJD:         m.HJD,
				AltitudeDeg: m.AltitudeDeg,
			})
		}
		out.Summary = append(out.Summary, se)
	}

	for _, f := range s.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// WriteJSON writes the export as indented JSON.
func (e *ScheduleExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteTable writes the schedule rows as a text table, one line per
// (time, star) pair.
func WriteTable(w io.Writer, s *Schedule) {
	fmt.Fprintf(w, "Plan of observation for %s @ %s (%s)\n",
		s.Date, s.Site.Name, s.Site.Location())
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(s.Stars) == 0 {
		fmt.Fprintln(w, "No registered stars")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-7s %-9s %-7s %-9s %-14s\n",
		"Time", "Variable Star", "Phase", "Alt (°)", "Sun", "Sky", "Status")
	fmt.Fprintln(w, strings.Repeat("─", 82))

	for i := range s.Times {
		for _, r := range s.RowsAt(i) {
			sky := astro.GetSkyCondition(r.SunAltDeg)
			if r.Status == Error {
				fmt.Fprintf(w, "%-6s %-20s %-7s %-9s %7.1f %-9s %-14s\n",
					r.LocalTime.Format("15:04"), truncateStr(r.Star, 20), "-", "-", r.SunAltDeg, sky, r.Status)
				continue
			}
			fmt.Fprintf(w, "%-6s %-20s %-7.4f %9.1f %7.1f %-9s %-14s\n",
				r.LocalTime.Format("15:04"),
				truncateStr(r.Star, 20),
				r.Phase,
				r.AltitudeDeg,
				r.SunAltDeg,
				sky,
				r.Status,
			)
		}
	}

	for _, f := range s.Failures {
		fmt.Fprintf(w, "\nError: %v", f)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintln(w)
	}
}

// WriteSummaryTable writes one line per star with its best time and any
// predicted minima.
func WriteSummaryTable(w io.Writer, summaries []StarSummary) {
	fmt.Fprintf(w, "%-20s %-6s %-7s %-6s %-6s %s\n",
		"Variable Star", "Peak", "Alt (°)", "Rises", "Sets", "Minima")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, sum := range summaries {
		if sum.Err != nil {
			fmt.Fprintf(w, "%-20s error: %v\n", truncateStr(sum.Star, 20), sum.Err)
			continue
		}
		var minima []string
		for _, m := range sum.Minima {
			minima = append(minima, fmt.Sprintf("%s %s (%.0f°)",
				m.Kind, clock(m.LocalTime), m.AltitudeDeg))
		}
		fmt.Fprintf(w, "%-20s %-6s %7.1f %-6s %-6s %s\n",
			truncateStr(sum.Star, 20),
			clock(sum.PeakTime),
			sum.PeakAltDeg,
			clock(sum.RisesAbove),
			clock(sum.SetsBelow),
			strings.Join(minima, ", "),
		)
	}
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Round(time.Minute).Format("15:04")
}

// truncateStr shortens s to max runes, marking the cut with an ellipsis.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
