package plan

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/litescript/ls-eclipses/internal/catalog"
)

func sampleSchedule(t *testing.T) *Schedule {
	t.Helper()
	site := DefaultSite()
	midnight := time.Date(2024, 9, 21, 0, 0, 0, 0, site.Location())
	stars := []catalog.Star{
		starWithMinimumAt("RT And", 0, 0, site, midnight),
		{Name: "Broken", RAdeg: 1, DecDeg: 1, Epoch: 1, Period: 0},
	}
	sched, err := NewScheduler(site).Plan("2024-09-20", stars)
	if err != nil {
		t.Fatal(err)
	}
	return sched
}

func TestExport_WriteJSON(t *testing.T) {
	sched := sampleSchedule(t)

	var buf bytes.Buffer
	if err := Export(sched).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Date string `json:"date"`
		Rows []struct {
			Star   string `json:"star"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"rows"`
		Summary  []map[string]interface{} `json:"summary"`
		Failures []string                 `json:"failures"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, buf.String())
	}

	if decoded.Date != "2024-09-20" {
		t.Errorf("date = %q", decoded.Date)
	}
	if len(decoded.Rows) != 26 {
		t.Fatalf("rows = %d, want 26", len(decoded.Rows))
	}
	if decoded.Rows[12].Star != "RT And" || decoded.Rows[12].Status != "MINIMUM" {
		t.Errorf("midnight row = %+v", decoded.Rows[12])
	}
	if decoded.Rows[13].Status != "Error" || decoded.Rows[13].Error == "" {
		t.Errorf("broken row = %+v", decoded.Rows[13])
	}
	if len(decoded.Summary) != 2 || len(decoded.Failures) != 1 {
		t.Errorf("summary = %d, failures = %d", len(decoded.Summary), len(decoded.Failures))
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleSchedule(t))
	out := buf.String()

	for _, want := range []string{"Plan of observation for 2024-09-20", "UTC+3", "Variable Star", "MINIMUM", "00:00", "Error: Broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTable_SkyColumn(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleSchedule(t))

	want := map[string]string{
		"18:00 RT And": " day ",
		"00:00 RT And": " dark ",
		"00:00 Broken": " dark ",
	}
	found := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		for prefix, sky := range want {
			if strings.HasPrefix(strings.Join(strings.Fields(line), " "), prefix) {
				found++
				if !strings.Contains(line, sky) {
					t.Errorf("line %q: want sky %q", line, strings.TrimSpace(sky))
				}
			}
		}
	}
	if found != len(want) {
		t.Errorf("matched %d rows, want %d:\n%s", found, len(want), buf.String())
	}
}

func TestWriteTable_Empty(t *testing.T) {
	sched, err := NewScheduler(DefaultSite()).Plan("2024-09-20", nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	WriteTable(&buf, sched)
	if !strings.Contains(buf.String(), "No registered stars") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, Summarize(sampleSchedule(t)))
	out := buf.String()
	if !strings.Contains(out, "primary 00:00") {
		t.Errorf("summary missing primary minimum:\n%s", out)
	}
	if !strings.Contains(out, "Broken") || !strings.Contains(out, "error:") {
		t.Errorf("summary missing failure line:\n%s", out)
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"V1309 Scorpii", 8, "V1309 S…"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
