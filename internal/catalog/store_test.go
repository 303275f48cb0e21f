package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

var rtAnd = Star{Name: "RT And", RAdeg: 345.4, DecDeg: 53.03, Epoch: 2457000.0, Period: 0.6289}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stars_db.json"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpen_MissingFile(t *testing.T) {
	s := openTemp(t)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stars_db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open(corrupt) err = %v, want nil", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestAdd_PersistsPrettyJSON(t *testing.T) {
	s := openTemp(t)

	added, err := s.Add(rtAnd, nil)
	if err != nil || !added {
		t.Fatalf("Add = %v, %v", added, err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    {") {
		t.Errorf("file not indented with 4 spaces:\n%s", data)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"name", "ra", "dec", "epoch", "period"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("missing key %q in %v", key, raw[0])
		}
	}

	reopened, err := Open(s.Path(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := reopened.Stars()
	if len(got) != 1 || got[0] != rtAnd {
		t.Errorf("reloaded = %+v, want [%+v]", got, rtAnd)
	}
}

func TestAdd_CaseInsensitiveUpdate(t *testing.T) {
	s := openTemp(t)
	other := Star{Name: "Algol", RAdeg: 47.04, DecDeg: 40.96, Epoch: 2445641.5135, Period: 2.867328}
	if _, err := s.Add(rtAnd, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(other, nil); err != nil {
		t.Fatal(err)
	}

	updated := rtAnd
	updated.Name = "rt and"
	updated.Period = 0.628929

	// Without confirmation the duplicate is refused.
	if _, err := s.Add(updated, nil); !errors.Is(err, ErrExists) {
		t.Fatalf("Add(dup, nil) err = %v, want ErrExists", err)
	}

	// Declined: unchanged.
	var asked Star
	added, err := s.Add(updated, func(existing Star) bool {
		asked = existing
		return false
	})
	if err != nil || added {
		t.Fatalf("declined Add = %v, %v", added, err)
	}
	if asked.Name != "RT And" {
		t.Errorf("confirm saw %q, want RT And", asked.Name)
	}
	if st, _ := s.Find("RT AND"); st.Period != rtAnd.Period {
		t.Errorf("declined Add changed period to %v", st.Period)
	}

	// Confirmed: replaced, not duplicated, moved to the end.
	added, err = s.Add(updated, Overwrite)
	if err != nil || !added {
		t.Fatalf("confirmed Add = %v, %v", added, err)
	}
	stars := s.Stars()
	if len(stars) != 2 {
		t.Fatalf("Len = %d, want 2", len(stars))
	}
	if stars[0].Name != "Algol" || stars[1].Name != "rt and" || stars[1].Period != 0.628929 {
		t.Errorf("stars = %+v", stars)
	}
}

func TestAdd_RejectsInvalid(t *testing.T) {
	s := openTemp(t)
	bad := rtAnd
	bad.Period = 0

	var ve *ValidationError
	if _, err := s.Add(bad, nil); !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if s.Len() != 0 {
		t.Error("invalid star should not be stored")
	}
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Add(rtAnd, nil); err != nil {
		t.Fatal(err)
	}

	// Absent: no-op.
	removed, err := s.Delete("V Pup")
	if err != nil || removed {
		t.Errorf("Delete(absent) = %v, %v", removed, err)
	}
	// Exact match only.
	removed, err = s.Delete("rt and")
	if err != nil || removed {
		t.Errorf("Delete(other case) = %v, %v", removed, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	removed, err = s.Delete("RT And")
	if err != nil || !removed {
		t.Errorf("Delete = %v, %v", removed, err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestConcurrentMutationsPersistLatest(t *testing.T) {
	const n = 16

	for round := 0; round < 5; round++ {
		s := openTemp(t)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				st := rtAnd
				st.Name = fmt.Sprintf("S%d", i)
				if _, err := s.Add(st, nil); err != nil {
					t.Errorf("Add(%s): %v", st.Name, err)
				}
			}(i)
		}
		wg.Wait()

		reopened, err := Open(s.Path(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if reopened.Len() != n {
			t.Fatalf("round %d: reopened Len = %d, want %d", round, reopened.Len(), n)
		}

		for i := 0; i < n/2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := s.Delete(fmt.Sprintf("S%d", i)); err != nil {
					t.Errorf("Delete: %v", err)
				}
			}(i)
		}
		wg.Wait()

		if err := reopened.Load(); err != nil {
			t.Fatal(err)
		}
		if reopened.Len() != n/2 {
			t.Fatalf("round %d: after deletes Len = %d, want %d", round, reopened.Len(), n/2)
		}
	}
}

func TestSave_FailureKeepsMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "stars_db.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	added, err := s.Add(rtAnd, nil)
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}
	if !added || s.Len() != 1 {
		t.Errorf("in-memory catalog should keep the star: added=%v len=%d", added, s.Len())
	}
}

func TestStars_ReturnsCopy(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Add(rtAnd, nil); err != nil {
		t.Fatal(err)
	}
	snap := s.Stars()
	snap[0].Name = "changed"
	if st, ok := s.Find("RT And"); !ok || st.Name != "RT And" {
		t.Error("mutating a snapshot changed the store")
	}
}
