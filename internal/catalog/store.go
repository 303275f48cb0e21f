package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/litescript/ls-eclipses/internal/logging"
)

// DefaultPath is the catalog file used when none is configured.
const DefaultPath = "stars_db.json"

// Store is the in-memory star list backed by a JSON file. Every mutation
// rewrites the whole file.
type Store struct {
	// saveMu serializes mutate-then-write so the file always holds the
	// latest list. Taken before mu.
	saveMu sync.Mutex
	mu     sync.RWMutex
	path   string
	stars  []Star
	logger *logging.Logger
}

// Open creates a store for path and loads it.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{path: path, logger: logger}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory list with the file contents. A missing file
// yields an empty catalog. So does a file that is not valid JSON; that case is
// logged so the corruption is not lost silently.
func (s *Store) Load() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.replace(nil)
		return nil
	}
	if err != nil {
		return &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var stars []Star
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &stars); err != nil {
			s.logger.Warn("catalog %s is corrupt, starting empty: %v", s.path, err)
			stars = nil
		}
	}
	s.replace(stars)
	s.logger.Debug("loaded %d stars from %s", len(stars), s.path)
	return nil
}

func (s *Store) replace(stars []Star) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stars = stars
}

// Save writes the catalog as an indented JSON array. The file is replaced
// atomically through a temporary file in the same directory.
func (s *Store) Save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.persist()
}

// persist writes the current list. The caller holds saveMu.
func (s *Store) persist() error {
	s.mu.RLock()
	stars := s.snapshotLocked()
	s.mu.RUnlock()

	if err := writeFile(s.path, stars); err != nil {
		s.logger.Error("save catalog: %v", err)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func writeFile(path string, stars []Star) error {
	data, err := json.MarshalIndent(stars, "", "    ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Stars returns a copy of the catalog in insertion order.
func (s *Store) Stars() []Star {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Star {
	out := make([]Star, len(s.stars))
	copy(out, s.stars)
	return out
}

// Len returns the number of registered stars.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stars)
}

// Find looks a star up by name, ignoring case.
func (s *Store) Find(name string) (Star, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(name); i >= 0 {
		return s.stars[i], true
	}
	return Star{}, false
}

func (s *Store) indexLocked(name string) int {
	key := nameKey(name)
	for i, st := range s.stars {
		if st.Key() == key {
			return i
		}
	}
	return -1
}

// Overwrite is a confirm function that always allows replacement.
func Overwrite(Star) bool { return true }

// Add registers star. When a star with the same name (ignoring case) exists,
// confirm is asked; a nil confirm yields ErrExists, and a declined confirm
// leaves the catalog untouched and reports added=false. A replaced record is
// removed and the new one appended at the end.
//
// If the file cannot be written the in-memory change is kept and a
// *PersistenceError is returned alongside added=true.
func (s *Store) Add(star Star, confirm func(existing Star) bool) (bool, error) {
	if err := star.Validate(); err != nil {
		return false, err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if i := s.indexLocked(star.Name); i >= 0 {
		existing := s.stars[i]
		if confirm == nil {
			s.mu.Unlock()
			return false, fmt.Errorf("%w: %s", ErrExists, existing.Name)
		}
		// confirm may block on user input; readers proceed while it runs
		s.mu.Unlock()
		if !confirm(existing) {
			return false, nil
		}
		s.mu.Lock()
		if j := s.indexLocked(star.Name); j >= 0 {
			s.stars = append(s.stars[:j], s.stars[j+1:]...)
		}
		s.logger.Info("updating %s", star.Name)
	} else {
		s.logger.Info("adding %s", star.Name)
	}
	s.stars = append(s.stars, star)
	s.mu.Unlock()

	return true, s.persist()
}

// Delete removes the star whose name matches exactly. Deleting an absent
// star is a no-op and reports removed=false.
func (s *Store) Delete(name string) (bool, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	idx := -1
	for i, st := range s.stars {
		if st.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.stars = append(s.stars[:idx], s.stars[idx+1:]...)
	s.mu.Unlock()

	s.logger.Info("deleted %s", name)
	return true, s.persist()
}
