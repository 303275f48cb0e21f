package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/litescript/ls-eclipses/internal/logging"
)

// DefaultCacheTTL is how long a successful lookup is reused.
const DefaultCacheTTL = 7 * 24 * time.Hour

const cacheSchema = `
CREATE TABLE IF NOT EXISTS lookups (
    kind       TEXT NOT NULL,
    name       TEXT NOT NULL,
    payload    TEXT NOT NULL,
    fetched_at INTEGER NOT NULL,
    PRIMARY KEY (kind, name)
);
`

const (
	kindPosition  = "position"
	kindEphemeris = "ephemeris"
)

// Cache stores successful lookups in a local SQLite database. Failures are
// never cached.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(ctx context.Context, path string, ttl time.Duration, logger *logging.Logger) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.Discard()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now, logger: logger}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// get decodes a fresh entry into dst and reports whether one was found.
func (c *Cache) get(ctx context.Context, kind, name string, dst interface{}) (bool, error) {
	var (
		payload   string
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM lookups WHERE kind = ? AND name = ?",
		kind, cacheKey(name)).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s %q: %w", kind, name, err)
	}

	if c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, fmt.Errorf("cache: decode %s %q: %w", kind, name, err)
	}
	return true, nil
}

func (c *Cache) put(ctx context.Context, kind, name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s %q: %w", kind, name, err)
	}
	const q = `
		INSERT INTO lookups (kind, name, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`
	if _, err := c.db.ExecContext(ctx, q, kind, cacheKey(name), string(payload), c.now().Unix()); err != nil {
		return fmt.Errorf("cache: put %s %q: %w", kind, name, err)
	}
	return nil
}

// Purge deletes entries older than the TTL and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, "DELETE FROM lookups WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: purge: %w", err)
	}
	return res.RowsAffected()
}

// Positions wraps a resolver so that answers are served from the cache.
func (c *Cache) Positions(next PositionResolver) PositionResolver {
	return &cachedPositions{cache: c, next: next}
}

// Ephemerides wraps a resolver so that answers are served from the cache.
func (c *Cache) Ephemerides(next EphemerisResolver) EphemerisResolver {
	return &cachedEphemerides{cache: c, next: next}
}

type cachedPositions struct {
	cache *Cache
	next  PositionResolver
}

func (p *cachedPositions) Position(ctx context.Context, name string) (Position, error) {
	var pos Position
	hit, err := p.cache.get(ctx, kindPosition, name, &pos)
	if err != nil {
		p.cache.logger.Warn("%v", err)
	}
	if hit {
		p.cache.logger.Debug("position cache hit for %q", name)
		return pos, nil
	}

	pos, err = p.next.Position(ctx, name)
	if err != nil {
		return pos, err
	}
	if err := p.cache.put(ctx, kindPosition, name, pos); err != nil {
		p.cache.logger.Warn("%v", err)
	}
	return pos, nil
}

type cachedEphemerides struct {
	cache *Cache
	next  EphemerisResolver
}

func (e *cachedEphemerides) Ephemeris(ctx context.Context, name string) (Ephemeris, error) {
	var eph Ephemeris
	hit, err := e.cache.get(ctx, kindEphemeris, name, &eph)
	if err != nil {
		e.cache.logger.Warn("%v", err)
	}
	if hit {
		e.cache.logger.Debug("ephemeris cache hit for %q", name)
		return eph, nil
	}

	eph, err = e.next.Ephemeris(ctx, name)
	if err != nil {
		return eph, err
	}
	if err := e.cache.put(ctx, kindEphemeris, name, eph); err != nil {
		e.cache.logger.Warn("%v", err)
	}
	return eph, nil
}
