package starcat

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

// DB reads stars from a SQLite catalog. The schema is a single table:
//
//	CREATE TABLE stars (name TEXT, ra REAL, dec REAL, mag REAL)
//
// with ra and dec in radians, J2000.
type DB struct {
	db *sql.DB
}

// OpenDB opens a SQLite star catalog at path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("starcat: open catalog %s: %w", path, err)
	}
	// The catalog is read-only from our side, but the driver still wants
	// a single connection to avoid locking surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return &DB{db: db}, nil
}

// Close releases the underlying database handle.
func (c *DB) Close() error {
	return c.db.Close()
}

// BrightestInField returns up to limit stars within radius radians of the
// direction (ra, dec), brightest first. The prefilter is a bounding box in
// RA/Dec; callers projecting through a camera cull precisely afterwards.
// Catalog RA is stored in [0, 2pi), so the RA band is matched modulo 2pi:
// a field straddling RA=0 queries both the low band near 2pi and the
// wrapped band near 0.
func (c *DB) BrightestInField(ctx context.Context, ra, dec, radius float64, limit int) ([]Star, error) {
	const twoPi = 2 * math.Pi

	// Widen the RA window by the cosine of declination; near the poles the
	// box degenerates and we fall back to a full RA scan.
	raHalf := radius * 4
	cosDec := math.Cos(dec)
	if cosDec > 0.05 {
		raHalf = radius / cosDec
	}

	raLo := math.Mod(ra-raHalf, twoPi)
	if raLo < 0 {
		raLo += twoPi
	}
	raHi := raLo + 2*raHalf

	// The second band is the first shifted down one turn; it matches only
	// when the window wraps past 2pi, since stored RA is never negative.
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, ra, dec, mag FROM stars
		WHERE dec BETWEEN ? AND ?
		  AND (ra BETWEEN ? AND ? OR ra BETWEEN ? AND ? OR ? > 3.14159)
		ORDER BY mag ASC LIMIT ?`,
		dec-radius, dec+radius, raLo, raHi, raLo-twoPi, raHi-twoPi, raHalf, limit)
	if err != nil {
		return nil, fmt.Errorf("starcat: query catalog: %w", err)
	}
	defer rows.Close()

	var stars []Star
	for rows.Next() {
		var s Star
		if err := rows.Scan(&s.Name, &s.RA, &s.Dec, &s.Mag); err != nil {
			return nil, fmt.Errorf("starcat: scan star row: %w", err)
		}
		stars = append(stars, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("starcat: read star rows: %w", err)
	}
	return stars, nil
}

// All returns every star in the catalog in magnitude order.
func (c *DB) All(ctx context.Context) ([]Star, error) {
	return c.BrightestInField(ctx, 0, 0, 10, 1<<20)
}
