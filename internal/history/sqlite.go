package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

// SQLiteStore keeps history in a single-file database. Appends are
// transactional and keyed on the identifier, so replaying the same batch is
// harmless. sqlite's own locking serializes concurrent writers.
type SQLiteStore struct {
	pool *sql.DB
	log  *logging.Logger
}

func OpenSQLite(path string, log *logging.Logger) (*SQLiteStore, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1) // sqlite wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	s := &SQLiteStore{pool: pool, log: log.With("store", "sqlite", "path", path)}
	if err := s.migrate(); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  organization TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  duration TEXT NOT NULL DEFAULT '',
  start_date TEXT NOT NULL DEFAULT '',
  end_date TEXT NOT NULL DEFAULT '',
  deadline TEXT NOT NULL DEFAULT '',
  reference TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Load() ([]domain.Listing, error) {
	rows, err := s.pool.Query(`
SELECT id, title, organization, location, category, duration,
       start_date, end_date, deadline, reference, description, link, first_seen
FROM listings
ORDER BY rowid;`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var firstSeen string
		if err := rows.Scan(&l.ID, &l.Title, &l.Organization, &l.Location,
			&l.Category, &l.Duration, &l.StartDate, &l.EndDate, &l.Deadline,
			&l.Reference, &l.Description, &l.URL, &firstSeen); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		l.FirstSeen, _ = time.Parse(timeLayout, firstSeen)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	if len(out) == 0 {
		s.log.Info("history database is empty, treating as first run")
	} else {
		s.log.Info("loaded history", "records", len(out))
	}
	return out, nil
}

func (s *SQLiteStore) Append(listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.pool.Begin()
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range listings {
		if _, err := tx.Exec(`
INSERT OR IGNORE INTO listings(
  id, title, organization, location, category, duration,
  start_date, end_date, deadline, reference, description, link, first_seen)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?);`,
			l.ID, l.Title, l.Organization, l.Location, l.Category, l.Duration,
			l.StartDate, l.EndDate, l.Deadline, l.Reference, l.Description,
			l.URL, l.FirstSeen.Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert listing %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	s.log.Info("appended history rows", "records", len(listings))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}
