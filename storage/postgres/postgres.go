// Package postgres is a PostgreSQL storage.Store.
//
// Values live in one table:
//
//	CREATE TABLE properties (name text PRIMARY KEY, value text[] NOT NULL)
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/Comcast/p3/storage"

	"github.com/lib/pq"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS properties (name text PRIMARY KEY, value text[] NOT NULL)`
	upsert      = `INSERT INTO properties (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	selectValue = `SELECT value FROM properties WHERE name = $1`
	selectNames = `SELECT name FROM properties ORDER BY name`
)

// NotOpen is returned by Store methods called before a successful
// Open or after Close.
var NotOpen = errors.New("postgres store isn't open")

func init() {
	storage.Backends["postgres"] = func(dsn string) (storage.Store, error) {
		return NewStore(dsn), nil
	}
}

type Store struct {
	Debug bool
	dsn   string
	db    *sql.DB

	// owned is true when Open made db.
	owned bool
	open  bool
}

func NewStore(dsn string) *Store {
	return &Store{
		dsn: dsn,
	}
}

// NewStoreDB makes a Store that uses an existing handle.  Open will
// not open another.
func NewStoreDB(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("Postgres Store."+format, args...)
	}
}

func (s *Store) Open(ctx context.Context) error {
	if s.db == nil {
		db, err := sql.Open("postgres", s.dsn)
		if err != nil {
			return err
		}
		s.db = db
		s.owned = true
	}
	err := s.db.PingContext(ctx)
	if err == nil {
		_, err = s.db.ExecContext(ctx, createTable)
	}
	if err != nil {
		if s.owned {
			s.db.Close()
			s.db = nil
			s.owned = false
		}
		return err
	}
	s.open = true
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.open = false
	return err
}

func (s *Store) Put(ctx context.Context, name string, values []string) error {
	if !s.open {
		return NotOpen
	}
	s.logf("Put %s (%d lines)", name, len(values))
	_, err := s.db.ExecContext(ctx, upsert, name, pq.Array(values))
	return err
}

func (s *Store) Get(ctx context.Context, name string) ([]string, error) {
	if !s.open {
		return nil, NotOpen
	}
	s.logf("Get %s", name)
	var values []string
	err := s.db.QueryRowContext(ctx, selectValue, name).Scan(pq.Array(&values))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	if !s.open {
		return nil, NotOpen
	}
	rows, err := s.db.QueryContext(ctx, selectNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, 32)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.logf("Names found %d", len(names))
	return names, nil
}
