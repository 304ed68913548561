// Package bolt is a BoltDB storage.Store.
//
// All properties live in one bucket.  Each value is a JSON entry
// with the lines and the time they were stored.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Comcast/p3/storage"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the bucket a new Store uses.
var DefaultBucket = []byte("properties")

// NotOpen is returned by Store methods called before Open or after
// Close.
var NotOpen = errors.New("bolt store isn't open")

func init() {
	storage.Backends["bolt"] = func(filename string) (storage.Store, error) {
		return NewStore(filename)
	}
}

// Entry is what's stored for a property.
type Entry struct {
	Values  []string  `json:"values"`
	Updated time.Time `json:"updated"`
}

// Store keeps properties in a BoltDB file.
type Store struct {
	Debug bool

	// Bucket holds the properties.
	Bucket []byte

	// Timeout is how long Open waits for the file lock.  A context
	// deadline that's sooner wins.
	Timeout time.Duration

	filename string
	db       *bolt.DB
}

// NewStore makes a Store for the file, which is created by Open if
// needed.
func NewStore(filename string) (*Store, error) {
	if filename == "" {
		return nil, errors.New("bolt store needs a filename")
	}
	return &Store{
		Bucket:   DefaultBucket,
		Timeout:  time.Second,
		filename: filename,
	}, nil
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("bolt.Store %s "+format, append([]interface{}{s.filename}, args...)...)
	}
}

func (s *Store) Open(ctx context.Context) error {
	timeout := s.Timeout
	if deadline, have := ctx.Deadline(); have {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	db, err := bolt.Open(s.filename, 0644, &bolt.Options{Timeout: timeout})
	if err != nil {
		return err
	}
	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.Bucket)
		return err
	}); err != nil {
		db.Close()
		return err
	}
	s.db = db
	s.logf("opened")
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Put(ctx context.Context, name string, values []string) error {
	if s.db == nil {
		return NotOpen
	}
	s.logf("Put %s (%d lines)", name, len(values))

	js, err := json.Marshal(&Entry{
		Values:  values,
		Updated: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.Bucket).Put([]byte(name), js)
	})
}

// Entry returns what's stored for the name.
func (s *Store) Entry(ctx context.Context, name string) (*Entry, error) {
	if s.db == nil {
		return nil, NotOpen
	}
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		js := tx.Bucket(s.Bucket).Get([]byte(name))
		if js == nil {
			return storage.NotFound
		}
		return json.Unmarshal(js, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) Get(ctx context.Context, name string) ([]string, error) {
	e, err := s.Entry(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Values, nil
}

// Names returns the names in byte order, which is the order BoltDB
// keeps them in.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, NotOpen
	}
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.Bucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return ctx.Err()
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
