// Package storage persists property values.
//
// A value is stored as lines, so a single-line property is one line
// and a multi-line property keeps its lines.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// NotFound is returned by Get when there is no value for the name.
var NotFound = errors.New("not found")

// Store is a persistence interface that's suitable for property
// values.
type Store interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	// Put writes the value, replacing any previous value for the
	// name.
	Put(ctx context.Context, name string, values []string) error

	// Get returns NotFound if the name has no value.
	Get(ctx context.Context, name string) ([]string, error)

	// Names returns the names with values in sorted order.
	Names(ctx context.Context) ([]string, error)
}

// Opener makes a Store from the part of a backend string after the
// colon.
type Opener func(arg string) (Store, error)

// Backends maps a backend name to its Opener.  Packages register
// themselves here from their init functions.
var Backends = map[string]Opener{
	"noop": func(string) (Store, error) {
		return &NoopStore{}, nil
	},
}

// UnknownBackend occurs when a backend string names no registered
// backend.
type UnknownBackend struct {
	Name string
}

func (e *UnknownBackend) Error() string {
	return fmt.Sprintf("unknown storage backend %q", e.Name)
}

// New makes a Store from a backend string like "bolt:/tmp/props.db" or
// "postgres:host=localhost dbname=props".  The backend "noop" needs no
// argument.
func New(backend string) (Store, error) {
	name, arg := backend, ""
	if i := strings.Index(backend, ":"); 0 <= i {
		name, arg = backend[:i], backend[i+1:]
	}
	open, have := Backends[name]
	if !have {
		return nil, &UnknownBackend{Name: name}
	}
	return open(arg)
}
