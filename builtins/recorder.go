package builtins

import (
	"context"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/storage"
	"github.com/Comcast/p3/util"

	// Backends register themselves.
	_ "github.com/Comcast/p3/storage/bolt"
	_ "github.com/Comcast/p3/storage/postgres"
)

// Recorder writes each property it's given to a storage.Store.
//
// Until SetBackend is called, the Recorder uses a storage.NoopStore.
type Recorder struct {
	Store storage.Store
}

func NewRecorder() *Recorder {
	return &Recorder{
		Store: &storage.NoopStore{},
	}
}

// SetBackend closes the current Store and opens the one given by the
// value, which is a backend string for storage.New.
func (r *Recorder) SetBackend(ctx context.Context, name, value string) error {
	s, err := storage.New(value)
	if err != nil {
		return err
	}
	if err = s.Open(ctx); err != nil {
		return err
	}
	if err = r.Store.Close(ctx); err != nil {
		util.Logf("Recorder close error %s", err)
	}
	r.Store = s
	return nil
}

func (r *Recorder) Record(ctx context.Context, name, value string) error {
	return r.Store.Put(ctx, name, core.AsLines(value))
}

func (r *Recorder) RecordLines(ctx context.Context, name string, values []string) error {
	return r.Store.Put(ctx, name, values)
}

// Close closes the current Store.
func (r *Recorder) Close(ctx context.Context) error {
	return r.Store.Close(ctx)
}
