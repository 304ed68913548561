package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/properties"
	"github.com/Comcast/p3/storage"
)

// recording is a listener that writes each property that its
// Listener processed without error to a store.
type recording struct {
	properties.Listener
	store storage.Store
}

func (r *recording) OnSingleLineProperty(ctx context.Context, name, value string) error {
	if err := r.Listener.OnSingleLineProperty(ctx, name, value); err != nil {
		return err
	}
	return r.store.Put(ctx, name, []string{value})
}

func (r *recording) OnMultiLineProperty(ctx context.Context, name string, values []string) error {
	if err := r.Listener.OnMultiLineProperty(ctx, name, values); err != nil {
		return err
	}
	return r.store.Put(ctx, name, values)
}

type closer interface {
	Close(ctx context.Context) error
}

// closeHolders closes every object that has a Close method, like a
// p3.Recorder and its store.
func closeHolders(ctx context.Context, objs core.Objects) error {
	var errs []error
	objs.Range(func(id string, x interface{}) bool {
		if c, is := x.(closer); is {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
			}
		}
		return true
	})
	return errors.Join(errs...)
}
