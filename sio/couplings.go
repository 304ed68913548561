/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sio couples property sources to a P3.
package sio

import (
	"context"
	"fmt"

	"github.com/Comcast/p3/properties"
	"github.com/Comcast/p3/util"
)

// Event is a property to process.  Value is a string for a
// single-line property and a []string for a multi-line property.
type Event struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Lines returns the value as lines if the event is multi-line.
func (e *Event) Lines() ([]string, bool) {
	ss, is := e.Value.([]string)
	return ss, is
}

// Result reports what happened to an Event.
type Result struct {
	Event *Event
	Err   error
}

// Couplings provide channels for property input and results output.
//
// For example, an implementation could couple a P3 to an MQTT broker.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and result channels along with a
	// channel that's closed when there's no more input.
	IO(context.Context) (chan *Event, chan *Result, chan bool, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Dispatch sends the event to the listener.
func Dispatch(ctx context.Context, l properties.Listener, e *Event) error {
	switch vv := e.Value.(type) {
	case string:
		return l.OnSingleLineProperty(ctx, e.Name, vv)
	case []string:
		return l.OnMultiLineProperty(ctx, e.Name, vv)
	default:
		return fmt.Errorf("%s: bad value type %T", e.Name, e.Value)
	}
}

// Run pumps events from the Couplings into the listener until the
// input is done or the context is done.
//
// Events are processed one at a time on the calling goroutine.
func Run(ctx context.Context, c Couplings, l properties.Listener) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	in, out, done, err := c.IO(ctx)
	if err != nil {
		return err
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case <-done:
			break LOOP
		case e := <-in:
			if e == nil {
				break LOOP
			}
			err := Dispatch(ctx, l, e)
			if err != nil {
				util.Logf("sio.Run %s error %s", e.Name, err)
			}
			select {
			case <-ctx.Done():
				break LOOP
			case out <- &Result{Event: e, Err: err}:
			}
		}
	}

	// Tell the output side we're done.
	select {
	case <-ctx.Done():
	case out <- nil:
	}

	return c.Stop(ctx)
}

// Feeder is a properties.Listener that sends events to a channel.
type Feeder struct {
	In chan *Event
}

func (f *Feeder) send(ctx context.Context, e *Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case f.In <- e:
		return nil
	}
}

func (f *Feeder) OnSingleLineProperty(ctx context.Context, name, value string) error {
	return f.send(ctx, &Event{Name: name, Value: value})
}

func (f *Feeder) OnMultiLineProperty(ctx context.Context, name string, values []string) error {
	return f.send(ctx, &Event{Name: name, Value: values})
}
