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

package sio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Comcast/p3/properties"
)

// Stdio is a fairly simple Couplings that reads a property document
// from stdin and reports problems to stdout.
type Stdio struct {
	// In is the property document.
	In io.Reader

	// Out gets the output.
	Out io.Writer

	// Format is "properties" or "yaml" (see properties.Formats).
	Format string

	// ShellExpand enables single-line values to include inline
	// shell commands delimited by '<<' and '>>'.  Use at your own
	// risk, of course!
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes each property (tagged with "input") to the
	// output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "error").
	Tags bool

	// PadTags adds some padding to tags used in output.
	PadTags bool

	// InputEOF will be closed at the end of the input.
	InputEOF chan bool

	// Errors counts the properties that failed.
	Errors int

	// ScanErr is the error, if any, that stopped reading the
	// input.
	ScanErr error

	WG sync.WaitGroup
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio(format string) *Stdio {
	return &Stdio{
		In:       os.Stdin,
		Out:      os.Stdout,
		Format:   format,
		InputEOF: make(chan bool),
	}
}

// Start checks the format.
func (s *Stdio) Start(ctx context.Context) error {
	if s.Format == "" {
		s.Format = "properties"
	}
	_, err := properties.ScannerFor(s.Format)
	return err
}

// Stop waits until IO is complete or was terminated via its context.
//
// Returns the error that stopped reading the input, if any.
func (s *Stdio) Stop(ctx context.Context) error {
	s.WG.Wait()
	return s.ScanErr
}

func (s *Stdio) printf(tag, format string, args ...interface{}) {
	if s.PadTags {
		tag = fmt.Sprintf("% 10s", tag)
	}
	if s.Tags {
		format = tag + " " + format
	}
	if s.Timestamps {
		ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
		format = ts + " " + format
	}

	fmt.Fprintf(s.Out, format, args...)
}

// expander is a listener that expands shell commands in single-line
// values.
type expander struct {
	properties.Listener
}

func (e *expander) OnSingleLineProperty(ctx context.Context, name, value string) error {
	expanded, err := ShellExpand(ctx, value)
	if err != nil {
		return err
	}
	return e.Listener.OnSingleLineProperty(ctx, name, expanded)
}

// IO returns channels for reading from In and writing to Out.
func (s *Stdio) IO(ctx context.Context) (chan *Event, chan *Result, chan bool, error) {
	scan, err := properties.ScannerFor(s.Format)
	if err != nil {
		return nil, nil, nil, err
	}

	in := make(chan *Event)
	done := make(chan bool)

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		var l properties.Listener = &Feeder{In: in}
		if s.ShellExpand {
			l = &expander{l}
		}
		if err := scan(ctx, s.In, l); err != nil {
			log.Printf("stdio input error %s", err)
			s.ScanErr = err
		}
		close(done)
		if s.InputEOF != nil {
			close(s.InputEOF)
		}
	}()

	out := make(chan *Result)

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				if s.EchoInput {
					s.printf("input", "%s %s\n", r.Event.Name, JShort(r.Event.Value))
				}
				if r.Err != nil {
					s.Errors++
					s.printf("error", "%s: %s\n", r.Event.Name, r.Err)
				}
			}
		}
	}()

	return in, out, done, nil
}
