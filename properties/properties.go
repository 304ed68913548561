// Package properties reads property documents and raises an event
// for each property.
//
// The properties format is the familiar one:
//
//	# comment
//	! comment
//	server.port = 8443
//	server.name: example.com
//	greeting = hello \
//	    world
//
// A value of "<<<" followed by a terminator starts a multi-line
// property, which ends at a line that's just the terminator:
//
//	__DIRECTIVES__=<<<END
//	define foo as new p3.Catcher
//	...
//	END
package properties

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Listener receives property events.  A *core.P3 is a Listener.
type Listener interface {
	OnSingleLineProperty(ctx context.Context, name, value string) error
	OnMultiLineProperty(ctx context.Context, name string, values []string) error
}

// HeredocMarker introduces a multi-line value.
var HeredocMarker = "<<<"

// ScanError reports a problem with the document.
type ScanError struct {
	Line int
	Msg  string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// EventError wraps an error returned by a Listener.
type EventError struct {
	Line int
	Name string
	Err  error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Name, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// Scan reads the document and calls the listener for each property
// in document order.  Scanning stops at the first error.
//
// Single-line values are unescaped (\t, \n, \r, \\ and any other
// escaped character stands for itself).  The lines of a multi-line
// value are verbatim.
func Scan(ctx context.Context, r io.Reader, l Listener) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	next := func() (string, bool) {
		if !s.Scan() {
			return "", false
		}
		line++
		return strings.TrimSuffix(s.Text(), "\r"), true
	}

	for {
		text, ok := next()
		if !ok {
			break
		}
		at := line

		trimmed := strings.TrimLeft(text, " \t\f")
		if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
			continue
		}

		// Continuations.
		for continued(trimmed) {
			more, ok := next()
			if !ok {
				return &ScanError{Line: at, Msg: "continuation at end of input"}
			}
			trimmed = trimmed[:len(trimmed)-1] + strings.TrimLeft(more, " \t\f")
		}

		name, value := split(trimmed)
		if name == "" {
			return &ScanError{Line: at, Msg: "missing property name"}
		}

		if strings.HasPrefix(value, HeredocMarker) {
			terminator := strings.TrimSpace(value[len(HeredocMarker):])
			if terminator == "" {
				return &ScanError{Line: at, Msg: "missing heredoc terminator"}
			}
			var lines []string
			closed := false
			for {
				more, ok := next()
				if !ok {
					break
				}
				if strings.TrimSpace(more) == terminator {
					closed = true
					break
				}
				lines = append(lines, more)
			}
			if !closed {
				return &ScanError{Line: at, Msg: "unterminated heredoc " + terminator}
			}
			if lines == nil {
				lines = []string{}
			}
			if err := l.OnMultiLineProperty(ctx, name, lines); err != nil {
				return &EventError{Line: at, Name: name, Err: err}
			}
			continue
		}

		if err := l.OnSingleLineProperty(ctx, name, unescape(value)); err != nil {
			return &EventError{Line: at, Name: name, Err: err}
		}
	}

	return s.Err()
}

// continued reports whether the line ends with an odd number of
// backslashes.
func continued(s string) bool {
	n := 0
	for i := len(s) - 1; 0 <= i && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// split finds the first unescaped '=' or ':' (or, failing that,
// whitespace) and returns the unescaped name and the raw value.
func split(s string) (string, string) {
	end := len(s)
	sep := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' {
			end, sep = i, i+1
			break
		}
		if c == ' ' || c == '\t' || c == '\f' {
			end, sep = i, i
			// A separator can follow the whitespace.
			j := strings.IndexFunc(s[i:], func(r rune) bool {
				return r != ' ' && r != '\t' && r != '\f'
			})
			if 0 <= j && (s[i+j] == '=' || s[i+j] == ':') {
				sep = i + j + 1
			}
			break
		}
	}
	name := unescape(s[:end])
	if sep < 0 {
		return name, ""
	}
	return name, strings.TrimLeft(s[sep:], " \t\f")
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
