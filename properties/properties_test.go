package properties

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type event struct {
	Name  string
	Value interface{}
}

type recorder struct {
	events []event
	fail   string
}

var errBoom = errors.New("boom")

func (r *recorder) OnSingleLineProperty(ctx context.Context, name, value string) error {
	if name == r.fail {
		return errBoom
	}
	r.events = append(r.events, event{name, value})
	return nil
}

func (r *recorder) OnMultiLineProperty(ctx context.Context, name string, values []string) error {
	if name == r.fail {
		return errBoom
	}
	r.events = append(r.events, event{name, values})
	return nil
}

func TestScan(t *testing.T) {
	doc := `# comment
! another comment

a.b=1
a.c : two
a.d   three
greeting = hello \
    world
escaped = tab\there\\now
key\=with\:seps = x
empty=
lonely
__DIRECTIVES__=<<<END
define foo as new p3.Catcher
  if name is like "special\\.url"
END
after = done
`
	r := &recorder{}
	if err := Scan(context.Background(), strings.NewReader(doc), r); err != nil {
		t.Fatal(err)
	}

	want := []event{
		{"a.b", "1"},
		{"a.c", "two"},
		{"a.d", "three"},
		{"greeting", "hello world"},
		{"escaped", "tab\there\\now"},
		{"key=with:seps", "x"},
		{"empty", ""},
		{"lonely", ""},
		{"__DIRECTIVES__", []string{
			`define foo as new p3.Catcher`,
			`  if name is like "special\\.url"`,
		}},
		{"after", "done"},
	}
	if !reflect.DeepEqual(r.events, want) {
		t.Fatalf("%#v", r.events)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		line int
	}{
		{"unterminated", "a=1\nb=<<<END\nx\n", 2},
		{"no terminator", "a=<<<\n", 1},
		{"no name", "=1\n", 1},
		{"dangling continuation", "a=1\nb=2 \\", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Scan(context.Background(), strings.NewReader(tc.doc), &recorder{})
			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("%T %v", err, err)
			}
			if se.Line != tc.line {
				t.Fatal(se.Line)
			}
		})
	}
}

func TestScanStopsOnListenerError(t *testing.T) {
	r := &recorder{fail: "b"}
	err := Scan(context.Background(), strings.NewReader("a=1\nb=2\nc=3\n"), r)
	if !errors.Is(err, errBoom) {
		t.Fatal(err)
	}
	var ee *EventError
	if !errors.As(err, &ee) || ee.Line != 2 {
		t.Fatal(err)
	}
	if len(r.events) != 1 {
		t.Fatal(r.events)
	}
}

func TestScanYAML(t *testing.T) {
	doc := `server:
  port: 8443
  names:
    - example.com
    - www.example.com
  tls: ~
__DIRECTIVES__: |
  define foo as new p3.Catcher
---
other: x
`
	r := &recorder{}
	if err := ScanYAML(context.Background(), strings.NewReader(doc), r); err != nil {
		t.Fatal(err)
	}

	want := []event{
		{"server.port", "8443"},
		{"server.names", []string{"example.com", "www.example.com"}},
		{"server.tls", ""},
		{"__DIRECTIVES__", "define foo as new p3.Catcher\n"},
		{"other", "x"},
	}
	if !reflect.DeepEqual(r.events, want) {
		t.Fatalf("%#v", r.events)
	}
}

func TestScanYAMLAliases(t *testing.T) {
	doc := "base: &b\n  x: 1\ncopy: *b\nagain: *b\n"
	r := &recorder{}
	if err := ScanYAML(context.Background(), strings.NewReader(doc), r); err != nil {
		t.Fatal(err)
	}
	want := []event{
		{"base.x", "1"},
		{"copy.x", "1"},
		{"again.x", "1"},
	}
	if !reflect.DeepEqual(r.events, want) {
		t.Fatalf("%#v", r.events)
	}
}

func TestScanYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"nested sequence", "a:\n  - b: 1\n"},
		{"top-level sequence", "- a\n- b\n"},
		{"top-level scalar", "tacos\n"},
		{"recursive alias", "a: &x\n  b: *x\n"},
		{"deeper recursive alias", "a: &x\n  b:\n    c: *x\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ScanYAML(context.Background(), strings.NewReader(tc.doc), &recorder{})
			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("%T %v", err, err)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"app.properties":        "properties",
		"app.yaml":              "yaml",
		"/etc/app.YML":          "yaml",
		"application/x-yaml":    "yaml",
		"text/plain":            "properties",
		"http://x.com/app.conf": "properties",
	}
	for s, want := range tests {
		if got := FormatOf(s); got != want {
			t.Errorf("%s: %s != %s", s, got, want)
		}
		if _, err := ScannerFor(want); err != nil {
			t.Error(err)
		}
	}
	if _, err := ScannerFor("toml"); err == nil {
		t.Fatal("didn't protest")
	}
}
