package core

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// catcher stores what it's given.
type catcher struct {
	Properties map[string]string
}

func newCatcher() interface{} {
	return &catcher{Properties: make(map[string]string)}
}

func (c *catcher) Store(name, value string) {
	c.Properties[name] = value
}

func (c *catcher) StoreLines(name string, value []string) {
	c.Store(name, strings.Join(value, "\n"))
}

// recorder remembers the order of calls.
type recorder struct {
	Calls []string
	Lines [][]string
}

func (r *recorder) First(name, value string) {
	r.Calls = append(r.Calls, "first:"+name)
}

func (r *recorder) Second(ctx context.Context, name, value string) error {
	r.Calls = append(r.Calls, "second:"+name)
	if value == "fail" {
		return errors.New("second failed")
	}
	return nil
}

func (r *recorder) Third(name, value string) error {
	r.Calls = append(r.Calls, "third:"+name)
	return nil
}

func (r *recorder) Collect(name string, value []string) {
	r.Lines = append(r.Lines, value)
}

// Wrong has no usable signature.
func (r *recorder) Wrong(value string) {}

type other struct{ recorder }

func p3Factories() Factories {
	fs := NewFactories()
	fs.Add("Catcher", newCatcher)
	fs.Add("Recorder", func() interface{} { return &recorder{} })
	fs.Add("Other", func() interface{} { return &other{} })
	return fs
}

func setup(t *testing.T, lines ...string) *P3 {
	p := New("", p3Factories())
	if err := p.OnMultiLineProperty(context.Background(), DefaultDirectivesName, lines); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCatcher(t *testing.T) {
	p := setup(t,
		`define foo as new Catcher`,
		`on singleLinePropertyParsed with a String named name, a String named value`,
		`    if name is "catched"`,
		`        call store from foo using name as name, value as value`,
		`    endif`,
		`endon`)

	ctx := context.Background()

	if err := p.OnSingleLineProperty(ctx, "not.catched", "x"); err != nil {
		t.Fatal(err)
	}
	x, have := p.Get("foo")
	if !have {
		t.Fatal("foo isn't defined")
	}
	c := x.(*catcher)
	if len(c.Properties) != 0 {
		t.Fatal(c.Properties)
	}

	if err := p.OnSingleLineProperty(ctx, "catched", "y"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.Properties, map[string]string{"catched": "y"}) {
		t.Fatal(c.Properties)
	}

	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Fatal(diags)
	}
}

func TestFirstMatchWins(t *testing.T) {
	p := setup(t,
		`define r as new Recorder`,
		`on singleLinePropertyParsed`,
		`  if name is "foo"`,
		`    call first from r`,
		`  else if name is like ".*"`,
		`    call third from r`,
		`  endif`,
		`endon`)

	ctx := context.Background()
	for _, name := range []string{"foo", "bar"} {
		if err := p.OnSingleLineProperty(ctx, name, "v"); err != nil {
			t.Fatal(err)
		}
	}
	x, _ := p.Get("r")
	want := []string{"first:foo", "third:bar"}
	if got := x.(*recorder).Calls; !reflect.DeepEqual(got, want) {
		t.Fatal(got)
	}
}

func TestElseIsLast(t *testing.T) {
	p := setup(t,
		`define r as new Recorder`,
		`on singleLinePropertyParsed`,
		`  if name is "a"`,
		`    call first from r`,
		`  else`,
		`    call third from r`,
		`  endif`,
		`  if name is "b"`,
		`    call second from r`,
		`  endif`,
		`endon`)

	rules := p.SingleLineRules().Rules
	// Directives, "a", else, "b".
	if len(rules) != 4 {
		t.Fatalf("%d rules", len(rules))
	}
	if rules[2].Matcher != Otherwise {
		t.Fatal(rules[2])
	}

	ctx := context.Background()
	if err := p.OnSingleLineProperty(ctx, "b", "v"); err != nil {
		t.Fatal(err)
	}
	x, _ := p.Get("r")
	if got := x.(*recorder).Calls; !reflect.DeepEqual(got, []string{"third:b"}) {
		t.Fatal(got)
	}
}

func TestProcessorsRunInOrderAndStopOnError(t *testing.T) {
	p := setup(t,
		`define r as new Recorder`,
		`on singleLinePropertyParsed`,
		`  if name is like "x.*"`,
		`    call first from r`,
		`    call second from r`,
		`    call third from r`,
		`  endif`,
		`endon`)

	ctx := context.Background()
	if err := p.OnSingleLineProperty(ctx, "x1", "ok"); err != nil {
		t.Fatal(err)
	}
	err := p.OnSingleLineProperty(ctx, "x2", "fail")
	if err == nil || err.Error() != "second failed" {
		t.Fatalf("processor error should come back as-is: %v", err)
	}

	x, _ := p.Get("r")
	want := []string{"first:x1", "second:x1", "third:x1", "first:x2", "second:x2"}
	if got := x.(*recorder).Calls; !reflect.DeepEqual(got, want) {
		t.Fatal(got)
	}
}

func TestMultiLine(t *testing.T) {
	p := setup(t,
		`define r as new Recorder`,
		`define c as new Catcher`,
		`on multipleLinePropertyParsed with a String named name, a String[] named value`,
		`  if name is "lines"`,
		`    call collect from r`,
		`  else if name is "joined"`,
		`    call store from c`,
		`  else if name is "scalar"`,
		`    call first from r`,
		`  endif`,
		`endon`)

	ctx := context.Background()
	if err := p.OnMultiLineProperty(ctx, "lines", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(ctx, "joined", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	// Single-line events don't see multi-line rules.
	if err := p.OnSingleLineProperty(ctx, "lines", "z"); err != nil {
		t.Fatal(err)
	}

	x, _ := p.Get("r")
	if got := x.(*recorder).Lines; !reflect.DeepEqual(got, [][]string{{"a", "b"}}) {
		t.Fatal(got)
	}
	x, _ = p.Get("c")
	if got := x.(*catcher).Properties["joined"]; got != "a\nb" {
		t.Fatalf("%q", got)
	}

	// "first" has no []string variant.
	diags := p.Diagnostics()
	if len(diags) != 1 {
		t.Fatal(diags)
	}
	var up *UnresolvedProcessor
	if !errors.As(diags[0].Err, &up) {
		t.Fatalf("%T", diags[0].Err)
	}
	if diags[0].Pos.Line != 9 {
		t.Fatal(diags[0].Pos)
	}
}

func TestRedefinition(t *testing.T) {
	p := setup(t,
		`define foo as new Recorder`,
		`on singleLinePropertyParsed`,
		`  if name is "before"`,
		`    call first from foo`,
		`  endif`,
		`endon`,
		`define foo as new Other`,
		`on singleLinePropertyParsed`,
		`  if name is "after"`,
		`    call first from foo`,
		`  endif`,
		`endon`)

	ctx := context.Background()
	for _, name := range []string{"before", "after"} {
		if err := p.OnSingleLineProperty(ctx, name, "v"); err != nil {
			t.Fatal(err)
		}
	}

	x, _ := p.Get("foo")
	o, is := x.(*other)
	if !is {
		t.Fatalf("%T", x)
	}
	if !reflect.DeepEqual(o.Calls, []string{"first:after"}) {
		t.Fatal(o.Calls)
	}

	// The "before" rule kept the first instance.
	rules := p.SingleLineRules().Rules
	first := rules[1].Processors[0].Holder.(*recorder)
	if !reflect.DeepEqual(first.Calls, []string{"first:before"}) {
		t.Fatal(first.Calls)
	}
}

func TestTolerantCompilation(t *testing.T) {
	p := setup(t,
		`define good as new Recorder`,
		`define bad as new NoSuchClass`,
		`define refs as Recorder`,
		`define arr as new Recorder[]`,
		`call first from good`,
		`on somethingElse`,
		`  if name is "x"`,
		`    call first from good`,
		`  endif`,
		`endon`,
		`on singleLinePropertyParsed`,
		`  call first from good`,
		`  if name is "x"`,
		`    call first from bad`,
		`    call wrong from good`,
		`    call nothing from good`,
		`    call first from good.inner`,
		`    call first from good`,
		`  else if value is "y"`,
		`    call first from good`,
		`  else if name is other`,
		`    call first from good`,
		`  endif`,
		`endon`)

	if p.Len() != 1 || !p.Has("good") {
		t.Fatal(p.Keys())
	}

	rules := p.SingleLineRules().Rules
	if len(rules) != 2 {
		t.Fatalf("%d rules", len(rules))
	}
	if n := len(rules[1].Processors); n != 1 {
		t.Fatalf("%d processors", n)
	}

	// bad class, refs, arr, top-level call, unknown event, call in
	// on, four bad calls, two bad tests.
	diags := p.Diagnostics()
	if len(diags) != 12 {
		for _, d := range diags {
			t.Log(d)
		}
		t.Fatalf("%d diagnostics", len(diags))
	}

	ctx := context.Background()
	if err := p.OnSingleLineProperty(ctx, "x", "v"); err != nil {
		t.Fatal(err)
	}
	x, _ := p.Get("good")
	if got := x.(*recorder).Calls; !reflect.DeepEqual(got, []string{"first:x"}) {
		t.Fatal(got)
	}
}

func TestBadPatternIsFatal(t *testing.T) {
	p := New("", p3Factories())
	err := p.OnSingleLineProperty(context.Background(), DefaultDirectivesName,
		`on singleLinePropertyParsed
if name is like "foo("
endif
endon`)
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("%T %v", err, err)
	}
}

func TestFailedLoadChangesNothing(t *testing.T) {
	p := New("", p3Factories())
	ctx := context.Background()
	if err := p.OnSingleLineProperty(ctx, DefaultDirectivesName, `define c as new Catcher`); err != nil {
		t.Fatal(err)
	}
	before, _ := p.Get("c")
	rules := len(p.SingleLineRules().Rules)

	err := p.OnSingleLineProperty(ctx, DefaultDirectivesName,
		`define c as new Catcher
define d as new Catcher
on singleLinePropertyParsed
if name is "x"
  call store from c using name as name, value as value
endif
if name is like "foo("
endif
endon`)
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("%T %v", err, err)
	}

	if p.Has("d") {
		t.Fatal("d is defined")
	}
	if after, _ := p.Get("c"); after != before {
		t.Fatal("c was replaced")
	}
	if n := len(p.SingleLineRules().Rules); n != rules {
		t.Fatal(n)
	}
	if err := p.OnSingleLineProperty(ctx, "x", "1"); err != nil {
		t.Fatal(err)
	}
	if len(before.(*catcher).Properties) != 0 {
		t.Fatal(before.(*catcher).Properties)
	}
}

func TestSyntaxErrorIsFatal(t *testing.T) {
	p := New("", p3Factories())
	err := p.OnSingleLineProperty(context.Background(), DefaultDirectivesName, `define foo`)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestCustomDirectivesName(t *testing.T) {
	p := New("setup", p3Factories())
	ctx := context.Background()
	if err := p.OnSingleLineProperty(ctx, DefaultDirectivesName, `define foo as new Catcher`); err != nil {
		t.Fatal(err)
	}
	if p.Has("foo") {
		t.Fatal("the default directives name should be an ordinary property")
	}
	if err := p.OnSingleLineProperty(ctx, "setup", `define foo as new Catcher`); err != nil {
		t.Fatal(err)
	}
	if !p.Has("foo") {
		t.Fatal("foo isn't defined")
	}
}

func TestUnmatchedIsDropped(t *testing.T) {
	p := New("", p3Factories())
	if err := p.OnSingleLineProperty(context.Background(), "anything", "v"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(context.Background(), "anything", nil); err != nil {
		t.Fatal(err)
	}
}

type provider struct {
	got []interface{}
}

func (p *provider) Processor(method string, multi bool) ProcessorFunc {
	if method != "take" {
		return nil
	}
	return func(ctx context.Context, name string, value interface{}) error {
		p.got = append(p.got, value)
		return nil
	}
}

func TestProcessorProvider(t *testing.T) {
	fs := p3Factories()
	fs.Add("Provider", func() interface{} { return &provider{} })
	p := New("", fs)
	ctx := context.Background()
	err := p.OnSingleLineProperty(ctx, DefaultDirectivesName, `define p as new Provider
on singleLinePropertyParsed
  if name is "s"
    call take from p
  endif
endon
on multipleLinePropertyParsed
  if name is "m"
    call take from p
    call give from p
  endif
endon`)
	if err != nil {
		t.Fatal(err)
	}
	if err = p.OnSingleLineProperty(ctx, "s", "one"); err != nil {
		t.Fatal(err)
	}
	if err = p.OnMultiLineProperty(ctx, "m", []string{"two", "three"}); err != nil {
		t.Fatal(err)
	}
	x, _ := p.Get("p")
	want := []interface{}{"one", []string{"two", "three"}}
	if got := x.(*provider).got; !reflect.DeepEqual(got, want) {
		t.Fatal(got)
	}
	if len(p.Diagnostics()) != 1 {
		t.Fatal(p.Diagnostics())
	}
}
