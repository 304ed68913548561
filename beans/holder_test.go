package beans

import (
	"context"
	"net/url"
	"testing"

	"github.com/Comcast/p3/core"
)

type settings struct {
	Mapper
	root *root
}

func newSettings() interface{} {
	r := newRoot()
	return &settings{
		Mapper: Mapper{Root: r},
		root:   r,
	}
}

func TestMapperAsHolder(t *testing.T) {
	p := core.New("", core.NewFactories().Add("Settings", newSettings))
	ctx := context.Background()

	directives := `define settings as new Settings
on singleLinePropertyParsed with a String named name, a String named value
  if name is like "(a\\.)?[a-z]+"
    call process from settings using name as name, value as value
  endif
endon
on multipleLinePropertyParsed with a String named name, a String[] named value
  if name is like ".*"
    call process from settings using name as name, value as value
  endif
endon
`
	if err := p.OnSingleLineProperty(ctx, core.DefaultDirectivesName, directives); err != nil {
		t.Fatal(err)
	}
	if ds := p.Diagnostics(); len(ds) != 0 {
		t.Fatal(ds)
	}

	if err := p.OnSingleLineProperty(ctx, "a.b", "x"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnSingleLineProperty(ctx, "x", "7"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(ctx, "a.lines", []string{"1", "2"}); err != nil {
		t.Fatal(err)
	}
	// Not matched, so ignored.
	if err := p.OnSingleLineProperty(ctx, "a.b.c", "y"); err != nil {
		t.Fatal(err)
	}

	x, _ := p.Get("settings")
	r := x.(*settings).root
	if r.a.B != "x" || r.X != 7 || len(r.a.Lines) != 2 {
		t.Fatal(r, r.a)
	}
}

type rootMapper struct {
	Mapper
	root    *root
	special *url.URL
}

func (m *rootMapper) ProcessSpecial(name, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	m.special = u
	return nil
}

func (m *rootMapper) ProcessSpecialLines(name string, values []string) error {
	if len(values) == 0 {
		m.special = nil
		return nil
	}
	return m.ProcessSpecial(name, values[0])
}

func TestMultipleAlternatives(t *testing.T) {
	fs := core.NewFactories().Add("RootMapper", func() interface{} {
		r := newRoot()
		return &rootMapper{Mapper: Mapper{Root: r}, root: r}
	})
	p := core.New("", fs)
	ctx := context.Background()

	directives := []string{
		`define foo as new RootMapper`,
		``,
		`on singleLinePropertyParsed with a String named name, a String named value`,
		`    if name is like "special\\.url"`,
		`        call processSpecial from foo using name as name, value as value`,
		`    else`,
		`        call process from foo using name as name, value as value`,
		`    endif`,
		`endon`,
		``,
		`on multipleLinePropertyParsed with a String named name, a String[] named value`,
		`    if name is like "special\\.url"`,
		`        call processSpecial from foo using name as name, value as value`,
		`    else`,
		`        call process from foo using name as name, value as value`,
		`    endif`,
		`endon`,
	}
	if err := p.OnMultiLineProperty(ctx, core.DefaultDirectivesName, directives); err != nil {
		t.Fatal(err)
	}

	if err := p.OnSingleLineProperty(ctx, "label", "foo"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnSingleLineProperty(ctx, "special.url", "http://special.com"); err != nil {
		t.Fatal(err)
	}

	x, _ := p.Get("foo")
	m := x.(*rootMapper)
	if m.root.Label != "s:foo" {
		t.Fatal(m.root.Label)
	}
	if m.special == nil || m.special.String() != "http://special.com" {
		t.Fatal(m.special)
	}

	value := []string{"http://foo.com", "b"}
	if err := p.OnMultiLineProperty(ctx, "a.lines", value); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(ctx, "special.url", value); err != nil {
		t.Fatal(err)
	}
	if len(m.root.a.Lines) != 2 || m.root.a.Lines[0] != value[0] || m.root.a.Lines[1] != value[1] {
		t.Fatal(m.root.a.Lines)
	}
	if m.special.String() != "http://foo.com" {
		t.Fatal(m.special)
	}

	if err := p.OnMultiLineProperty(ctx, "special.url", []string{}); err != nil {
		t.Fatal(err)
	}
	if m.special != nil {
		t.Fatal(m.special)
	}
}
