package tools

import (
	"context"
	"testing"

	"github.com/Comcast/p3/core"
)

type bin struct{}

func (b *bin) Store(name, value string)                {}
func (b *bin) StoreLines(name string, values []string) {}

var directives = []string{
	`define foo as new Bin`,
	`define unused as new Bin`,
	`on singleLinePropertyParsed with a String named name, a String named value`,
	`  if name is like "a\\..*"`,
	`    call store from foo using name as name, value as value`,
	`  else if name is "a.b"`,
	`    call store from foo using name as name, value as value`,
	`  else if name is "quiet"`,
	`  else`,
	`    call store from foo using name as name, value as value`,
	`  endif`,
	`endon`,
	`on multipleLinePropertyParsed with a String named name, a String[] named value`,
	`  if name is "lines"`,
	`    call store from foo using name as name, value as value`,
	`    call nope from foo using name as name, value as value`,
	`  endif`,
	`endon`,
}

func fixture(t *testing.T) *core.P3 {
	p := core.New("", core.NewFactories().Add("Bin", func() interface{} { return &bin{} }))
	if err := p.OnMultiLineProperty(context.Background(), core.DefaultDirectivesName, directives); err != nil {
		t.Fatal(err)
	}
	return p
}
