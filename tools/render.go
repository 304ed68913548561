package tools

import (
	"io"
	"reflect"

	"github.com/Comcast/p3/core"

	"gopkg.in/yaml.v2"
)

// RuleDoc is a presentation of a core.Rule.
type RuleDoc struct {
	Match      string   `json:"match" yaml:"match"`
	Processors []string `json:"processors" yaml:"processors,flow"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
}

// TableDoc is a presentation of a core.RuleTable.
type TableDoc struct {
	Event string     `json:"event" yaml:"event"`
	Rules []*RuleDoc `json:"rules" yaml:"rules"`
}

// Doc is a presentation of a P3's state.
type Doc struct {
	Directives  string            `json:"directives" yaml:"directives"`
	Objects     map[string]string `json:"objects,omitempty" yaml:"objects,omitempty"`
	Tables      []*TableDoc       `json:"tables" yaml:"tables"`
	Diagnostics []string          `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func tableDoc(t *core.RuleTable) *TableDoc {
	td := &TableDoc{
		Event: t.Event,
		Rules: make([]*RuleDoc, 0, len(t.Rules)),
	}
	for _, r := range t.Rules {
		rd := &RuleDoc{
			Match:      r.Matcher.String(),
			Processors: make([]string, 0, len(r.Processors)),
			Line:       r.Pos.Line,
		}
		for _, p := range r.Processors {
			rd.Processors = append(rd.Processors, p.String())
		}
		td.Rules = append(td.Rules, rd)
	}
	return td
}

// Describe makes a Doc for the P3.
func Describe(p *core.P3) *Doc {
	d := &Doc{
		Directives: p.DirectivesName,
		Objects:    make(map[string]string, p.Len()),
		Tables: []*TableDoc{
			tableDoc(p.SingleLineRules()),
			tableDoc(p.MultiLineRules()),
		},
	}
	p.Range(func(id string, x interface{}) bool {
		d.Objects[id] = reflect.TypeOf(x).String()
		return true
	})
	for _, diag := range p.Diagnostics() {
		d.Diagnostics = append(d.Diagnostics, diag.String())
	}
	return d
}

// RenderYAML writes the P3's Doc as YAML.
func RenderYAML(p *core.P3, w io.Writer) error {
	bs, err := yaml.Marshal(Describe(p))
	if err != nil {
		return err
	}
	_, err = w.Write(bs)
	return err
}
