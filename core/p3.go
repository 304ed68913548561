package core

import (
	"context"

	"github.com/Comcast/p3/script"
	"github.com/Comcast/p3/util"
)

// DefaultDirectivesName is the property that carries the directives
// unless New is given another name.
const DefaultDirectivesName = "__DIRECTIVES__"

// DirectivesHolderId is the holder name shown for the processor that
// compiles directives.
const DirectivesHolderId = "p3"

// P3 (the Programmable Properties Processor) dispatches property
// events to processors according to the property name.
//
// The processors and the rules that select them come from directives,
// which arrive as the value of a reserved property
// (DefaultDirectivesName by default).  That property is dispatched
// like any other: the first rule of each table matches it and
// compiles its value.
//
// The objects defined by the directives are available through the
// Objects methods (Get, Has, Len, Keys, Range).
//
// A P3 isn't safe for concurrent use.  The directives property must
// be processed before the properties it is supposed to route.
type P3 struct {
	// DirectivesName is the property that carries the directives.
	DirectivesName string

	// Parse turns directive source into statements.  Defaults to
	// script.Parse.
	Parse func(src string) ([]script.Statement, error)

	registry    *Registry
	single      *RuleTable
	multi       *RuleTable
	diagnostics []Diagnostic
}

// New makes a P3 that looks for directives in the named property.
// An empty name means DefaultDirectivesName.  Nil factories means
// DefaultFactories.
func New(directivesName string, factories Factories) *P3 {
	if directivesName == "" {
		directivesName = DefaultDirectivesName
	}
	p := &P3{
		DirectivesName: directivesName,
		Parse:          script.Parse,
		registry:       NewRegistry(factories),
		single:         NewRuleTable(EventSingleLine),
		multi:          NewRuleTable(EventMultiLine),
	}

	directives := &Processor{
		HolderId: DirectivesHolderId,
		Method:   "executeProgram",
		Holder:   p,
		F:        p.executeProgram,
	}
	p.single.Add(&Rule{
		Matcher:    Exact(directivesName),
		Processors: []*Processor{directives},
	})
	p.multi.Add(&Rule{
		Matcher:    Exact(directivesName),
		Processors: []*Processor{directives},
	})

	return p
}

// OnSingleLineProperty dispatches a single-line property.
func (p *P3) OnSingleLineProperty(ctx context.Context, name, value string) error {
	r, err := p.single.Dispatch(ctx, name, value)
	if r == nil {
		util.Logf("p3 dropped single-line %q", name)
	}
	return err
}

// OnMultiLineProperty dispatches a multi-line property.
func (p *P3) OnMultiLineProperty(ctx context.Context, name string, values []string) error {
	r, err := p.multi.Dispatch(ctx, name, values)
	if r == nil {
		util.Logf("p3 dropped multi-line %q", name)
	}
	return err
}

func (p *P3) executeProgram(ctx context.Context, name string, value interface{}) error {
	return p.LoadSource(ctx, AsString(value))
}

// Diagnostics returns the problems found by every Load so far.
func (p *P3) Diagnostics() []Diagnostic {
	acc := make([]Diagnostic, len(p.diagnostics))
	copy(acc, p.diagnostics)
	return acc
}

// SingleLineRules returns the rule table for single-line properties.
// The first rule is the directives rule.
//
// The table shouldn't be modified.
func (p *P3) SingleLineRules() *RuleTable {
	return p.single
}

// MultiLineRules returns the rule table for multi-line properties.
//
// The table shouldn't be modified.
func (p *P3) MultiLineRules() *RuleTable {
	return p.multi
}

// Objects returns the read-only view of the defined objects.
func (p *P3) Objects() Objects {
	return p.registry
}

func (p *P3) Get(id string) (interface{}, bool) {
	return p.registry.Get(id)
}

func (p *P3) Has(id string) bool {
	return p.registry.Has(id)
}

func (p *P3) Len() int {
	return p.registry.Len()
}

func (p *P3) Keys() []string {
	return p.registry.Keys()
}

func (p *P3) Range(f func(id string, x interface{}) bool) {
	p.registry.Range(f)
}
