package core

import (
	"context"
	"strings"

	"github.com/Comcast/p3/script"
)

const (
	// EventSingleLine is the "on" event name for single-line
	// properties.
	EventSingleLine = "singleLinePropertyParsed"

	// EventMultiLine is the "on" event name for multi-line
	// properties.
	EventMultiLine = "multipleLinePropertyParsed"
)

// ProcessorFunc handles one property.  The value is a string for a
// single-line property and a []string for a multi-line property.
type ProcessorFunc func(ctx context.Context, name string, value interface{}) error

// Processor is a holder method bound at compile time.
type Processor struct {
	// HolderId is the identifier the holder was defined with.
	HolderId string `json:"holder" yaml:"holder"`

	// Method is the method name as written in the script.
	Method string `json:"method" yaml:"method"`

	// Holder is the object the method was resolved on.  Later
	// redefinitions of HolderId don't change it.
	Holder interface{} `json:"-" yaml:"-"`

	F ProcessorFunc `json:"-" yaml:"-"`
}

func (p *Processor) String() string {
	return p.HolderId + "." + p.Method
}

// Process calls the bound function.
func (p *Processor) Process(ctx context.Context, name string, value interface{}) error {
	return p.F(ctx, name, value)
}

// Rule pairs a NameMatcher with the processors to run when it
// matches.
type Rule struct {
	Matcher    NameMatcher  `json:"-" yaml:"-"`
	Processors []*Processor `json:"processors" yaml:"processors"`

	// Pos is where the rule's alternative appears in its script.
	Pos script.Pos `json:"pos" yaml:"pos"`
}

func (r *Rule) String() string {
	ps := make([]string, len(r.Processors))
	for i, p := range r.Processors {
		ps[i] = p.String()
	}
	return r.Matcher.String() + " -> [" + strings.Join(ps, ", ") + "]"
}

// RuleTable is an ordered list of Rules for one event.
//
// At most one Rule fires for a property: the first one that matches.
type RuleTable struct {
	Event string  `json:"event" yaml:"event"`
	Rules []*Rule `json:"rules" yaml:"rules"`
}

func NewRuleTable(event string) *RuleTable {
	return &RuleTable{
		Event: event,
		Rules: make([]*Rule, 0, 8),
	}
}

// Add appends the rules, which will be considered after all the
// rules already in the table.
func (t *RuleTable) Add(rs ...*Rule) {
	t.Rules = append(t.Rules, rs...)
}

// Find returns the first rule that matches the name.
func (t *RuleTable) Find(name string) *Rule {
	for _, r := range t.Rules {
		if r.Matcher.Matches(name) {
			return r
		}
	}
	return nil
}

// Dispatch runs the processors of the first matching rule in order.
//
// The first processor error stops the dispatch and is returned
// as-is.  The processors that already ran keep their effects.
//
// Returns the rule that fired (if any).
func (t *RuleTable) Dispatch(ctx context.Context, name string, value interface{}) (*Rule, error) {
	r := t.Find(name)
	if r == nil {
		return nil, nil
	}
	for _, p := range r.Processors {
		if err := p.Process(ctx, name, value); err != nil {
			return r, err
		}
	}
	return r, nil
}
