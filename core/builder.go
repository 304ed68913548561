package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Comcast/p3/script"
	"github.com/Comcast/p3/util"
)

// Diagnostic is a problem that compilation survived.  The statement
// it refers to was skipped or dropped.
type Diagnostic struct {
	Pos script.Pos `json:"pos" yaml:"pos"`
	Err error      `json:"-" yaml:"-"`
}

func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Err.Error()
}

// Builder turns directive statements into Registry entries and
// Rules.
//
// A Builder collects Diagnostics for definitions and calls that
// failed and for statements it doesn't understand.  Only a bad
// pattern stops a build.
type Builder struct {
	Registry *Registry
	Single   *RuleTable
	Multi    *RuleTable

	Diagnostics []Diagnostic
}

func (b *Builder) diag(at script.Pos, err error) {
	util.Logf("directives %s: %s", at, err)
	b.Diagnostics = append(b.Diagnostics, Diagnostic{Pos: at, Err: err})
}

// Build processes the statements in order.
//
// Definitions take effect immediately, so a "call" binds to the
// holder that is defined at that point of the script.
func (b *Builder) Build(ctx context.Context, ss []script.Statement) error {
	for _, s := range ss {
		switch vv := s.(type) {
		case *script.DefineAs:
			b.define(vv)
		case *script.On:
			if err := b.on(ctx, vv); err != nil {
				return err
			}
		default:
			b.diag(s.Position(), &UnsupportedStatement{
				Statement: s,
				Reason:    "not allowed at top level",
			})
		}
	}
	return nil
}

func (b *Builder) define(s *script.DefineAs) {
	if !s.New || s.Array {
		b.diag(s.Pos, &UnsupportedStatement{
			Statement: s,
			Reason:    "only \"as new\" of a non-array class defines an object",
		})
		return
	}
	if err := b.Registry.Define(s.Identifier, s.ClassName); err != nil {
		b.diag(s.Pos, err)
	}
}

func (b *Builder) on(ctx context.Context, s *script.On) error {
	var (
		target *RuleTable
		multi  bool
	)
	switch s.Event {
	case EventSingleLine:
		target = b.Single
	case EventMultiLine:
		target = b.Multi
		multi = true
	default:
		b.diag(s.Pos, &UnsupportedStatement{
			Statement: s,
			Reason:    `unknown event "` + s.Event + `"`,
		})
		return nil
	}

	for _, x := range s.Statements {
		i, is := x.(*script.If)
		if !is {
			b.diag(x.Position(), &UnsupportedStatement{
				Statement: x,
				Reason:    "only \"if\" is allowed in \"on\"",
			})
			continue
		}
		if err := b.ruleset(ctx, i, target, multi); err != nil {
			return err
		}
	}
	return nil
}

// ruleset adds a Rule for each usable alternative.  An "else" is
// added last and matches any name.
func (b *Builder) ruleset(ctx context.Context, s *script.If, target *RuleTable, multi bool) error {
	var otherwise *Rule
	for _, alt := range s.Alternatives {
		if alt.Test == nil {
			otherwise = &Rule{
				Matcher:    Otherwise,
				Processors: b.processors(alt.Statements, multi),
				Pos:        alt.Pos,
			}
			continue
		}

		m, err := b.matcher(alt)
		if err != nil {
			var pe *PatternError
			if errors.As(err, &pe) {
				return fmt.Errorf("directives %s: %w", alt.Pos, err)
			}
			b.diag(alt.Pos, err)
			continue
		}

		target.Add(&Rule{
			Matcher:    m,
			Processors: b.processors(alt.Statements, multi),
			Pos:        alt.Pos,
		})
	}
	if otherwise != nil {
		target.Add(otherwise)
	}
	return nil
}

func (b *Builder) matcher(alt *script.Alternative) (NameMatcher, error) {
	t := alt.Test
	if ref, is := t.Left.(*script.Ref); !is || ref.Name != "name" {
		return nil, &UnsupportedStatement{
			Statement: &script.If{Pos: alt.Pos},
			Reason:    "a test must be on \"name\"",
		}
	}
	lit, is := t.Right.(*script.Literal)
	if !is {
		return nil, &UnsupportedStatement{
			Statement: &script.If{Pos: alt.Pos},
			Reason:    "a test must compare with a string",
		}
	}
	switch t.Operator {
	case script.OpIs:
		return Exact(lit.Value), nil
	case script.OpIsLike:
		return Like(lit.Value)
	default:
		return nil, &UnsupportedStatement{
			Statement: &script.If{Pos: alt.Pos},
			Reason:    "unknown operator " + string(t.Operator),
		}
	}
}

func (b *Builder) processors(ss []script.Statement, multi bool) []*Processor {
	acc := make([]*Processor, 0, len(ss))
	for _, s := range ss {
		call, is := s.(*script.Call)
		if !is {
			b.diag(s.Position(), &UnsupportedStatement{
				Statement: s,
				Reason:    "only \"call\" is allowed in an alternative",
			})
			continue
		}
		p, err := bindCall(b.Registry, call, multi)
		if err != nil {
			b.diag(call.Pos, err)
			continue
		}
		acc = append(acc, p)
	}
	return acc
}
