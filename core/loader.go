package core

import (
	"context"
	"fmt"

	"github.com/Comcast/p3/script"
	"github.com/Comcast/p3/util"
)

// LoadSource parses and loads directives.
func (p *P3) LoadSource(ctx context.Context, src string) error {
	ss, err := p.Parse(src)
	if err != nil {
		return fmt.Errorf("directives %q: %w", p.DirectivesName, err)
	}
	return p.Load(ctx, ss)
}

// Load compiles parsed directives.
//
// New rules go after the rules that are already loaded.  Problems
// that only affect one statement don't make Load fail.  See
// Diagnostics.
//
// A Load that fails leaves the objects and rules as they were.
func (p *P3) Load(ctx context.Context, ss []script.Statement) error {
	b := &Builder{
		Registry: p.registry.stage(),
		Single:   NewRuleTable(EventSingleLine),
		Multi:    NewRuleTable(EventMultiLine),
	}
	err := b.Build(ctx, ss)
	p.diagnostics = append(p.diagnostics, b.Diagnostics...)
	if err != nil {
		return err
	}

	p.registry.commit(b.Registry)
	p.single.Add(b.Single.Rules...)
	p.multi.Add(b.Multi.Rules...)

	util.Logf("p3 loaded %d objects, %d single-line rules, %d multi-line rules, %d diagnostics",
		p.registry.Len(), len(p.single.Rules), len(p.multi.Rules), len(b.Diagnostics))
	return nil
}
