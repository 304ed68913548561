// Package goja provides a property processor that runs ECMAScript.
//
// Directives give the processor its code through a property:
//
//	define js as new p3.Script
//	on singleLinePropertyParsed with a String named name, a String named value
//	  if name is "js.code"
//	    call setCode from js using name as name, value as value
//	  else if name is like "js\\..*"
//	    call process from js using name as name, value as value
//	  endif
//	endon
//
// The code sees the property at _.name and _.value.  Whatever the
// code returns is recorded as the result for that name.
package goja

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/util"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Process if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)

	// NoCode is returned by Process before any code has been set.
	NoCode = errors.New("no code")
)

// ClassName is the name scripts use to define a Processor.
const ClassName = "p3.Script"

func init() {
	core.DefaultFactories.Add(ClassName, func() interface{} {
		return NewProcessor()
	})
}

// Processor runs ECMAScript (via Goja) for each property it
// processes.
//
// See https://github.com/dop251/goja.
type Processor struct {

	// Testing is used to expose or hide some runtime
	// capabilities.
	Testing bool

	// LibraryProvider resolves the names given to "requires".  If
	// nil, DefaultLibraryProvider is used.
	LibraryProvider Library

	// Results holds what the code returned for each name.
	Results map[string]interface{}

	// Emitted holds what the code passed to _.out().
	Emitted []interface{}

	code     string
	requires []string
	program  *goja.Program
}

// NewProcessor makes a new Processor.
func NewProcessor() *Processor {
	return &Processor{
		Results: make(map[string]interface{}),
	}
}

// ProvideLibrary resolves a "requires" name with LibraryProvider or
// DefaultLibraryProvider.
func (p *Processor) ProvideLibrary(ctx context.Context, name string) (string, error) {
	if p.LibraryProvider != nil {
		return p.LibraryProvider(ctx, p, name)
	}
	return DefaultLibraryProvider(ctx, p, name)
}

func wrapSrc(src string) string {
	return "(function() {\n" + src + "\n}());\n"
}

// SetRequires adds a library that the code needs.  Libraries are
// prepended to the code in the order they were given.
func (p *Processor) SetRequires(name, value string) {
	p.requires = append(p.requires, value)
	p.program = nil
}

func (p *Processor) SetRequiresLines(name string, values []string) {
	p.requires = append(p.requires, values...)
	p.program = nil
}

// SetCode compiles the value as the body of a function.
func (p *Processor) SetCode(ctx context.Context, name, value string) error {
	p.code = value
	p.program = nil
	return p.compile(ctx)
}

func (p *Processor) SetCodeLines(ctx context.Context, name string, values []string) error {
	return p.SetCode(ctx, name, core.JoinLines(values))
}

// compile resolves the libraries and compiles them followed by the
// code, which becomes the body of a function.
//
// Resolving a library can block.
func (p *Processor) compile(ctx context.Context) error {
	var src strings.Builder
	for _, lib := range p.requires {
		libSrc, err := p.ProvideLibrary(ctx, lib)
		if err != nil {
			return fmt.Errorf("requires %s: %w", lib, err)
		}
		src.WriteString(libSrc)
		src.WriteString("\n")
	}
	src.WriteString(wrapSrc(p.code))

	program, err := goja.Compile("", src.String(), true)
	if err != nil {
		return fmt.Errorf("%s: %s", err, src.String())
	}
	p.program = program
	return nil
}

// Process runs the code with _.name and _.value bound.
func (p *Processor) Process(ctx context.Context, name, value string) error {
	return p.exec(ctx, name, value)
}

// ProcessLines runs the code with _.value bound to an array of
// lines.
func (p *Processor) ProcessLines(ctx context.Context, name string, values []string) error {
	lines := make([]interface{}, len(values))
	for i, s := range values {
		lines[i] = s
	}
	return p.exec(ctx, name, lines)
}

// exec runs the code for one property and records what it returns.
func (p *Processor) exec(ctx context.Context, name string, value interface{}) error {
	if p.program == nil {
		if p.code == "" {
			return NoCode
		}
		if err := p.compile(ctx); err != nil {
			return err
		}
	}

	o := goja.New()
	if err := p.bind(o, name, value); err != nil {
		return err
	}

	// The interrupt only lands if the program is still running
	// when ctx is done.
	done := make(chan bool)
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			o.Interrupt(InterruptedMessage)
		case <-done:
		}
	}()

	v, err := o.RunProgram(p.program)
	if err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) {
			return Interrupted
		}
		return err
	}

	x := v.Export()
	util.Logf("p3.Script %s returned %#v", name, x)
	if x == nil {
		return nil
	}
	if x, err = canonicalize(x); err != nil {
		return err
	}
	p.Results[name] = x
	return nil
}
