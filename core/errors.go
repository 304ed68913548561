package core

// These errors are user errors (bad scripts, bad holders), not
// internal errors.

import (
	"errors"
	"fmt"

	"github.com/Comcast/p3/script"
)

// PatternError occurs when an "is like" literal isn't a valid
// regular expression.  It's fatal to the whole script.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return `bad pattern "` + e.Pattern + `": ` + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// ClassNotFound occurs when a "define" names a class that isn't in
// the Factories.
type ClassNotFound struct {
	ClassName string
}

func (e *ClassNotFound) Error() string {
	return `class "` + e.ClassName + `" not found`
}

// InstantiationFailure occurs when a Factory returns an error, returns
// nil, or panics.
type InstantiationFailure struct {
	ClassName string
	Err       error
}

func (e *InstantiationFailure) Error() string {
	return `can't instantiate "` + e.ClassName + `": ` + e.Err.Error()
}

func (e *InstantiationFailure) Unwrap() error {
	return e.Err
}

// UnresolvedProcessor occurs when a "call" can't be bound to a
// processor.  The call is dropped.
type UnresolvedProcessor struct {
	Accessor []string
	Reason   string
}

func (e *UnresolvedProcessor) Error() string {
	return fmt.Sprintf("unresolved processor %v: %s", e.Accessor, e.Reason)
}

// UnsupportedStatement reports a statement that compilation
// skipped.
type UnsupportedStatement struct {
	Statement script.Statement
	Reason    string
}

func (e *UnsupportedStatement) Error() string {
	return fmt.Sprintf("ignored %T: %s", e.Statement, e.Reason)
}

// NilInstance is the InstantiationFailure cause when a Factory
// returns nil.
var NilInstance = errors.New("factory returned nil")
