package builtins

import (
	"time"

	"github.com/gorhill/cronexpr"
)

// Schedule parses cron expressions and remembers when each one fires
// next.
type Schedule struct {
	// Now returns the time used to compute the next fire time.
	// Defaults to time.Now.
	Now func() time.Time

	Exprs map[string]*cronexpr.Expression
	Next  map[string]time.Time
}

func NewSchedule() *Schedule {
	return &Schedule{
		Now:   time.Now,
		Exprs: make(map[string]*cronexpr.Expression),
		Next:  make(map[string]time.Time),
	}
}

// Store parses the value as a cron expression.  An expression that
// never fires again gets the zero time.
func (s *Schedule) Store(name, value string) error {
	x, err := cronexpr.Parse(value)
	if err != nil {
		return err
	}
	s.Exprs[name] = x
	s.Next[name] = x.Next(s.Now())
	return nil
}

// Due returns the names whose next fire time is not after the given
// time, and advances those names to their following fire time.
func (s *Schedule) Due(at time.Time) []string {
	var acc []string
	for name, next := range s.Next {
		if next.IsZero() || next.After(at) {
			continue
		}
		acc = append(acc, name)
		s.Next[name] = s.Exprs[name].Next(at)
	}
	return acc
}
