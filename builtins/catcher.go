package builtins

import (
	"github.com/Comcast/p3/core"
)

// Catcher stores the values it's given.  Multi-line values are joined
// with newlines.
type Catcher struct {
	Properties map[string]string
}

func NewCatcher() *Catcher {
	return &Catcher{
		Properties: make(map[string]string),
	}
}

func (c *Catcher) Store(name, value string) {
	c.Properties[name] = value
}

func (c *Catcher) StoreLines(name string, values []string) {
	c.Store(name, core.JoinLines(values))
}
