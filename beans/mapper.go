// Package beans maps dotted property names onto an object graph.
//
// A property "server.tls.port" with value "8443" becomes
// root.GetServer().GetTls().SetPort(8443): all but the last segment
// name accessors, and the last segment names a mutator.  String
// values are parsed to fit the mutator's parameter type.
//
// Embed a Mapper in a holder to get the two processors "process" and
// "processLines":
//
//	type Settings struct {
//		beans.Mapper
//		root Root
//	}
//
//	func NewSettings() *Settings {
//		s := &Settings{}
//		s.Root = &s.root
//		return s
//	}
package beans

import (
	"github.com/Comcast/p3/util"
)

// Mapper sets properties on Root.
type Mapper struct {
	Root interface{}
}

// Set resolves the name against Root and invokes the mutator with
// the value.
func (m *Mapper) Set(name string, value interface{}) error {
	target, err := Resolve(m.Root, name)
	if err != nil {
		return err
	}
	util.Logf("beans.Mapper %s %s", name, target.Mutator)
	return Invoke(target.Object, target.Mutator, value)
}

// Process handles a single-line property.
func (m *Mapper) Process(name, value string) error {
	return m.Set(name, value)
}

// ProcessLines handles a multi-line property.
func (m *Mapper) ProcessLines(name string, value []string) error {
	return m.Set(name, value)
}
