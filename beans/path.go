package beans

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Comcast/p3/core"
)

var (
	// GetterPrefix is prepended to a capitalized path segment to
	// name its accessor.  If there's no such method, the
	// capitalized segment itself is tried, which is the usual Go
	// getter name.
	GetterPrefix = "Get"

	// SetterPrefix is prepended to the capitalized last path
	// segment to name the mutator.
	SetterPrefix = "Set"

	// MalformedPath occurs for an empty path or a path with an
	// empty segment (like "a..b").
	MalformedPath = errors.New("malformed path")
)

// NoSuchAccessor occurs when an intermediate path segment has no
// accessor on the current object.
type NoSuchAccessor struct {
	Path     string
	Segment  string
	TypeName string
}

func (e *NoSuchAccessor) Error() string {
	return `no accessor for "` + e.Segment + `" of "` + e.Path + `" on ` + e.TypeName
}

// NullTraversal occurs when an accessor returns nil and the path
// continues.
type NullTraversal struct {
	Path    string
	Segment string
}

func (e *NullTraversal) Error() string {
	return `"` + e.Segment + `" of "` + e.Path + `" is nil`
}

// SetterTarget is the object to change and the name of the mutator
// to call on it.
type SetterTarget struct {
	Object  interface{}
	Mutator string
}

func getterNames(segment string) []string {
	c := core.Capitalize(segment)
	return []string{GetterPrefix + c, c}
}

// Resolve walks the path from root.  For "a.b.c", the result is
// (root.GetA().GetB(), "SetC").
//
// An accessor takes no arguments and returns either one value or a
// value and an error.
func Resolve(root interface{}, path string) (*SetterTarget, error) {
	if path == "" {
		return nil, MalformedPath
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, MalformedPath
		}
	}

	current := root
	last := len(segments) - 1
	for _, segment := range segments[:last] {
		if isNil(reflect.ValueOf(current)) {
			return nil, &NullTraversal{Path: path, Segment: segment}
		}
		next, err := access(current, segment)
		if err != nil {
			if nsa, is := err.(*NoSuchAccessor); is {
				nsa.Path = path
			}
			return nil, err
		}
		if isNil(reflect.ValueOf(next)) {
			return nil, &NullTraversal{Path: path, Segment: segment}
		}
		current = next
	}

	return &SetterTarget{
		Object:  current,
		Mutator: SetterPrefix + core.Capitalize(segments[last]),
	}, nil
}

func access(x interface{}, segment string) (interface{}, error) {
	v := reflect.ValueOf(x)
	for _, name := range getterNames(segment) {
		m := v.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		t := m.Type()
		if t.NumIn() != 0 {
			continue
		}
		switch t.NumOut() {
		case 1:
			return m.Call(nil)[0].Interface(), nil
		case 2:
			if t.Out(1) != errorType {
				continue
			}
			out := m.Call(nil)
			if !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}
			return out[0].Interface(), nil
		}
	}
	return nil, &NoSuchAccessor{
		Segment:  segment,
		TypeName: v.Type().String(),
	}
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
