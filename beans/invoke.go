package beans

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Overloads can be implemented by a target with more than one
// mutator for a name.  Go has no method overloading, so this method
// is the list of candidates, in the order they should be tried.
//
//	func (r *Root) Mutators(name string) []interface{} {
//		switch name {
//		case "SetPort":
//			return []interface{}{r.SetPortNumber, r.SetPortName}
//		}
//		return nil
//	}
//
// A target that returns no candidates for a name falls back to its
// method with that name.
type Overloads interface {
	Mutators(name string) []interface{}
}

// NoCompatibleSetter occurs when no mutator with the name accepts
// the value.
type NoCompatibleSetter struct {
	TypeName string
	Mutator  string
	Multi    bool
}

func (e *NoCompatibleSetter) Error() string {
	kind := "a string"
	if e.Multi {
		kind = "a []string"
	}
	return "no " + e.Mutator + " accepting " + kind + " on " + e.TypeName
}

// ConversionError occurs when a value can't be parsed for the chosen
// mutator.  The target is unchanged.
type ConversionError struct {
	Mutator  string
	Value    string
	TypeName string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: can't convert %q to %s: %s", e.Mutator, e.Value, e.TypeName, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

var (
	errorType           = reflect.TypeOf((*error)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func candidates(target interface{}, mutator string) []reflect.Value {
	if o, is := target.(Overloads); is {
		fs := o.Mutators(mutator)
		if 0 < len(fs) {
			acc := make([]reflect.Value, 0, len(fs))
			for _, f := range fs {
				if v := reflect.ValueOf(f); v.Kind() == reflect.Func {
					acc = append(acc, v)
				}
			}
			return acc
		}
	}
	m := reflect.ValueOf(target).MethodByName(mutator)
	if !m.IsValid() {
		return nil
	}
	return []reflect.Value{m}
}

// unary reports whether f takes one argument and returns nothing or
// an error.
func unary(f reflect.Value) bool {
	t := f.Type()
	if t.NumIn() != 1 {
		return false
	}
	switch t.NumOut() {
	case 0:
		return true
	case 1:
		return t.Out(0) == errorType
	}
	return false
}

func call(f reflect.Value, arg reflect.Value) error {
	out := f.Call([]reflect.Value{arg})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// Invoke calls the mutator on the target with the value, which must
// be a string or a []string.
//
// A []string goes to the first candidate that takes a []string.  A
// string goes to the first candidate that takes a string, an int,
// int32, int64, float32, float64, bool, or something that implements
// encoding.TextUnmarshaler; the string is parsed accordingly.
func Invoke(target interface{}, mutator string, value interface{}) error {
	if target == nil {
		return &NoCompatibleSetter{TypeName: "nil", Mutator: mutator}
	}
	typeName := reflect.TypeOf(target).String()

	switch vv := value.(type) {
	case []string:
		for _, f := range candidates(target, mutator) {
			if !unary(f) {
				continue
			}
			in := f.Type().In(0)
			if in.Kind() == reflect.Slice && in.Elem().Kind() == reflect.String {
				return call(f, stringSlice(vv, in))
			}
		}
		return &NoCompatibleSetter{TypeName: typeName, Mutator: mutator, Multi: true}

	case string:
		for _, f := range candidates(target, mutator) {
			if !unary(f) {
				continue
			}
			in := f.Type().In(0)
			arg, ok, err := coerce(vv, in)
			if !ok {
				continue
			}
			if err != nil {
				return &ConversionError{
					Mutator:  mutator,
					Value:    vv,
					TypeName: in.String(),
					Err:      err,
				}
			}
			return call(f, arg)
		}
		return &NoCompatibleSetter{TypeName: typeName, Mutator: mutator}

	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
}

// stringSlice copies ss into a new slice of type t, whose elements
// have kind String.  The element type can be a named string type.
func stringSlice(ss []string, t reflect.Type) reflect.Value {
	v := reflect.MakeSlice(t, len(ss), len(ss))
	for i, s := range ss {
		v.Index(i).SetString(s)
	}
	return v
}

// coerce parses s as a t.  Returns false if t isn't a supported type.
func coerce(s string, t reflect.Type) (reflect.Value, bool, error) {
	if t.Kind() == reflect.Ptr && t.Implements(textUnmarshalerType) {
		v := reflect.New(t.Elem())
		err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		return v, true, err
	}
	if reflect.PtrTo(t).Implements(textUnmarshalerType) {
		v := reflect.New(t)
		err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		return v.Elem(), true, err
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, true, err
		}
		v.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, true, err
		}
		v.SetFloat(x)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, true, err
		}
		v.SetBool(b)
	default:
		return v, false, nil
	}
	return v, true, nil
}
