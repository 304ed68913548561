package core

import (
	"context"
	"reflect"

	"github.com/Comcast/p3/script"
)

// ProcessorProvider can be implemented by a holder that wants to hand
// out its processors directly instead of having them found by method
// name.
//
// Processor returns nil if the holder has no such processor.
type ProcessorProvider interface {
	Processor(method string, multi bool) ProcessorFunc
}

// LinesSuffix is appended to a method name to find the multi-line
// variant of a single-line processor.  A holder with
//
//	func (h *Holder) Process(name, value string)
//	func (h *Holder) ProcessLines(name string, value []string)
//
// supports "call process from h" in both kinds of "on" blocks.
var LinesSuffix = "Lines"

var (
	contextType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	stringType      = reflect.TypeOf("")
	stringSliceType = reflect.TypeOf([]string(nil))
)

// Bind resolves the holder's method into a Processor.
func Bind(holderId string, holder interface{}, method string, multi bool) (*Processor, error) {
	accessor := []string{holderId, method}

	if pp, is := holder.(ProcessorProvider); is {
		if f := pp.Processor(method, multi); f != nil {
			return &Processor{
				HolderId: holderId,
				Method:   method,
				Holder:   holder,
				F:        f,
			}, nil
		}
	}

	names := []string{Capitalize(method)}
	if multi {
		names = append(names, Capitalize(method)+LinesSuffix)
	}

	v := reflect.ValueOf(holder)
	for _, name := range names {
		m := v.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		if f := adapt(m, multi); f != nil {
			return &Processor{
				HolderId: holderId,
				Method:   method,
				Holder:   holder,
				F:        f,
			}, nil
		}
	}

	valueType := "string"
	if multi {
		valueType = "[]string"
	}
	return nil, &UnresolvedProcessor{
		Accessor: accessor,
		Reason:   "no method " + names[0] + "(string, " + valueType + ") on " + reflect.TypeOf(holder).String(),
	}
}

// adapt wraps a method with one of these signatures:
//
//	func(name string, value V)
//	func(name string, value V) error
//	func(ctx context.Context, name string, value V)
//	func(ctx context.Context, name string, value V) error
//
// where V is string or []string according to multi.  Returns nil if
// the method has some other signature.
func adapt(m reflect.Value, multi bool) ProcessorFunc {
	t := m.Type()

	want := stringType
	if multi {
		want = stringSliceType
	}

	withCtx := false
	switch t.NumIn() {
	case 2:
	case 3:
		if t.In(0) != contextType {
			return nil
		}
		withCtx = true
	default:
		return nil
	}
	offset := t.NumIn() - 2
	if t.In(offset) != stringType || t.In(offset+1) != want {
		return nil
	}

	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			return nil
		}
	default:
		return nil
	}

	return func(ctx context.Context, name string, value interface{}) error {
		args := make([]reflect.Value, 0, 3)
		if withCtx {
			args = append(args, reflect.ValueOf(&ctx).Elem())
		}
		args = append(args, reflect.ValueOf(name), reflect.ValueOf(value).Convert(want))
		out := m.Call(args)
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}
}

// bindCall resolves a "call" statement against the registry.
func bindCall(r *Registry, call *script.Call, multi bool) (*Processor, error) {
	if len(call.Accessor) != 2 {
		return nil, &UnresolvedProcessor{
			Accessor: call.Accessor,
			Reason:   "holder must be a single identifier",
		}
	}
	holderId, method := call.Accessor[0], call.Accessor[1]
	holder, have := r.Get(holderId)
	if !have {
		return nil, &UnresolvedProcessor{
			Accessor: call.Accessor,
			Reason:   `holder "` + holderId + `" isn't defined`,
		}
	}
	return Bind(holderId, holder, method, multi)
}
