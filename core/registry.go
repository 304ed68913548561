package core

import (
	"fmt"
	"sort"
)

// Factory makes a new holder, like a zero-argument constructor.
type Factory func() (interface{}, error)

// Factories maps class names (as written after "define ... as new")
// to Factories.
//
// This map is the closed set of types that a script can instantiate.
type Factories map[string]Factory

func NewFactories() Factories {
	return make(Factories, 8)
}

// DefaultFactories will be used by New if given nil Factories.
var DefaultFactories = NewFactories()

// Add registers a Factory for a constructor that can't fail.
func (fs Factories) Add(className string, f func() interface{}) Factories {
	fs[className] = func() (interface{}, error) {
		return f(), nil
	}
	return fs
}

// Objects is the read-only view of the objects that directives have
// defined.
type Objects interface {
	// Get returns the object defined with the identifier.
	Get(id string) (interface{}, bool)

	Has(id string) bool

	Len() int

	// Keys returns the identifiers in sorted order.
	Keys() []string

	// Range calls the function for each identifier (in sorted
	// order) until it returns false.
	Range(func(id string, x interface{}) bool)
}

// Registry holds the objects defined by directives.
//
// Only directive compilation writes to a Registry.  Everybody else
// should see it as Objects.
type Registry struct {
	factories Factories
	objects   map[string]interface{}
}

func NewRegistry(factories Factories) *Registry {
	if factories == nil {
		factories = DefaultFactories
	}
	return &Registry{
		factories: factories,
		objects:   make(map[string]interface{}, 8),
	}
}

// Define instantiates the class and stores the new object under the
// identifier.  An existing definition is replaced.
//
// Nothing is stored if instantiation fails.
func (r *Registry) Define(id, className string) (err error) {
	f, have := r.factories[className]
	if !have {
		return &ClassNotFound{ClassName: className}
	}

	defer func() {
		if x := recover(); x != nil {
			err = &InstantiationFailure{
				ClassName: className,
				Err:       fmt.Errorf("panic: %v", x),
			}
		}
	}()

	x, err := f()
	if err != nil {
		return &InstantiationFailure{ClassName: className, Err: err}
	}
	if x == nil {
		return &InstantiationFailure{ClassName: className, Err: NilInstance}
	}

	r.objects[id] = x
	return nil
}

// stage returns a copy that a Builder can change without touching r.
func (r *Registry) stage() *Registry {
	objects := make(map[string]interface{}, len(r.objects))
	for id, x := range r.objects {
		objects[id] = x
	}
	return &Registry{
		factories: r.factories,
		objects:   objects,
	}
}

// commit adopts the objects of a staged copy.
func (r *Registry) commit(staged *Registry) {
	r.objects = staged.objects
}

func (r *Registry) Get(id string) (interface{}, bool) {
	x, have := r.objects[id]
	return x, have
}

func (r *Registry) Has(id string) bool {
	_, have := r.objects[id]
	return have
}

func (r *Registry) Len() int {
	return len(r.objects)
}

func (r *Registry) Keys() []string {
	acc := make([]string, 0, len(r.objects))
	for id := range r.objects {
		acc = append(acc, id)
	}
	sort.Strings(acc)
	return acc
}

func (r *Registry) Range(f func(id string, x interface{}) bool) {
	for _, id := range r.Keys() {
		if !f(id, r.objects[id]) {
			return
		}
	}
}
