package core

import (
	"errors"
	"reflect"
	"testing"
)

type thing struct {
	n int
}

func testFactories() Factories {
	count := 0
	fs := NewFactories()
	fs.Add("Thing", func() interface{} {
		count++
		return &thing{n: count}
	})
	fs["Broken"] = func() (interface{}, error) {
		return nil, errors.New("no can do")
	}
	fs["Nil"] = func() (interface{}, error) {
		return nil, nil
	}
	fs["Panicky"] = func() (interface{}, error) {
		panic("boom")
	}
	return fs
}

func TestRegistryDefine(t *testing.T) {
	r := NewRegistry(testFactories())

	if err := r.Define("a", "Thing"); err != nil {
		t.Fatal(err)
	}
	if err := r.Define("b", "Thing"); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Fatal(r.Len())
	}
	x, have := r.Get("a")
	if !have {
		t.Fatal("a is missing")
	}
	if x.(*thing).n != 1 {
		t.Fatal(x)
	}
	if !reflect.DeepEqual(r.Keys(), []string{"a", "b"}) {
		t.Fatal(r.Keys())
	}

	// Last definition wins.
	if err := r.Define("a", "Thing"); err != nil {
		t.Fatal(err)
	}
	if x, _ := r.Get("a"); x.(*thing).n != 3 {
		t.Fatal(x)
	}
}

func TestRegistryFailures(t *testing.T) {
	r := NewRegistry(testFactories())

	err := r.Define("a", "Nope")
	var cnf *ClassNotFound
	if !errors.As(err, &cnf) {
		t.Fatalf("%T %v", err, err)
	}

	for _, class := range []string{"Broken", "Nil", "Panicky"} {
		err := r.Define("a", class)
		var inf *InstantiationFailure
		if !errors.As(err, &inf) {
			t.Fatalf("%s: %T %v", class, err, err)
		}
		if inf.ClassName != class {
			t.Fatal(inf.ClassName)
		}
	}

	if r.Has("a") {
		t.Fatal("failed definitions shouldn't register anything")
	}
}

func TestRegistryRange(t *testing.T) {
	r := NewRegistry(testFactories())
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Define(id, "Thing"); err != nil {
			t.Fatal(err)
		}
	}
	var seen []string
	r.Range(func(id string, x interface{}) bool {
		seen = append(seen, id)
		return id != "b"
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Fatal(seen)
	}
}
