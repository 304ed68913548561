package tools

import (
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	a := Analyze(fixture(t))

	if a.Objects != 2 {
		t.Fatal(a.Objects)
	}
	// Two directives rules plus four and one.
	if a.Rules != 7 {
		t.Fatal(a.Rules)
	}
	if a.Diagnostics != 1 {
		t.Fatal(a.Diagnostics)
	}

	if len(a.Unreachable) != 1 {
		t.Fatal(a.Unreachable)
	}
	u := a.Unreachable[0]
	if u.Rule != `is "a.b" -> [foo.store]` || u.Index != 2 || u.Line != 6 {
		t.Fatalf("%#v", u)
	}

	if len(a.Empty) != 1 || a.Empty[0].Rule != `is "quiet" -> []` {
		t.Fatal(a.Empty)
	}

	if !reflect.DeepEqual(a.UnusedObjects, []string{"unused"}) {
		t.Fatal(a.UnusedObjects)
	}
}
