package builtins

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/storage"
	"github.com/Comcast/p3/storage/bolt"
)

func setup(t *testing.T, directives ...string) (*core.P3, context.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	p := core.New("", Standard())
	if err := p.OnMultiLineProperty(ctx, core.DefaultDirectivesName, directives); err != nil {
		t.Fatal(err)
	}
	if ds := p.Diagnostics(); len(ds) != 0 {
		t.Fatal(ds)
	}
	return p, ctx
}

func TestStandard(t *testing.T) {
	fs := Standard()
	for _, name := range []string{
		CatcherClassName,
		LegacyCatcherClassName,
		ScheduleClassName,
		RecorderClassName,
		"p3.Script",
		"p3.Noop",
	} {
		f, have := fs[name]
		if !have {
			t.Fatalf("no %s", name)
		}
		if x, err := f(); err != nil || x == nil {
			t.Fatal(name, x, err)
		}
	}
}

func TestCatcher(t *testing.T) {
	p, ctx := setup(t,
		`define foo as new com.sporniket.libre.p3.PropertiesCatcher`,
		`on singleLinePropertyParsed with a String named name, a String named value`,
		`    if name is "a.b"`,
		`        call store from foo using name as name, value as value`,
		`    endif`,
		`endon`,
		`on multipleLinePropertyParsed with a String named name, a String[] named value`,
		`    if name is like "a\\..*"`,
		`        call store from foo using name as name, value as value`,
		`    endif`,
		`endon`,
	)

	if err := p.OnSingleLineProperty(ctx, "a.b", "1"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnSingleLineProperty(ctx, "a.c", "2"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(ctx, "a.d", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}

	x, _ := p.Get("foo")
	want := map[string]string{
		"a.b": "1",
		"a.d": "x\ny",
	}
	if got := x.(*Catcher).Properties; !reflect.DeepEqual(got, want) {
		t.Fatal(got)
	}
}

func TestSchedule(t *testing.T) {
	p, ctx := setup(t,
		`define cron as new p3.Schedule`,
		`on singleLinePropertyParsed with a String named name, a String named value`,
		`    if name is like "cron\\..*"`,
		`        call store from cron using name as name, value as value`,
		`    endif`,
		`endon`,
	)

	x, _ := p.Get("cron")
	s := x.(*Schedule)
	then := time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC)
	s.Now = func() time.Time { return then }

	if err := p.OnSingleLineProperty(ctx, "cron.hourly", "0 * * * *"); err != nil {
		t.Fatal(err)
	}
	if next := s.Next["cron.hourly"]; !next.Equal(then.Add(30 * time.Minute)) {
		t.Fatal(next)
	}

	if err := p.OnSingleLineProperty(ctx, "cron.bad", "tacos"); err == nil {
		t.Fatal("didn't protest")
	}
	if _, have := s.Next["cron.bad"]; have {
		t.Fatal("bad expression recorded")
	}

	if due := s.Due(then); len(due) != 0 {
		t.Fatal(due)
	}
	at := then.Add(31 * time.Minute)
	if due := s.Due(at); !reflect.DeepEqual(due, []string{"cron.hourly"}) {
		t.Fatal(due)
	}
	if next := s.Next["cron.hourly"]; !next.Equal(then.Add(90 * time.Minute)) {
		t.Fatal(next)
	}
}

func TestRecorderBolt(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "props.db")

	p, ctx := setup(t,
		`define rec as new p3.Recorder`,
		`on singleLinePropertyParsed with a String named name, a String named value`,
		`    if name is "recorder.backend"`,
		`        call setBackend from rec using name as name, value as value`,
		`    else`,
		`        call record from rec using name as name, value as value`,
		`    endif`,
		`endon`,
		`on multipleLinePropertyParsed with a String named name, a String[] named value`,
		`    if name is like ".*"`,
		`        call record from rec using name as name, value as value`,
		`    endif`,
		`endon`,
	)

	x, _ := p.Get("rec")
	r := x.(*Recorder)

	// Nothing is kept before a backend is set.
	if err := p.OnSingleLineProperty(ctx, "early", "1"); err != nil {
		t.Fatal(err)
	}

	if err := p.OnSingleLineProperty(ctx, "recorder.backend", "bolt:"+filename); err != nil {
		t.Fatal(err)
	}
	if _, is := r.Store.(*bolt.Store); !is {
		t.Fatalf("%T", r.Store)
	}
	defer r.Close(ctx)

	if err := p.OnSingleLineProperty(ctx, "likes", "tacos"); err != nil {
		t.Fatal(err)
	}
	if err := p.OnMultiLineProperty(ctx, "menu", []string{"tacos", "queso"}); err != nil {
		t.Fatal(err)
	}

	names, err := r.Store.Names(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"likes", "menu"}) {
		t.Fatal(names)
	}
	values, err := r.Store.Get(ctx, "menu")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []string{"tacos", "queso"}) {
		t.Fatal(values)
	}

	if err := p.OnSingleLineProperty(ctx, "recorder.backend", "floppy:a"); err == nil {
		t.Fatal("didn't protest")
	}
	if _, is := r.Store.(*bolt.Store); !is {
		t.Fatal("a failed SetBackend replaced the store")
	}
	if _, err = r.Store.Get(ctx, "early"); err != storage.NotFound {
		t.Fatal(err)
	}
}
