package goja

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/url"
	"time"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
)

// bind sets up "_" in the runtime for one property.
//
//	_.name          the property name
//	_.value         the value: a string or an array of lines
//	_.results       what the code has returned so far, by name
//	_.out(x)        append x to Emitted
//	_.log(x)        log x as JSON
//	_.gensym()      a random string
//	_.esc(s)        URL query-escape s
//	_.cronNext(s)   the next time (RFC3339) for a cron expression
//
// With Testing, there's also sleep(ms) at the top level.
func (p *Processor) bind(o *goja.Runtime, name string, value interface{}) error {
	results, err := canonicalize(p.Results)
	if err != nil {
		return err
	}

	env := map[string]interface{}{
		"name":    name,
		"value":   value,
		"results": results,

		"gensym": func() string {
			return gensym(32)
		},

		"esc": url.QueryEscape,

		"cronNext": func(expr string) string {
			c, err := cronexpr.Parse(expr)
			if err != nil {
				protest(o, err.Error())
			}
			return c.Next(time.Now()).UTC().Format(time.RFC3339Nano)
		},

		"out": func(x goja.Value) goja.Value {
			y, err := canonicalize(x.Export())
			if err != nil {
				protest(o, err.Error())
			}
			p.Emitted = append(p.Emitted, y)
			return x
		},

		"log": func(x goja.Value) goja.Value {
			js, err := json.Marshal(x.Export())
			if err != nil {
				log.Printf("p3.Script %s log (can't marshal: %s)", name, err)
			} else {
				log.Printf("p3.Script %s log %s", name, js)
			}
			return x
		},
	}

	if p.Testing {
		if err := o.Set("sleep", func(ms int) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}); err != nil {
			return err
		}
	}

	return o.Set("_", env)
}

// protest throws a JavaScript exception.
func protest(o *goja.Runtime, msg string) {
	panic(o.ToValue(msg))
}

// canonicalize makes x look like what encoding/json would produce,
// so results compare the same whether they came from Go or
// JavaScript.
func canonicalize(x interface{}) (interface{}, error) {
	js, err := json.Marshal(&x)
	if err != nil {
		return nil, err
	}
	var y interface{}
	if err = json.Unmarshal(js, &y); err != nil {
		return nil, err
	}
	return y, nil
}

var alphabet = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func gensym(n int) string {
	bs := make([]byte, n)
	for i := range bs {
		bs[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(bs)
}
