package main

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Comcast/p3/sio"
)

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 0 }
func (m *message) Retained() bool    { return false }
func (m *message) Topic() string     { return m.topic }
func (m *message) MessageID() uint16 { return 1 }
func (m *message) Payload() []byte   { return m.payload }
func (m *message) Ack()              {}

func TestMQTTInHandler(t *testing.T) {
	c := NewMQTTCouplings(MQTTConfig{
		Broker:    "tcp://localhost:1883",
		InTimeout: 50 * time.Millisecond,
	})

	got := make(chan *sio.Event, 1)
	go func() {
		got <- <-c.incoming
	}()

	c.inHandler(context.Background(), &message{
		topic:   "app/db/hosts",
		payload: []byte("a\nb\n"),
	})

	select {
	case e := <-got:
		want := &sio.Event{Name: "app.db.hosts", Value: []string{"a", "b"}}
		if !reflect.DeepEqual(e, want) {
			t.Fatal(e)
		}
	case <-time.After(time.Second):
		t.Fatal("no event")
	}

	// Nobody is reading, so this one is dropped after InTimeout.
	then := time.Now()
	c.inHandler(context.Background(), &message{topic: "x", payload: []byte("1")})
	if elapsed := time.Since(then); elapsed < 50*time.Millisecond {
		t.Fatal(elapsed)
	}
}
