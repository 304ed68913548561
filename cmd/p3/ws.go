/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/Comcast/p3/sio"
	"github.com/Comcast/p3/util"

	"github.com/gorilla/websocket"
)

// WebSocketCouplings reads properties from a WebSocket server.
//
// Each incoming message is a JSON object with a "name" and a "value",
// which is a string for a single-line property or an array of strings
// for a multi-line property.  Each property gets a reply with its
// "name" and, if processing failed, an "error".
type WebSocketCouplings struct {
	URL string

	in   chan *sio.Event
	out  chan *sio.Result
	done chan bool
	conn *websocket.Conn
	wg   sync.WaitGroup
}

func NewWebSocketCouplings(cfg WebSocketConfig) *WebSocketCouplings {
	return &WebSocketCouplings{
		URL: cfg.URL,
	}
}

// wsMessage is an incoming property.
type wsMessage struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// wsReply is the reply to a property.
type wsReply struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// ParseMessage makes an event from a WebSocket message.
func ParseMessage(bs []byte) (*sio.Event, error) {
	var msg wsMessage
	if err := json.Unmarshal(bs, &msg); err != nil {
		return nil, err
	}
	if msg.Name == "" {
		return nil, fmt.Errorf("no name in %s", bs)
	}

	var s string
	if err := json.Unmarshal(msg.Value, &s); err == nil {
		return &sio.Event{Name: msg.Name, Value: s}, nil
	}
	var ss []string
	if err := json.Unmarshal(msg.Value, &ss); err == nil && ss != nil {
		return &sio.Event{Name: msg.Name, Value: ss}, nil
	}
	return nil, fmt.Errorf("%s: value isn't a string or an array of strings", msg.Name)
}

// Start creates the WebSocket session.
func (c *WebSocketCouplings) Start(ctx context.Context) error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return err
	}

	c.in = make(chan *sio.Event)
	c.out = make(chan *sio.Result)
	c.done = make(chan bool)

	log.Println("wsconnect", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn

	return nil
}

// IO starts reading and writing the connection.  The done channel is
// closed when the connection can't be read anymore.
func (c *WebSocketCouplings) IO(ctx context.Context) (chan *sio.Event, chan *sio.Result, chan bool, error) {
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()
		defer close(c.done)
		for {
			_, bs, err := c.conn.ReadMessage()
			if err != nil {
				util.Logf("WebSocketCouplings ReadMessage %v", err)
				return
			}
			if len(bs) == 0 {
				continue
			}
			util.Logf("WebSocketCouplings heard %s", bs)

			e, err := ParseMessage(bs)
			if err != nil {
				log.Printf("WebSocketCouplings ignoring %s: %v", bs, err)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case c.in <- e:
			}
		}
	}()

	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-c.out:
				if r == nil {
					return
				}
				reply := &wsReply{
					Name: r.Event.Name,
				}
				if r.Err != nil {
					reply.Error = r.Err.Error()
				}
				if err := c.conn.WriteJSON(reply); err != nil {
					log.Printf("WebSocketCouplings WriteJSON %v", err)
				}
			}
		}
	}()

	return c.in, c.out, c.done, nil
}

// Stop terminates the WebSocket connection.
func (c *WebSocketCouplings) Stop(ctx context.Context) error {
	log.Printf("Disconnecting")
	err := c.conn.Close()
	c.wg.Wait()
	return err
}
