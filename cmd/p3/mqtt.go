/* Copyright 2019 Comcast Cable Communications Management, LLC
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
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Comcast/p3/sio"
	"github.com/Comcast/p3/util"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings is an sio.Couplings for an MQTT client.
//
// A message's topic is the property name, with '/' replaced by '.'.
// A payload with one line is a single-line property, and a payload
// with more lines is a multi-line property.
type MQTTCouplings struct {
	Client       mqtt.Client
	Quiesce      uint
	Topics       []string
	ResultsTopic string
	InTimeout    time.Duration

	incoming chan *sio.Event
	outbound chan *sio.Result
	done     chan bool
	wg       sync.WaitGroup
}

// NewMQTTCouplings makes couplings with a paho client that isn't
// connected yet.
func NewMQTTCouplings(cfg MQTTConfig) *MQTTCouplings {
	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	c := &MQTTCouplings{
		Quiesce:      cfg.Quiesce,
		Topics:       cfg.Topics,
		ResultsTopic: cfg.ResultsTopic,
		InTimeout:    cfg.InTimeout,

		incoming: make(chan *sio.Event),
		outbound: make(chan *sio.Result),
		done:     make(chan bool),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientId)
	opts.SetKeepAlive(time.Second * time.Duration(cfg.KeepAlive))
	opts.Username = cfg.Username
	opts.Password = cfg.Password

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	// The handler runs on paho's goroutines, so it can't use a
	// context that's only known to Start.
	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		c.inHandler(context.Background(), msg)
	}

	c.Client = mqtt.NewClient(opts)

	return c
}

// TopicEvent makes an event from an MQTT message.
func TopicEvent(topic string, payload []byte) *sio.Event {
	name := strings.ReplaceAll(topic, "/", ".")
	s := strings.TrimSuffix(string(payload), "\n")
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return &sio.Event{Name: name, Value: lines[0]}
	}
	return &sio.Event{Name: name, Value: lines}
}

// inHandler is a Paho publish handler, which is used to handle
// messages sent to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(ctx context.Context, msg mqtt.Message) {
	util.Logf("MQTTCouplings incoming %s %s", msg.Topic(), msg.Payload())

	e := TopicEvent(msg.Topic(), msg.Payload())

	to := time.NewTimer(c.InTimeout)
	defer to.Stop()

	select {
	case <-ctx.Done():
		log.Printf("MQTTCouplings not forwarding %s due to ctx.Done()", e.Name)
	case <-c.done:
		log.Printf("MQTTCouplings not forwarding %s after Stop", e.Name)
	case c.incoming <- e:
	case <-to.C:
		log.Printf("MQTTCouplings not forwarding %s due to stall", e.Name)
	}
}

// Start creates the MQTT session and subscribes.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	util.Logf("MQTTCouplings connecting")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range c.Topics {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		log.Printf("Subscribing to %s (%d)", topic, qos)
		if t := c.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	return nil
}

// IO starts a loop that publishes failures and returns the channels.
func (c *MQTTCouplings) IO(ctx context.Context) (chan *sio.Event, chan *sio.Result, chan bool, error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.outLoop(ctx); err != nil {
			log.Printf("MQTTCouplings outLoop error %v", err)
		}
	}()
	return c.incoming, c.outbound, c.done, nil
}

// ResultMessage is what's published for a property that failed.
type ResultMessage struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (c *MQTTCouplings) outLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-c.outbound:
			if r == nil {
				return nil
			}
			if r.Err == nil {
				continue
			}
			log.Printf("error %s: %v", r.Event.Name, r.Err)
			if c.ResultsTopic == "" {
				continue
			}
			js, err := json.Marshal(&ResultMessage{
				Name:  r.Event.Name,
				Error: r.Err.Error(),
			})
			if err != nil {
				return err
			}
			topic, qos := parseTopic(c.ResultsTopic)
			token := c.Client.Publish(topic, qos, false, js)
			if token.Wait() && token.Error() != nil {
				return token.Error()
			}
		}
	}
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	log.Printf("Disconnecting")
	c.Client.Disconnect(c.Quiesce)
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.wg.Wait()
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	var topic string
	var qos byte
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%s %d", &topic, &qos); err == nil {
		return topic, qos
	}
	return s, 0
}
