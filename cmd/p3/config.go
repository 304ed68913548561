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
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/jsccast/yaml"
)

// Config is what p3 reads from its optional YAML configuration file.
// Command-line flags override these values.
type Config struct {
	// Directives is a file of directives loaded before any input.
	// Directives can also arrive in the input itself.
	Directives string `yaml:"directives"`

	// DirectivesName is the property that carries directives.
	DirectivesName string `yaml:"directivesName"`

	// IO is "std", "http", "mq", or "ws".  Empty means "http" if
	// Input looks like a URL and "std" otherwise.
	IO string `yaml:"io"`

	// Input is a filename, a URL, or "-" for stdin.
	Input string `yaml:"input"`

	// Format is "properties" or "yaml".  Empty means guess.
	Format string `yaml:"format"`

	// Store, if given, records every property that was processed
	// without error.  See storage.New.
	Store string `yaml:"store"`

	MQTT MQTTConfig      `yaml:"mqtt"`
	WS   WebSocketConfig `yaml:"ws"`
}

// MQTTConfig configures the MQTT couplings.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	ClientId  string        `yaml:"clientId"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	KeepAlive int           `yaml:"keepAlive"`
	Topics    []string      `yaml:"topics"`
	Quiesce   uint          `yaml:"quiesce"`
	InTimeout time.Duration `yaml:"inTimeout"`

	// ResultsTopic, if given, gets a message for each property
	// that failed.
	ResultsTopic string `yaml:"resultsTopic"`
}

// WebSocketConfig configures the WebSocket couplings.
type WebSocketConfig struct {
	URL string `yaml:"url"`
}

// DefaultConfig returns the configuration used when there is no
// configuration file.
func DefaultConfig() *Config {
	return &Config{
		Input: "-",
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			KeepAlive: 10,
			Quiesce:   100,
			InTimeout: time.Second,
		},
		WS: WebSocketConfig{
			URL: "ws://localhost:8080",
		},
	}
}

// ParseConfig reads YAML over the defaults.
func ParseConfig(bs []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// ReadConfig reads the named YAML file.  An empty filename gives the
// defaults.
func ReadConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(bs)
}

// Couplings picks the IO mode.
func (c *Config) Couplings() string {
	if c.IO != "" {
		return c.IO
	}
	if isURL(c.Input) {
		return "http"
	}
	return "std"
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
