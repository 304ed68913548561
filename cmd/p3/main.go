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

// Package main is a command-line P3 that processes properties from a
// file, stdin, a URL, an MQTT broker, or a WebSocket server.  It can
// also render the rules that directives produce.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/Comcast/p3/builtins"
	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/properties"
	"github.com/Comcast/p3/sio"
	"github.com/Comcast/p3/storage"
	"github.com/Comcast/p3/tools"
	"github.com/Comcast/p3/util"
)

func main() {
	os.Exit(run())
}

// run does the work of main and returns the exit code, so deferred
// closes happen before the process exits.
func run() int {

	var (
		configFile     = flag.String("config", "", "Optional YAML configuration file")
		directives     = flag.String("directives", "", "Directives file (overrides config)")
		directivesName = flag.String("directives-name", "", "Property that carries directives (overrides config)")
		coupling       = flag.String("io", "", `IO: "std", "http", "mq", or "ws" (overrides config)`)
		input          = flag.String("input", "", `Input filename, URL, or "-" for stdin (overrides config)`)
		format         = flag.String("format", "", `Input format: "properties" or "yaml" (overrides config)`)
		store          = flag.String("store", "", `Record processed properties: "bolt:FILE" or "postgres:DSN" (overrides config)`)
		broker         = flag.String("mq-broker", "", "MQTT broker (overrides config)")
		topics         = flag.String("mq-topics", "", "Comma-separated MQTT subscription topics (overrides config)")
		wsURL          = flag.String("ws-url", "", "WebSocket server URL (overrides config)")

		render    = flag.String("render", "", `Just render the rules: "yaml", "mermaid", "dot", "html", or "analyze"`)
		doc       = flag.String("doc", "", "Markdown file for -render html")
		css       = flag.String("css", "", "Comma-separated CSS files for -render html")
		highlight = flag.String("highlight", "", "Property name to highlight for -render dot")

		echo        = flag.Bool("echo", false, "Echo input properties (std and http)")
		tags        = flag.Bool("tags", true, "Tag output lines (std and http)")
		timestamps  = flag.Bool("timestamps", false, "Timestamp output lines (std and http)")
		shellExpand = flag.Bool("sh", false, "Expand <<shell commands>> in values (std and http)")
		verbose     = flag.Bool("v", false, "Verbose")
	)

	flag.Parse()

	util.Logging = *verbose
	util.Logger = log.New(os.Stderr, "p3 ", log.LstdFlags)

	cfg, err := ReadConfig(*configFile)
	if err != nil {
		log.Print(err)
		return 1
	}

	override := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	override(&cfg.Directives, *directives)
	override(&cfg.DirectivesName, *directivesName)
	override(&cfg.IO, *coupling)
	override(&cfg.Input, *input)
	override(&cfg.Format, *format)
	override(&cfg.Store, *store)
	override(&cfg.MQTT.Broker, *broker)
	override(&cfg.WS.URL, *wsURL)
	if *topics != "" {
		cfg.MQTT.Topics = strings.Split(*topics, ",")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	p, err := NewP3(ctx, cfg)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer func() {
		if err := closeHolders(context.Background(), p.Objects()); err != nil {
			log.Printf("error closing objects: %v", err)
		}
	}()

	if *render != "" {
		opts := &RenderOpts{
			Doc:       *doc,
			Highlight: *highlight,
		}
		if *css != "" {
			opts.CSS = strings.Split(*css, ",")
		}
		if err := Render(p, *render, os.Stdout, opts); err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}

	var l properties.Listener = p
	if cfg.Store != "" {
		s, err := storage.New(cfg.Store)
		if err != nil {
			log.Print(err)
			return 1
		}
		if err = s.Open(ctx); err != nil {
			log.Print(err)
			return 1
		}
		defer func() {
			if err := s.Close(context.Background()); err != nil {
				log.Printf("error closing store: %v", err)
			}
		}()
		l = &recording{
			Listener: l,
			store:    s,
		}
	}

	var std *sio.Stdio
	var c sio.Couplings
	switch cfg.Couplings() {
	case "std":
		std = sio.NewStdio(cfg.Format)
		if cfg.Input != "-" {
			f, err := os.Open(cfg.Input)
			if err != nil {
				log.Print(err)
				return 1
			}
			defer f.Close()
			std.In = f
			if std.Format == "" {
				std.Format = properties.FormatOf(cfg.Input)
			}
		}
		c = std
	case "http", "https":
		f, err := sio.NewFetch(cfg.Input)
		if err != nil {
			log.Print(err)
			return 1
		}
		f.Format = cfg.Format
		f.Debug = *verbose
		std = f.Stdio
		c = f
	case "mq", "mqtt":
		c = NewMQTTCouplings(cfg.MQTT)
	case "ws":
		c = NewWebSocketCouplings(cfg.WS)
	default:
		log.Printf("unknown io: '%s'", cfg.IO)
		return 1
	}

	if std != nil {
		std.EchoInput = *echo
		std.Tags = *tags
		std.Timestamps = *timestamps
		std.ShellExpand = *shellExpand
	}

	if err := sio.Run(ctx, c, l); err != nil {
		log.Print(err)
		return 1
	}

	if std != nil && 0 < std.Errors {
		fmt.Fprintf(os.Stderr, "%d properties failed\n", std.Errors)
		return 1
	}
	return 0
}

// NewP3 makes a P3 with the builtin holders and loads the configured
// directives file, if any.
//
// A directives file can include other files with '%inline("NAME")'.
func NewP3(ctx context.Context, cfg *Config) (*core.P3, error) {
	p := core.New(cfg.DirectivesName, builtins.Standard())
	if cfg.Directives == "" {
		return p, nil
	}
	bs, err := tools.ReadFileWithInlines(cfg.Directives)
	if err != nil {
		return nil, err
	}
	if err = p.LoadSource(ctx, string(bs)); err != nil {
		return nil, err
	}
	for _, d := range p.Diagnostics() {
		log.Printf("warning %s", d)
	}
	return p, nil
}
