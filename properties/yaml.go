package properties

import (
	"context"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// ScanYAML reads a YAML stream and calls the listener for each leaf in
// document order.
//
// Mapping keys are joined with "." to make property names.  A scalar
// raises a single-line event.  A sequence of scalars raises a
// multi-line event with one line per item.  Null scalars are empty
// strings.
//
//	server:
//	  port: 8443        # server.port
//	  names:            # server.names (multi-line)
//	    - example.com
//	    - www.example.com
func ScanYAML(ctx context.Context, r io.Reader, l Listener) error {
	d := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		if err := d.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		for _, n := range doc.Content {
			if err := walk(ctx, "", n, l, make(map[*yaml.Node]bool)); err != nil {
				return err
			}
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalar(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// walk raises events for n and what's under it.  The mappings being
// walked are in path, so an alias to one of them is an error.
func walk(ctx context.Context, name string, n *yaml.Node, l Listener, path map[*yaml.Node]bool) error {
	if n.Kind == yaml.AliasNode {
		if path[n.Alias] {
			return &ScanError{Line: n.Line, Msg: "recursive alias at " + name}
		}
		n = n.Alias
	}

	switch n.Kind {
	case yaml.MappingNode:
		path[n] = true
		defer delete(path, n)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return &ScanError{Line: k.Line, Msg: "mapping key isn't a scalar"}
			}
			if err := walk(ctx, join(name, k.Value), v, l, path); err != nil {
				return err
			}
		}
		return nil

	case yaml.SequenceNode:
		if name == "" {
			return &ScanError{Line: n.Line, Msg: "top-level sequence"}
		}
		lines := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			if item.Kind != yaml.ScalarNode {
				return &ScanError{Line: item.Line, Msg: name + " has an item that isn't a scalar"}
			}
			lines = append(lines, scalar(item))
		}
		if err := l.OnMultiLineProperty(ctx, name, lines); err != nil {
			return &EventError{Line: n.Line, Name: name, Err: err}
		}
		return nil

	case yaml.ScalarNode:
		if name == "" {
			return &ScanError{Line: n.Line, Msg: "top-level scalar"}
		}
		if err := l.OnSingleLineProperty(ctx, name, scalar(n)); err != nil {
			return &EventError{Line: n.Line, Name: name, Err: err}
		}
		return nil
	}

	return &ScanError{Line: n.Line, Msg: "unexpected node"}
}
