package main

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/tools"

	"github.com/jsccast/yaml"
)

// RenderOpts are options for the "-render" mode.
type RenderOpts struct {
	// Doc is a Markdown file that starts the HTML output.
	Doc string

	// Highlight is a property name whose rule is highlighted in
	// "dot" output.
	Highlight string

	// CSS files for "html" output.
	CSS []string
}

// Render writes a description of the loaded rules.  The format is
// "yaml", "mermaid", "dot", "html", or "analyze".
func Render(p *core.P3, format string, w io.Writer, opts *RenderOpts) error {
	if opts == nil {
		opts = &RenderOpts{}
	}
	switch format {
	case "yaml":
		return tools.RenderYAML(p, w)
	case "mermaid":
		return tools.Mermaid(p, w, &tools.MermaidOpts{
			Direction: "LR",
		})
	case "dot":
		return tools.Dot(p, w, opts.Highlight)
	case "html":
		var doc string
		if opts.Doc != "" {
			bs, err := ioutil.ReadFile(opts.Doc)
			if err != nil {
				return err
			}
			doc = string(bs)
		}
		return tools.RenderPage(p, w, "P3 rules", doc, opts.CSS)
	case "analyze":
		bs, err := yaml.Marshal(tools.Analyze(p))
		if err != nil {
			return err
		}
		_, err = w.Write(bs)
		return err
	default:
		return fmt.Errorf("unknown render format %q", format)
	}
}
