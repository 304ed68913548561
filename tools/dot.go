/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"html"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/util"
)

// Dot makes a Graphviz dot file for the given P3.  Each rule table is
// a chain of rules in the order they are tried, and each rule points
// to the holders its processors use.
//
// If highlight isn't empty, the rule that would fire for that
// property name is red.
func Dot(p *core.P3, w io.Writer, highlight string) error {

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	seen := make(map[string]bool)
	holder := func(id string) string {
		nid := "h_" + escape(id)
		if !seen[id] {
			seen[id] = true
			fmt.Fprintf(w, "  \"%s\" [shape=\"ellipse\", style=\"filled\", fillcolor=\"#99ddc8\", label=<%s>]\n",
				nid, html.EscapeString(id))
		}
		return nid
	}

	for n, t := range []*core.RuleTable{p.SingleLineRules(), p.MultiLineRules()} {
		util.Logf("dot processing %d %s rules", len(t.Rules), t.Event)

		var fires *core.Rule
		if highlight != "" {
			fires = t.Find(highlight)
		}

		fmt.Fprintf(w, "  subgraph cluster_%d {\n    label=\"%s\"\n", n, escape(t.Event))
		for i, r := range t.Rules {
			color, fillcolor := "black", "#52aa5e"
			if r == fires {
				color, fillcolor = "red", "#f98b8b"
			}
			style := "rounded,filled"
			if len(r.Processors) == 0 {
				style += ",dashed"
			}
			fmt.Fprintf(w, "    t%dr%d [style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%d. %s>]\n",
				n, i, style, color, fillcolor, i+1, html.EscapeString(r.Matcher.String()))
		}
		fmt.Fprintf(w, "  }\n")

		for i, r := range t.Rules {
			if 0 < i {
				fmt.Fprintf(w, "  t%dr%d -> t%dr%d [style=\"dotted\", label=\"else\"]\n", n, i-1, n, i)
			}
			for j, proc := range r.Processors {
				fmt.Fprintf(w, "  t%dr%d -> \"%s\" [label=\"%d/%d %s\"]\n",
					n, i, holder(proc.HolderId), j+1, len(r.Processors), escape(proc.Method))
			}
		}
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(p *core.P3, basename string, highlight string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(p, dotfile, highlight); err != nil {
		dotfile.Close()
		return pngname, err
	}
	if err := dotfile.Close(); err != nil {
		return pngname, err
	}
	cmd := "dot -Tpng -Gstart=1 " + dotname + " > " + pngname
	if err := exec.Command("bash", "-c", cmd).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}
