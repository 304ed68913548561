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

import (
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/p3/core"
	"github.com/Comcast/p3/util"
)

type MermaidOpts struct {
	// ShowDirectives includes the built-in rules that handle the
	// directives property.
	ShowDirectives bool `json:"showDirectives"`

	// HolderFill is the fill color of for holder nodes.
	HolderFill string `json:"holderFill,omitempty"`

	// Direction is "LR" or "TB".
	Direction string `json:"direction,omitempty"`
}

func mermaidEscape(s string) string {
	return strings.Replace(s, `"`, `#quot;`, -1)
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) flowchart
// from each rule to the holders its processors use.
func Mermaid(p *core.P3, w io.Writer, opts *MermaidOpts) error {

	if opts == nil {
		opts = &MermaidOpts{
			HolderFill: "#bcf2db",
			Direction:  "LR",
		}
	}
	if opts.Direction == "" {
		opts.Direction = "LR"
	}

	fmt.Fprintf(w, "graph %s\n", opts.Direction)

	hids := make(map[string]string)
	holder := func(id string) string {
		if hid, already := hids[id]; already {
			return hid
		}
		hid := fmt.Sprintf("h%d", len(hids)+1)
		hids[id] = hid
		fmt.Fprintf(w, "  %s((\"%s\"))\n", hid, mermaidEscape(id))
		if opts.HolderFill != "" {
			fmt.Fprintf(w, "  style %s fill:%s\n", hid, opts.HolderFill)
		}
		return hid
	}

	for n, t := range []*core.RuleTable{p.SingleLineRules(), p.MultiLineRules()} {
		util.Logf("mermaid processing %d %s rules", len(t.Rules), t.Event)
		fmt.Fprintf(w, "  subgraph %s\n", t.Event)
		var previous string
		for i, r := range t.Rules {
			if !opts.ShowDirectives && isDirectivesRule(p, r) {
				continue
			}
			rid := fmt.Sprintf("t%dr%d", n, i)
			fmt.Fprintf(w, "  %s[\"%s\"]\n", rid, mermaidEscape(r.Matcher.String()))
			if previous != "" {
				fmt.Fprintf(w, "  %s -. else .-> %s\n", previous, rid)
			}
			previous = rid
		}
		fmt.Fprintf(w, "  end\n")
		for i, r := range t.Rules {
			if !opts.ShowDirectives && isDirectivesRule(p, r) {
				continue
			}
			rid := fmt.Sprintf("t%dr%d", n, i)
			for _, proc := range r.Processors {
				fmt.Fprintf(w, "  %s -- %s --> %s\n", rid, proc.Method, holder(proc.HolderId))
			}
		}
	}

	fmt.Fprintf(w, "\n")

	return nil
}

func isDirectivesRule(p *core.P3, r *core.Rule) bool {
	m, is := r.Matcher.(*core.ExactMatcher)
	return is && m.Name == p.DirectivesName && len(r.Processors) == 1 && r.Processors[0].HolderId == core.DirectivesHolderId
}
