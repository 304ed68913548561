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
	"sort"

	"github.com/Comcast/p3/core"
)

// Finding is a problem with one rule.
type Finding struct {
	Event  string `json:"event" yaml:"event"`
	Index  int    `json:"index" yaml:"index"`
	Rule   string `json:"rule" yaml:"rule"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

// Analysis summarizes the rules and objects of a P3.
type Analysis struct {
	Objects     int `json:"objects" yaml:"objects"`
	Rules       int `json:"rules" yaml:"rules"`
	Processors  int `json:"processors" yaml:"processors"`
	Diagnostics int `json:"diagnostics" yaml:"diagnostics"`

	// Unreachable rules can never fire because an earlier rule
	// always fires first.
	Unreachable []Finding `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`

	// Empty rules have no processors, so they just swallow
	// properties.
	Empty []Finding `json:"empty,omitempty" yaml:"empty,omitempty"`

	// UnusedObjects were defined but no processor uses them.
	UnusedObjects []string `json:"unusedObjects,omitempty" yaml:"unusedObjects,omitempty"`
}

// matchesEverything reports whether the matcher is a pattern that
// accepts any name.
func matchesEverything(m core.NameMatcher) bool {
	pm, is := m.(*core.PatternMatcher)
	return is && (pm == core.Otherwise || pm.Pattern == ".*" || pm.Pattern == "(.*)" || pm.Pattern == "(?s).*")
}

// shadowedBy returns the earlier rule that always fires instead of
// the given one, if there is one.
func shadowedBy(earlier []*core.Rule, r *core.Rule) *core.Rule {
	for _, e := range earlier {
		if matchesEverything(e.Matcher) {
			return e
		}
		switch m := r.Matcher.(type) {
		case *core.ExactMatcher:
			if e.Matcher.Matches(m.Name) {
				return e
			}
		case *core.PatternMatcher:
			if pm, is := e.Matcher.(*core.PatternMatcher); is && pm.Pattern == m.Pattern {
				return e
			}
		}
	}
	return nil
}

// Analyze looks for rules that can never fire, rules that do
// nothing, and objects that nothing uses.
func Analyze(p *core.P3) *Analysis {
	a := &Analysis{
		Objects:     p.Len(),
		Diagnostics: len(p.Diagnostics()),
	}

	used := make(map[string]bool)

	for _, t := range []*core.RuleTable{p.SingleLineRules(), p.MultiLineRules()} {
		for i, r := range t.Rules {
			a.Rules++
			a.Processors += len(r.Processors)
			for _, proc := range r.Processors {
				used[proc.HolderId] = true
			}

			finding := Finding{
				Event: t.Event,
				Index: i,
				Rule:  r.String(),
				Line:  r.Pos.Line,
			}

			if e := shadowedBy(t.Rules[:i], r); e != nil {
				f := finding
				f.Reason = "shadowed by " + e.Matcher.String()
				a.Unreachable = append(a.Unreachable, f)
			}

			if len(r.Processors) == 0 {
				f := finding
				f.Reason = "no processors"
				a.Empty = append(a.Empty, f)
			}
		}
	}

	p.Range(func(id string, x interface{}) bool {
		if !used[id] {
			a.UnusedObjects = append(a.UnusedObjects, id)
		}
		return true
	})
	sort.Strings(a.UnusedObjects)

	return a
}
