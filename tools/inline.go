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
	"os"
	"path/filepath"
	"regexp"

	"github.com/Comcast/p3/util"
)

// MaxInlineDepth limits nested '%inline("NAME")' directives.
var MaxInlineDepth = 8

var inlinePattern = regexp.MustCompile(`%inline *\("([^"]*)"\)`)

// Inline replaces '%inline("NAME")' with f(NAME).  Replacements
// aren't themselves expanded.
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	var err error
	acc := inlinePattern.ReplaceAllFunc(bs, func(m []byte) []byte {
		if err != nil {
			return nil
		}
		name := string(inlinePattern.FindSubmatch(m)[1])
		var replacement []byte
		if replacement, err = f(name); err != nil {
			return nil
		}
		util.Logf("tools.Inline %s (%d bytes)", name, len(replacement))
		return replacement
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// inliner reads files relative to dir and expands their own inlines
// up to MaxInlineDepth.
func inliner(dir string, depth int) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if MaxInlineDepth <= depth {
			return nil, fmt.Errorf("%%inline(%q) nested too deeply", name)
		}
		filename := filepath.Join(dir, name)
		bs, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return Inline(bs, inliner(filepath.Dir(filename), depth+1))
	}
}

// ReadFileWithInlines is a replacement for os.ReadFile that expands
// '%inline("NAME")' with the contents of NAME, which is relative to
// the directory of the file that includes it.
//
// Directive files use this to share definitions.
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Inline(bs, inliner(filepath.Dir(filename), 1))
}

// ReadAllWithInlines is like ReadFileWithInlines for a reader, with
// names relative to the given directory.
func ReadAllWithInlines(in io.Reader, dir string) ([]byte, error) {
	bs, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return Inline(bs, inliner(dir, 1))
}
