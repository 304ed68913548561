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

package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter, so "store" becomes
// "Store".  That's how script names become exported Go names.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// JoinLines joins the lines of a multi-line value with newlines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// AsLines returns a property value as lines.  A single-line value is
// one line.
func AsLines(value interface{}) []string {
	switch vv := value.(type) {
	case []string:
		return vv
	case string:
		return []string{vv}
	default:
		return nil
	}
}

// AsString returns a property value as a single string.  Multi-line
// values are joined with newlines.
func AsString(value interface{}) string {
	switch vv := value.(type) {
	case []string:
		return JoinLines(vv)
	case string:
		return vv
	default:
		return ""
	}
}
