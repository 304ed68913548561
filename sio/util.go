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

package sio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// JS renders its argument as JSON or as '%#v'.
func JS(x interface{}) string {
	if x == nil {
		return "null"
	}
	js, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(js)
}

// MaxEcho is how much of a rendered property value JShort keeps.
var MaxEcho = 70

// JShort renders its argument as JS() but only up to MaxEcho
// characters (plus "...").
func JShort(x interface{}) string {
	js := JS(x)
	if MaxEcho < len(js) {
		js = js[0:MaxEcho] + "..."
	}
	return js
}

// Shell runs the commands found by ShellExpand.
var Shell = "bash"

var shell = regexp.MustCompile(`<<(.*?)>>`)

// ShellExpand replaces each command delimited by '<<' and '>>' with
// its standard output, minus one trailing newline.  Use at your own
// risk, of course!
func ShellExpand(ctx context.Context, value string) (string, error) {
	literals := shell.Split(value, -1)
	acc := literals[0]
	for i, s := range shell.FindAllStringSubmatch(value, -1) {
		sh := s[1]
		cmd := exec.CommandContext(ctx, Shell, "-c", sh)
		var out, stderr bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("shell error %s on %s: %s", err, sh, strings.TrimSpace(stderr.String()))
		}
		acc += strings.TrimSuffix(out.String(), "\n")
		acc += literals[i+1]
	}
	return acc, nil
}
