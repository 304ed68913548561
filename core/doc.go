/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package core provides the directive interpreter and dispatcher of
// P3, the Programmable Properties Processor.
//
// A P3 receives property events (a name and either a single string or
// a list of lines) from something that reads properties.  It routes
// each event to processors, which are methods on objects (holders)
// defined by directives.  The directives are themselves the value of a
// reserved property, so a properties file carries its own routing:
//
//	define foo as new com.example.Foo
//
//	on singleLinePropertyParsed with a String named name, a String named value
//	    if name is like "foo\\..*"
//	        call processFoo from foo using name as name, value as value
//	    else
//	        call process from foo using name as name, value as value
//	    endif
//	endon
//
// Holders come from Factories, which map class names to constructors.
// A processor is a method taking the property name and the value
// (string or []string), optionally preceded by a context.Context and
// optionally returning an error.
//
// Each "if" alternative becomes a Rule.  For each property, only the
// first Rule (in script order) whose test matches the name fires, and
// all of its processors run in order.
//
// Problems with individual definitions or calls don't stop the
// compilation of the directives.  They are reported as Diagnostics.
package core
