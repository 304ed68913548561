// Package p3 is the Programmable Properties Processor.
//
// A P3 listens to property events (a name with a single-line or a
// multi-line value) and dispatches each one to processors chosen by
// rules on the property name.  The rules and the objects that hold the
// processors come from directives, which arrive as the value of a
// reserved property, so a properties document can say how the rest of
// it should be processed.
//
// The core code is in package 'core', the directives language is in
// 'script', and a command-line tool is in 'cmd/p3'.
package p3
