// Package util has the logging switch used throughout.
package util

import "log"

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf writes to Logger.
var Logging = false

// Logger gets Logf's output.  Nil means the standard logger.
var Logger *log.Logger

// Logf logs chatty diagnostics (directive compilation, dispatch
// misses, couplings traffic) when Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	if Logger != nil {
		Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
