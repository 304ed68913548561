// Package builtins provides holders that directives can define
// without any application code.
//
//	define catcher as new p3.Catcher
//	define cron as new p3.Schedule
//	define rec as new p3.Recorder
//	define js as new p3.Script
//	define sink as new p3.Noop
package builtins

import (
	"github.com/Comcast/p3/builtins/goja"
	"github.com/Comcast/p3/builtins/noop"
	"github.com/Comcast/p3/core"
)

const (
	CatcherClassName  = "p3.Catcher"
	ScheduleClassName = "p3.Schedule"
	RecorderClassName = "p3.Recorder"

	// LegacyCatcherClassName is accepted for compatibility with
	// older directives.
	LegacyCatcherClassName = "com.sporniket.libre.p3.PropertiesCatcher"
)

func init() {
	Register(core.DefaultFactories)
}

// Register adds the builtin factories to the given map.
func Register(fs core.Factories) core.Factories {
	fs.Add(CatcherClassName, func() interface{} { return NewCatcher() })
	fs.Add(LegacyCatcherClassName, func() interface{} { return NewCatcher() })
	fs.Add(ScheduleClassName, func() interface{} { return NewSchedule() })
	fs.Add(RecorderClassName, func() interface{} { return NewRecorder() })
	fs.Add(goja.ClassName, func() interface{} { return goja.NewProcessor() })
	fs.Add(noop.ClassName, func() interface{} { return noop.NewProcessor() })
	return fs
}

// Standard returns a new map with all the builtin factories.
func Standard() core.Factories {
	return Register(core.NewFactories())
}
