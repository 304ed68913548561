package noop

import (
	"log"

	"github.com/Comcast/p3/core"
)

// ClassName is the name scripts use to define a Processor.
const ClassName = "p3.Noop"

func init() {
	core.DefaultFactories.Add(ClassName, func() interface{} {
		return NewProcessor()
	})
}

// Processor is a holder whose processors drop every property.
type Processor struct {
	// Silent, if true, suppresses the warning logged for each
	// dropped property.
	Silent bool
}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Process(name, value string) {
	if !p.Silent {
		log.Printf("warning: dropping %s", name)
	}
}

func (p *Processor) ProcessLines(name string, values []string) {
	if !p.Silent {
		log.Printf("warning: dropping %s (%d lines)", name, len(values))
	}
}
