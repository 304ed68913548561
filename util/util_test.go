package util

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	Logger = log.New(&buf, "p3 ", 0)
	defer func() {
		Logger = nil
		Logging = false
	}()

	Logging = false
	Logf("quiet %d", 1)
	if buf.Len() != 0 {
		t.Fatal(buf.String())
	}

	Logging = true
	Logf("loud %d", 2)
	if got := strings.TrimSpace(buf.String()); got != "p3 loud 2" {
		t.Fatal(got)
	}
}
