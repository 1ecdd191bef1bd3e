package consoles

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestConsole(verbose bool) (*writerConsole, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := NewWriterConsole(out, verbose).(*writerConsole)
	c.clock = func() time.Time { return time.Date(2024, 1, 2, 10, 20, 30, 0, time.UTC) }
	return c, out
}

func TestPrefixes(t *testing.T) {
	c, out := newTestConsole(false)

	c.PushPrefix("%v: ", "a.go")
	c.PushPrefix("  ")
	c.Printf("line %v\n", 1)
	c.PopPrefix()
	c.Printf("done\n")
	c.PopPrefix()
	c.PopPrefix()
	c.Printf("end\n")

	assert.Equal(t, "[10:20:30] a.go:   line 1\n[10:20:30] a.go: done\n[10:20:30] end\n", out.String())
}

func TestVerbosef(t *testing.T) {
	quiet, quietOut := newTestConsole(false)
	quiet.Verbosef("hidden\n")
	assert.Empty(t, quietOut.String())

	loud, loudOut := newTestConsole(true)
	loud.Verbosef("shown\n")
	assert.Equal(t, "[10:20:30] shown\n", loudOut.String())
}
