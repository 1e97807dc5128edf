package cli

import (
	"fmt"
	"io"
)

// IO is the command output sink, so commands never touch os.Stdout
// directly and can be exercised in tests against a buffer.
type IO struct {
	out    io.Writer
	errOut io.Writer
}

// NewIO wraps the given writers.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Println writes to stdout.
func (o *IO) Println(a ...any) { _, _ = fmt.Fprintln(o.out, a...) }

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) { _, _ = fmt.Fprintf(o.out, format, a...) }

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) { _, _ = fmt.Fprintln(o.errOut, a...) }
