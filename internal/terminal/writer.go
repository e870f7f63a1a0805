package terminal

import (
	"bufio"
	"io"
)

// Writer is the drawing capability handed to renderers. Calls are buffered;
// nothing reaches the terminal until Flush.
type Writer interface {
	io.Writer

	// MoveTo positions the cursor at a 1-based row and column.
	MoveTo(row, col int)
	// Text writes printable text at the cursor.
	Text(s string)
	// Control writes an escape sequence verbatim.
	Control(seq string)
	// Flush sends buffered output and reports the first error seen since the
	// previous Flush.
	Flush() error
}

const outputBufferSize = 64 * 1024

// Output is the buffered Writer used for real terminals and test screens.
// Errors are sticky: after the first failed write every call is a no-op and
// Flush returns that error.
type Output struct {
	w   *bufio.Writer
	err error
}

// NewOutput wraps w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: bufio.NewWriterSize(w, outputBufferSize)}
}

func (o *Output) MoveTo(row, col int) {
	o.write(CursorPosition(row, col))
}

func (o *Output) Text(s string) {
	o.write(s)
}

func (o *Output) Control(seq string) {
	o.write(seq)
}

func (o *Output) Write(p []byte) (int, error) {
	if o.err != nil {
		return 0, o.err
	}
	n, err := o.w.Write(p)
	o.err = err
	return n, err
}

func (o *Output) Flush() error {
	if o.err != nil {
		return o.err
	}
	o.err = o.w.Flush()
	return o.err
}

func (o *Output) write(s string) {
	if o.err != nil {
		return
	}
	_, o.err = o.w.WriteString(s)
}
