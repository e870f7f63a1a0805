package terminal

import "strconv"

// Control sequences understood by every xterm-compatible terminal.
const (
	AltScreenEnter = "\x1b[?1049h\x1b[H"
	AltScreenExit  = "\x1b[?1049l"
	ClearScreen    = "\x1b[2J"
	CursorHome     = "\x1b[H"
)

// CursorPosition returns the sequence moving the cursor to a 1-based row and
// column.
func CursorPosition(row, col int) string {
	return "\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "f"
}

// CursorForward moves the cursor n columns right. Zero or negative n yields "".
func CursorForward(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "C"
}

// CursorBack moves the cursor n columns left.
func CursorBack(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "D"
}

// CursorDown moves the cursor n rows down without changing the column.
func CursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "B"
}
