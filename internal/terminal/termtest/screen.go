// Package termtest provides a minimal VT screen for tests. It interprets the
// subset of sequences the viewer emits (cursor moves, clears, alternate
// screen, inline image payloads) into a grid of cells.
package termtest

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// wideTail marks the second cell covered by a double-width rune.
const wideTail = "\x00"

// Image is an inline graphics payload seen by the screen.
type Image struct {
	Kind string // "kitty", "iterm" or "sixel"
	Row  int
	Col  int
	Data string
}

// Screen is an io.Writer that keeps a rows x cols cell grid up to date.
type Screen struct {
	rows, cols int
	cells      [][]string
	row, col   int
	savedRow   int
	savedCol   int

	// AltScreen reports whether the alternate screen is active.
	AltScreen bool
	// AltEnters counts switches into the alternate screen.
	AltEnters int
	// Clears counts full-screen erase sequences.
	Clears int
	// Scrolls counts lines scrolled off the top.
	Scrolls int
	// Images lists graphics payloads in the order they were written.
	Images []Image

	pending []byte
	raw     bytes.Buffer
}

// NewScreen returns a blank screen with the cursor at 1,1.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{}
	s.Resize(rows, cols)
	return s
}

// Resize discards the content and sets new dimensions.
func (s *Screen) Resize(rows, cols int) {
	s.rows, s.cols = rows, cols
	s.cells = make([][]string, rows)
	for i := range s.cells {
		s.cells[i] = make([]string, cols)
	}
	s.row, s.col = 1, 1
}

// Rows returns the screen height.
func (s *Screen) Rows() int { return s.rows }

// Cols returns the screen width.
func (s *Screen) Cols() int { return s.cols }

// Raw returns every byte written so far.
func (s *Screen) Raw() string { return s.raw.String() }

// Cursor returns the 1-based cursor position.
func (s *Screen) Cursor() (row, col int) { return s.row, s.col }

// Cell returns the content of a 1-based cell, " " when blank.
func (s *Screen) Cell(row, col int) string {
	if row < 1 || row > s.rows || col < 1 || col > s.cols {
		return ""
	}
	c := s.cells[row-1][col-1]
	if c == "" {
		return " "
	}
	return c
}

// Line returns a 1-based row with trailing blanks removed.
func (s *Screen) Line(row int) string {
	if row < 1 || row > s.rows {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[row-1] {
		switch c {
		case "":
			b.WriteByte(' ')
		case wideTail:
		default:
			b.WriteString(c)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Text returns all rows joined by newlines.
func (s *Screen) Text() string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.Line(i + 1)
	}
	return strings.Join(lines, "\n")
}

// Contains reports whether any row contains substr.
func (s *Screen) Contains(substr string) bool {
	for i := 1; i <= s.rows; i++ {
		if strings.Contains(s.Line(i), substr) {
			return true
		}
	}
	return false
}

// Write interprets p. Sequences split across writes are completed by later
// writes.
func (s *Screen) Write(p []byte) (int, error) {
	s.raw.Write(p)
	s.pending = append(s.pending, p...)
	n := s.parse(s.pending)
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return len(p), nil
}

// parse consumes complete tokens from data and returns how many bytes it used.
func (s *Screen) parse(data []byte) int {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b:
			n := s.escape(data[i:])
			if n == 0 {
				return i
			}
			i += n
		case b == '\r':
			s.col = 1
			i++
		case b == '\n':
			s.lineFeed()
			i++
		case b == '\b':
			if s.col > 1 {
				s.col--
			}
			i++
		case b < 0x20 || b == 0x7f:
			i++
		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			r, size := utf8.DecodeRune(data[i:])
			s.put(r)
			i += size
		}
	}
	return i
}

// escape handles one escape sequence at the start of data. It returns 0 when
// the sequence is incomplete.
func (s *Screen) escape(data []byte) int {
	if len(data) < 2 {
		return 0
	}
	switch data[1] {
	case '[':
		for j := 2; j < len(data); j++ {
			if data[j] >= 0x40 && data[j] <= 0x7e {
				s.csi(string(data[2:j]), data[j])
				return j + 1
			}
		}
		return 0
	case ']':
		for j := 2; j < len(data); j++ {
			if data[j] == 0x07 {
				s.osc(string(data[2:j]))
				return j + 1
			}
			if data[j] == 0x1b && j+1 < len(data) && data[j+1] == '\\' {
				s.osc(string(data[2:j]))
				return j + 2
			}
		}
		return 0
	case '_', 'P':
		end := bytes.Index(data[2:], []byte("\x1b\\"))
		if end < 0 {
			return 0
		}
		payload := string(data[2 : 2+end])
		if data[1] == '_' {
			if strings.HasPrefix(payload, "G") && !strings.HasPrefix(payload, "Ga=d") {
				s.Images = append(s.Images, Image{Kind: "kitty", Row: s.row, Col: s.col, Data: payload})
			}
		} else {
			s.Images = append(s.Images, Image{Kind: "sixel", Row: s.row, Col: s.col, Data: payload})
		}
		return 2 + end + 2
	default:
		return 2
	}
}

func (s *Screen) osc(payload string) {
	if strings.HasPrefix(payload, "1337;") {
		s.Images = append(s.Images, Image{Kind: "iterm", Row: s.row, Col: s.col, Data: payload})
	}
}

func (s *Screen) csi(params string, final byte) {
	private := strings.HasPrefix(params, "?")
	args := parseParams(strings.TrimPrefix(params, "?"))

	switch final {
	case 'H', 'f':
		s.row = clamp(arg(args, 0, 1), 1, s.rows)
		s.col = clamp(arg(args, 1, 1), 1, s.cols)
	case 'A':
		s.row = clamp(s.row-arg(args, 0, 1), 1, s.rows)
	case 'B':
		s.row = clamp(s.row+arg(args, 0, 1), 1, s.rows)
	case 'C':
		s.col = clamp(s.col+arg(args, 0, 1), 1, s.cols)
	case 'D':
		s.col = clamp(s.col-arg(args, 0, 1), 1, s.cols)
	case 'J':
		if arg(args, 0, 0) == 2 {
			s.erase()
			s.Clears++
		}
	case 'h', 'l':
		if private && arg(args, 0, 0) == 1049 {
			s.AltScreen = final == 'h'
			if s.AltScreen {
				s.AltEnters++
			}
		}
	case 's':
		s.savedRow, s.savedCol = s.row, s.col
	case 'u':
		if s.savedRow > 0 {
			s.row, s.col = s.savedRow, s.savedCol
		}
	}
}

func (s *Screen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.col > s.cols {
		s.col = 1
		s.lineFeed()
	}
	if s.rows == 0 || s.cols == 0 {
		return
	}
	s.cells[s.row-1][s.col-1] = string(r)
	if w == 2 && s.col < s.cols {
		s.cells[s.row-1][s.col] = wideTail
	}
	s.col += w
}

func (s *Screen) lineFeed() {
	if s.row < s.rows {
		s.row++
		return
	}
	copy(s.cells, s.cells[1:])
	s.cells[s.rows-1] = make([]string, s.cols)
	s.Scrolls++
}

func (s *Screen) erase() {
	for _, row := range s.cells {
		clear(row)
	}
}

func parseParams(params string) []int {
	if params == "" {
		return nil
	}
	parts := strings.Split(params, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

func arg(args []int, i, def int) int {
	if i >= len(args) || args[i] == 0 {
		return def
	}
	return args[i]
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
