// Package chrome draws the window frame around the gallery: the border, the
// title on the top edge, the page indicator on the bottom edge and centered
// status messages.
package chrome

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/llehouerou/hisoka/internal/render"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// Box drawing glyphs.
const (
	TopLeft     = "┌"
	TopRight    = "┐"
	BottomLeft  = "└"
	BottomRight = "┘"
	Horizontal  = "─"
	Vertical    = "│"
)

// titleColumn is the 1-based column where the title starts.
const titleColumn = 3

// Renderer draws chrome through a terminal.Writer. It keeps no state between
// calls; every method draws against the geometry it is given.
type Renderer struct {
	w     terminal.Writer
	theme Theme
}

// New returns a Renderer drawing to w.
func New(w terminal.Writer, theme Theme) *Renderer {
	return &Renderer{w: w, theme: theme}
}

// drawable reports whether g is large enough to hold a frame.
func drawable(g terminal.Geometry) bool {
	return g.Rows >= 2 && g.Cols >= 2
}

// Clear blanks every cell of the viewport and homes the cursor.
func (r *Renderer) Clear(g terminal.Geometry) {
	r.w.Control(terminal.ClearScreen)
	if g.Cols > 0 {
		blank := strings.Repeat(" ", g.Cols)
		for row := 1; row <= g.Rows; row++ {
			r.w.MoveTo(row, 1)
			r.w.Text(blank)
		}
	}
	r.w.MoveTo(1, 1)
}

// Border draws the frame with title on the top edge and the 1-based page
// indicator for the 0-based pos on the bottom edge.
func (r *Renderer) Border(g terminal.Geometry, title string, pos, total int) {
	if !drawable(g) {
		return
	}

	r.w.MoveTo(1, 1)
	r.w.Text(r.topEdge(g.Cols, title))

	for row := 2; row < g.Rows; row++ {
		r.w.MoveTo(row, 1)
		r.w.Text(r.theme.paint(r.theme.Border, Vertical))
		r.w.MoveTo(row, g.Cols)
		r.w.Text(r.theme.paint(r.theme.Border, Vertical))
	}

	r.w.MoveTo(g.Rows, 1)
	r.w.Text(r.bottomEdge(g.Cols, Indicator(pos, total)))
}

// topEdge builds "┌─title───┐". The title runs from titleColumn up to the
// column before the right corner and is cut at a grapheme boundary.
func (r *Renderer) topEdge(cols int, title string) string {
	if cols < titleColumn {
		return r.theme.paint(r.theme.Border, TopLeft+strings.Repeat(Horizontal, cols-2)+TopRight)
	}

	room := cols - titleColumn
	fitted, used := fitGraphemes(render.Sanitize(title), room)

	var b strings.Builder
	b.WriteString(r.theme.paint(r.theme.Border, TopLeft+Horizontal))
	b.WriteString(r.theme.paint(r.theme.Title, fitted))
	b.WriteString(r.theme.paint(r.theme.Border, strings.Repeat(Horizontal, room-used)+TopRight))
	return b.String()
}

// bottomEdge builds "└───1/3┘", leaving the indicator out when it does not
// fit next to at least one rule glyph.
func (r *Renderer) bottomEdge(cols int, indicator string) string {
	if len(indicator) > cols-3 {
		indicator = ""
	}
	rule := BottomLeft + strings.Repeat(Horizontal, cols-2-len(indicator))
	return r.theme.paint(r.theme.Border, rule) +
		r.theme.paint(r.theme.Title, indicator) +
		r.theme.paint(r.theme.Border, BottomRight)
}

// Message writes text centered on the middle row. Text wider than the
// interior is truncated.
func (r *Renderer) Message(g terminal.Geometry, text string) {
	if !drawable(g) {
		return
	}
	inner := g.Cols - 2
	if inner < 1 {
		return
	}
	text = render.Sanitize(text)
	if render.Width(text) > inner {
		text = render.Truncate(text, inner)
	}

	w := render.Width(text)
	row := max(g.Rows/2, 1)
	col := max(g.Cols/2-w/2, 2)

	r.w.MoveTo(row, col)
	r.w.Text(r.theme.paint(r.theme.Message, text))
}

// Indicator formats the page indicator for the 0-based pos. An empty
// collection shows "0/0".
func Indicator(pos, total int) string {
	if total <= 0 {
		return "0/0"
	}
	return strconv.Itoa(pos+1) + "/" + strconv.Itoa(total)
}

// fitGraphemes returns the longest prefix of s, in whole grapheme clusters,
// that fits in width cells, along with the cells it occupies.
func fitGraphemes(s string, width int) (string, int) {
	used := 0
	end := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width {
			break
		}
		used += w
		_, end = gr.Positions()
	}
	return s[:end], used
}
