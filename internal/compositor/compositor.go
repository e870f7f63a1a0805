// Package compositor places a decoded image inside the gallery window and
// writes the encoded result to the terminal.
package compositor

import (
	"fmt"

	"github.com/llehouerou/hisoka/internal/canvas"
	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/pixel"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// FillFactor is the share of the window the image box may use in each
// direction. The rest is margin around the border.
const FillFactor = 0.93

// Renderer encodes an image for a box of cells. *canvas.Canvas implements it.
type Renderer interface {
	Render(img *decoder.Image, cols, rows int, mode pixel.Mode) ([]byte, error)
}

// Placement is the image box: a 1-based top-left cell and a size in cells.
type Placement struct {
	Row  int
	Col  int
	Cols int
	Rows int
}

// Empty reports whether the box has no cells.
func (p Placement) Empty() bool {
	return p.Cols <= 0 || p.Rows <= 0
}

// Place computes the image box for g: FillFactor of each dimension, centered.
func Place(g terminal.Geometry) Placement {
	cols := int(float64(g.Cols) * FillFactor)
	rows := int(float64(g.Rows) * FillFactor)
	return Placement{
		Row:  (g.Rows-rows)/2 + 1,
		Col:  (g.Cols-cols)/2 + 1,
		Cols: cols,
		Rows: rows,
	}
}

// Compositor draws images through a terminal.Writer.
type Compositor struct {
	w terminal.Writer
	r Renderer
}

// New returns a Compositor writing to w and encoding with r.
func New(w terminal.Writer, r Renderer) *Compositor {
	return &Compositor{w: w, r: r}
}

// PlaceAndDraw encodes img for the box Place computes and writes it at the
// box origin. The encoded bytes are not kept after the write.
func (c *Compositor) PlaceAndDraw(g terminal.Geometry, mode pixel.Mode, img *decoder.Image) error {
	p := Place(g)
	if p.Empty() {
		return nil
	}

	blob, err := c.r.Render(img, p.Cols, p.Rows, mode)
	if err != nil {
		return fmt.Errorf("render %s image: %w", mode, err)
	}
	if len(blob) == 0 {
		return nil
	}

	c.w.MoveTo(p.Row, p.Col)
	_, err = c.w.Write(blob)
	return err
}

// Erase removes images that live outside the cell grid, so a following clear
// leaves nothing behind.
func (c *Compositor) Erase(mode pixel.Mode) {
	if seq := canvas.Erase(mode); seq != "" {
		c.w.Control(seq)
	}
}
