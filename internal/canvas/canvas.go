// Package canvas converts a decoded image into the escape sequences that draw
// it inside a box of terminal cells.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/nfnt/resize"

	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/pixel"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// Default cell size in pixels when the terminal does not report one.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

var (
	// ErrUnsupported is returned for a pixel mode the canvas cannot encode.
	ErrUnsupported = errors.New("unsupported pixel mode")
	// ErrNoImage is returned when there is nothing to draw.
	ErrNoImage = errors.New("no image to draw")
)

// ColorMode is the colour depth used by the text fallback.
type ColorMode int

const (
	TrueColor ColorMode = iota
	Color256
)

// ColorModeFromEnv reports TrueColor when COLORTERM advertises 24-bit colour.
func ColorModeFromEnv() ColorMode {
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return TrueColor
	default:
		return Color256
	}
}

// Canvas renders images for a terminal with a known cell size.
type Canvas struct {
	cellW  int
	cellH  int
	colors ColorMode
}

// New returns a Canvas. Non-positive cell sizes fall back to 8x16.
func New(cellW, cellH int, colors ColorMode) *Canvas {
	if cellW <= 0 || cellH <= 0 {
		cellW, cellH = DefaultCellWidth, DefaultCellHeight
	}
	return &Canvas{cellW: cellW, cellH: cellH, colors: colors}
}

// layout is where a fitted image lands inside the target box.
type layout struct {
	cols, rows int // cells covered by the image
	pxW, pxH   int // pixel size to encode
	offX, offY int // cells between the box origin and the image
}

// fit scales a w x h image to the largest size that fits in cols x rows cells
// while keeping its aspect ratio, and centers it in the box.
func (c *Canvas) fit(w, h, cols, rows int) layout {
	boxW, boxH := cols*c.cellW, rows*c.cellH
	scale := math.Min(float64(boxW)/float64(w), float64(boxH)/float64(h))

	l := layout{
		pxW: min(max(int(math.Round(float64(w)*scale)), 1), boxW),
		pxH: min(max(int(math.Round(float64(h)*scale)), 1), boxH),
	}
	l.cols = min(max(ceilDiv(l.pxW, c.cellW), 1), cols)
	l.rows = min(max(ceilDiv(l.pxH, c.cellH), 1), rows)
	l.offX = (cols - l.cols) / 2
	l.offY = (rows - l.rows) / 2
	return l
}

// Render returns the bytes that draw img scaled into cols x rows cells using
// mode. The output assumes the cursor sits at the top-left cell of the box;
// relative moves at its start center the image.
func (c *Canvas) Render(img *decoder.Image, cols, rows int, mode pixel.Mode) ([]byte, error) {
	if img.Released() || img.Width <= 0 || img.Height <= 0 {
		return nil, ErrNoImage
	}
	if cols <= 0 || rows <= 0 {
		return nil, nil
	}

	l := c.fit(img.Width, img.Height, cols, rows)
	src := img.NRGBA()

	var (
		body []byte
		err  error
	)
	switch mode {
	case pixel.Kitty:
		body, err = encodeKitty(scale(src, l.pxW, l.pxH), l)
	case pixel.ITerm:
		body, err = encodeITerm(scale(src, l.pxW, l.pxH), l)
	case pixel.Sixel:
		body, err = encodeSixel(scale(src, l.pxW, l.pxH))
	case pixel.None:
		body = encodeSymbols(scale(src, l.cols, l.rows*2), l, c.colors)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, mode)
	}
	if err != nil {
		return nil, err
	}

	var prefix string
	if mode == pixel.Kitty {
		prefix = kittyDeleteAll
	}
	prefix += terminal.CursorDown(l.offY) + terminal.CursorForward(l.offX)

	out := make([]byte, 0, len(prefix)+len(body))
	out = append(out, prefix...)
	out = append(out, body...)
	return out, nil
}

// Erase returns the sequence that removes images drawn in mode from the
// screen. Only Kitty keeps images outside the cell grid, so other modes need
// nothing beyond a normal clear.
func Erase(mode pixel.Mode) string {
	if mode == pixel.Kitty {
		return kittyDeleteAll
	}
	return ""
}

// scale resizes src to w x h pixels.
func scale(src *image.NRGBA, w, h int) image.Image {
	if src.Rect.Dx() == w && src.Rect.Dy() == h {
		return src
	}
	return resize.Resize(uint(w), uint(h), src, resize.Lanczos3) //nolint:gosec // sizes are positive
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
