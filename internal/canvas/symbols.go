package canvas

import (
	"bytes"
	"image"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/llehouerou/hisoka/internal/terminal"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel as
// background, giving two pixels per cell.
const upperHalf = "▀"

const sgrReset = "\x1b[0m"

// encodeSymbols draws img, which must be l.cols x 2*l.rows pixels, as
// half-block cells. Rows are joined with relative cursor moves so the block
// keeps its left edge wherever it starts.
func encodeSymbols(img image.Image, l layout, colors ColorMode) []byte {
	var (
		b      bytes.Buffer
		pal    *palette
		bounds = img.Bounds()
	)
	if colors == Color256 {
		pal = newPalette()
	}

	for row := range l.rows {
		if row > 0 {
			b.WriteString(terminal.CursorDown(1))
			b.WriteString(terminal.CursorBack(l.cols))
		}
		var last string
		for col := range l.cols {
			x := bounds.Min.X + col
			top := flatten(img.At(x, bounds.Min.Y+2*row))
			bottom := flatten(img.At(x, bounds.Min.Y+2*row+1))

			var sgr string
			if pal != nil {
				sgr = "\x1b[38;5;" + strconv.Itoa(int(pal.nearest(top))) +
					";48;5;" + strconv.Itoa(int(pal.nearest(bottom))) + "m"
			} else {
				sgr = "\x1b[38;2;" + rgb(top) + ";48;2;" + rgb(bottom) + "m"
			}
			if sgr != last {
				b.WriteString(sgr)
				last = sgr
			}
			b.WriteString(upperHalf)
		}
		b.WriteString(sgrReset)
	}
	return b.Bytes()
}

// flatten composites c over black.
func flatten(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := uint32(n.A)
	return color.RGBA{
		R: uint8(uint32(n.R) * a / 255), //nolint:gosec // bounded by 255
		G: uint8(uint32(n.G) * a / 255), //nolint:gosec // bounded by 255
		B: uint8(uint32(n.B) * a / 255), //nolint:gosec // bounded by 255
		A: 255,
	}
}

func rgb(c color.RGBA) string {
	return strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
}

// cubeLevels are the channel values of the xterm 6x6x6 colour cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// palette matches colours against xterm entries 16-255. The first sixteen
// are left out because terminals theme them freely.
type palette struct {
	lab   [240][3]float64
	cache map[color.RGBA]uint8
}

func newPalette() *palette {
	p := &palette{cache: make(map[color.RGBA]uint8)}
	for i := range p.lab {
		l, a, b := xterm256(16 + i).Lab()
		p.lab[i] = [3]float64{l, a, b}
	}
	return p
}

// xterm256 returns the colour of palette index i, 16 <= i <= 255.
func xterm256(i int) colorful.Color {
	if i >= 232 {
		v := float64(8+10*(i-232)) / 255
		return colorful.Color{R: v, G: v, B: v}
	}
	i -= 16
	return colorful.Color{
		R: float64(cubeLevels[i/36]) / 255,
		G: float64(cubeLevels[(i/6)%6]) / 255,
		B: float64(cubeLevels[i%6]) / 255,
	}
}

// nearest returns the palette index closest to c in Lab space.
func (p *palette) nearest(c color.RGBA) uint8 {
	if idx, ok := p.cache[c]; ok {
		return idx
	}
	cl, ca, cb := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Lab()

	best, bestDist := 0, -1.0
	for i, lab := range p.lab {
		dl, da, db := cl-lab[0], ca-lab[1], cb-lab[2]
		if d := dl*dl + da*da + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	idx := uint8(16 + best) //nolint:gosec // best < 240
	p.cache[c] = idx
	return idx
}
