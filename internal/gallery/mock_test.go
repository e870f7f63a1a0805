package gallery

import (
	"errors"
	"fmt"

	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/pixel"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// fakeDecoder decodes any data starting with "img" into a 1x1 image.
type fakeDecoder struct {
	calls  []string
	issued []*decoder.Image
	err    error // returned for every call when set
}

func (d *fakeDecoder) Decode(data []byte) (*decoder.Image, error) {
	d.calls = append(d.calls, string(data))
	if d.err != nil {
		return nil, d.err
	}
	if len(data) < 3 || string(data[:3]) != "img" {
		return nil, fmt.Errorf("%w: bad magic", decoder.ErrNotImage)
	}
	img := &decoder.Image{Width: 1, Height: 1, Stride: 4, Pix: []byte{1, 2, 3, 255}}
	d.issued = append(d.issued, img)
	return img, nil
}

// fakeChrome records draw calls as readable strings.
type fakeChrome struct {
	calls []string
}

func (c *fakeChrome) Clear(g terminal.Geometry) {
	c.calls = append(c.calls, "clear "+g.String())
}

func (c *fakeChrome) Border(_ terminal.Geometry, title string, pos, total int) {
	c.calls = append(c.calls, fmt.Sprintf("border %s %d/%d", title, pos, total))
}

func (c *fakeChrome) Message(_ terminal.Geometry, text string) {
	c.calls = append(c.calls, "message "+text)
}

func (c *fakeChrome) reset() { c.calls = nil }

func (c *fakeChrome) count(prefix string) int {
	n := 0
	for _, call := range c.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// fakeCompositor records draws and can fail them.
type fakeCompositor struct {
	draws  []*decoder.Image
	erases int
	err    error
}

func (c *fakeCompositor) PlaceAndDraw(_ terminal.Geometry, _ pixel.Mode, img *decoder.Image) error {
	if img.Released() {
		return errors.New("drawing a released image")
	}
	c.draws = append(c.draws, img)
	return c.err
}

func (c *fakeCompositor) Erase(pixel.Mode) {
	c.erases++
}

type fixture struct {
	g    *Gallery
	dec  *fakeDecoder
	ch   *fakeChrome
	comp *fakeCompositor
}

func newFixture(entries ...Entry) *fixture {
	f := &fixture{
		dec:  &fakeDecoder{},
		ch:   &fakeChrome{},
		comp: &fakeCompositor{},
	}
	f.g = New(NewCollection(entries), Deps{
		Decoder:    f.dec,
		Chrome:     f.ch,
		Compositor: f.comp,
		Mode:       pixel.Kitty,
	})
	return f
}
