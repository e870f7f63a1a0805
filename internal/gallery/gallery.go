// Package gallery holds the image collection and the state machine that
// decides, once per loop iteration, what the window shows.
package gallery

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/errmsg"
	"github.com/llehouerou/hisoka/internal/keymap"
	"github.com/llehouerou/hisoka/internal/pixel"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// EmptyTitle is the window title shown when there are no entries.
const EmptyTitle = "gallery"

// Decoder turns entry bytes into pixels.
type Decoder interface {
	Decode(data []byte) (*decoder.Image, error)
}

// Chrome draws the window frame and messages.
type Chrome interface {
	Clear(g terminal.Geometry)
	Border(g terminal.Geometry, title string, pos, total int)
	Message(g terminal.Geometry, text string)
}

// Compositor draws a decoded image inside the window.
type Compositor interface {
	PlaceAndDraw(g terminal.Geometry, mode pixel.Mode, img *decoder.Image) error
	Erase(mode pixel.Mode)
}

// Deps are the collaborators a Gallery draws with.
type Deps struct {
	Decoder    Decoder
	Chrome     Chrome
	Compositor Compositor
	Mode       pixel.Mode
	Log        *logrus.Entry
}

// Gallery is the navigation state machine. It owns at most one decoded image
// at a time and releases it before taking the next.
type Gallery struct {
	items Collection
	deps  Deps
	log   *logrus.Entry

	state   ViewerState
	phase   Phase
	current *decoder.Image
	drawnAt terminal.Geometry
}

// New returns a running Gallery positioned on the first entry.
func New(items Collection, deps Deps) *Gallery {
	log := deps.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Gallery{
		items: items,
		deps:  deps,
		log:   log.WithField("component", "gallery"),
		state: ViewerState{
			Current:  0,
			Previous: items.Len(),
			Running:  true,
		},
	}
}

// Running reports whether the loop should keep going.
func (g *Gallery) Running() bool { return g.state.Running }

// Index returns the 0-based index of the selected entry.
func (g *Gallery) Index() int { return g.state.Current }

// Phase returns the current display state.
func (g *Gallery) Phase() Phase { return g.phase }

// State returns a copy of the navigation state.
func (g *Gallery) State() ViewerState { return g.state }

// Current returns the held decoded image, or nil.
func (g *Gallery) Current() *decoder.Image { return g.current }

// Step brings the screen up to date for geometry geom. It decodes only when
// the selection changed since the last Step, and redraws without decoding
// when only the geometry changed. Decode failures are shown in place; only
// decoder.ErrTooLarge is returned.
func (g *Gallery) Step(geom terminal.Geometry) error {
	if !g.state.Running {
		return nil
	}

	if g.items.Len() == 0 {
		if !g.state.EmptyDrawn || geom != g.drawnAt {
			g.drawEmpty(geom)
		}
		return nil
	}

	if g.state.Current != g.state.Previous {
		return g.show(geom)
	}
	if geom != g.drawnAt {
		g.log.WithField("geometry", geom.String()).Debug("geometry changed, redrawing")
		g.redraw(geom)
	}
	return nil
}

// Apply performs a keyboard action.
func (g *Gallery) Apply(action keymap.Action) {
	if !g.state.Running {
		return
	}
	if action == keymap.ActionQuit {
		g.state.Running = false
		g.setPhase(PhaseQuit)
		return
	}

	n := g.items.Len()
	if n == 0 {
		return
	}
	switch action {
	case keymap.ActionPrev:
		g.state.Current = (g.state.Current - 1 + n) % n
	case keymap.ActionNext:
		g.state.Current = (g.state.Current + 1) % n
	default:
		return
	}
	g.log.WithFields(logrus.Fields{"action": action, "index": g.state.Current}).Debug("selection changed")
}

// Release drops the held image. Call it once the loop has ended.
func (g *Gallery) Release() {
	g.current.Release()
	g.current = nil
}

func (g *Gallery) drawEmpty(geom terminal.Geometry) {
	g.deps.Compositor.Erase(g.deps.Mode)
	g.deps.Chrome.Clear(geom)
	g.deps.Chrome.Border(geom, EmptyTitle, 0, 0)
	g.deps.Chrome.Message(geom, errmsg.EmptyList)
	g.state.EmptyDrawn = true
	g.drawnAt = geom
	g.setPhase(PhaseEmpty)
}

// show decodes the selected entry and draws it, or the error that replaced it.
func (g *Gallery) show(geom terminal.Geometry) error {
	entry := g.items.At(g.state.Current)
	img, err := g.deps.Decoder.Decode(entry.Data)

	// The old image goes first whether or not decoding worked.
	g.Release()
	g.state.Previous = g.state.Current

	if err != nil {
		if errors.Is(err, decoder.ErrTooLarge) {
			return fmt.Errorf("decode %q: %w", entry.Name, err)
		}
		g.log.WithError(err).WithField("entry", entry.Name).Warn("entry is not a decodable image")
		g.setPhase(PhaseImageError)
	} else {
		g.current = img
		g.log.WithFields(logrus.Fields{
			"entry":  entry.Name,
			"width":  img.Width,
			"height": img.Height,
		}).Debug("decoded entry")
		g.setPhase(PhaseDisplaying)
	}

	g.redraw(geom)
	return nil
}

// redraw repaints the selected entry from the held state.
func (g *Gallery) redraw(geom terminal.Geometry) {
	entry := g.items.At(g.state.Current)

	g.deps.Compositor.Erase(g.deps.Mode)
	g.deps.Chrome.Clear(geom)
	g.deps.Chrome.Border(geom, entry.Name, g.state.Current, g.items.Len())
	g.drawnAt = geom

	if g.phase == PhaseImageError || g.current == nil {
		g.deps.Chrome.Message(geom, errmsg.NotAnImage)
		return
	}

	if err := g.deps.Compositor.PlaceAndDraw(geom, g.deps.Mode, g.current); err != nil {
		g.log.WithError(err).WithField("entry", entry.Name).Warn("render failed")
		g.deps.Chrome.Message(geom, errmsg.Format(errmsg.OpRenderImage, err))
	}
}

func (g *Gallery) setPhase(p Phase) {
	if g.phase != p {
		g.log.WithFields(logrus.Fields{"from": g.phase, "to": p}).Debug("phase change")
	}
	g.phase = p
}
