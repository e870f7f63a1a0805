// Package engine runs the viewer loop: query the window size, let the
// gallery draw, flush, then block for one key.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hisoka/internal/errmsg"
	"github.com/llehouerou/hisoka/internal/keymap"
	"github.com/llehouerou/hisoka/internal/terminal"
)

// ErrInterrupted is returned by Run when its context was cancelled while
// waiting for a key.
var ErrInterrupted = errors.New("interrupted")

// Terminal is the controlled terminal.
type Terminal interface {
	Start() error
	End() error
	Size() (terminal.Geometry, error)
	ReadKey(ctx context.Context) (byte, error)
	Flush() error
}

// Gallery is the state machine the loop drives.
type Gallery interface {
	Running() bool
	Step(geom terminal.Geometry) error
	Apply(action keymap.Action)
	Release()
}

// KeyResolver maps an input byte to an action.
type KeyResolver interface {
	Resolve(key byte) keymap.Action
}

// Engine owns the terminal for the duration of Run.
type Engine struct {
	term    Terminal
	gallery Gallery
	keys    KeyResolver
	log     *logrus.Entry

	sizeWarned bool
}

// New creates an engine. A nil log discards everything.
func New(term Terminal, g Gallery, keys KeyResolver, log *logrus.Entry) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Engine{term: term, gallery: g, keys: keys, log: log}
}

// Run starts the terminal session and loops until the gallery quits, input
// ends, ctx is cancelled or a fatal error occurs. The terminal is restored
// and the held image released on every path out, panics included; a panic
// is re-raised once the terminal is back to normal.
func (e *Engine) Run(ctx context.Context) (err error) {
	if err := e.term.Start(); err != nil {
		err = fmt.Errorf("%s: %w", errmsg.OpTerminalSetup, err)
		if endErr := e.term.End(); endErr != nil {
			err = errors.Join(err, fmt.Errorf("%s: %w", errmsg.OpTerminalRestore, endErr))
		}
		return err
	}
	e.log.Info("session started")

	defer func() {
		r := recover()
		e.gallery.Release()
		if endErr := e.term.End(); endErr != nil {
			err = errors.Join(err, fmt.Errorf("%s: %w", errmsg.OpTerminalRestore, endErr))
		}
		if r != nil {
			e.log.WithField("panic", r).Error("terminal restored after panic")
			panic(r)
		}
		entry := e.log
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Info("session ended")
	}()

	return e.loop(ctx)
}

func (e *Engine) loop(ctx context.Context) error {
	for {
		if err := e.gallery.Step(e.size()); err != nil {
			return err
		}
		if err := e.term.Flush(); err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpTerminalDraw, err)
		}
		if !e.gallery.Running() {
			return nil
		}

		key, err := e.term.ReadKey(ctx)
		switch {
		case err == nil:
			e.gallery.Apply(e.keys.Resolve(key))
		case errors.Is(err, io.EOF):
			e.log.Info("input closed, quitting")
			e.gallery.Apply(keymap.ActionQuit)
		case ctx.Err() != nil:
			return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
		default:
			return fmt.Errorf("read key: %w", err)
		}
	}
}

// size returns the current geometry, or the default one when the query
// fails. The fallback is logged once.
func (e *Engine) size() terminal.Geometry {
	g, err := e.term.Size()
	if err == nil && !g.Empty() {
		e.sizeWarned = false
		return g
	}
	if !e.sizeWarned {
		e.log.WithError(err).WithField("fallback", terminal.DefaultGeometry.String()).
			Warn("cannot query terminal size")
		e.sizeWarned = true
	}
	return terminal.DefaultGeometry
}
