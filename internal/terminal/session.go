//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Start when the input is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// pollTimeoutMs bounds how long ReadKey blocks before re-checking its context.
const pollTimeoutMs = 100

// Session owns the terminal between Start and End. The attributes captured by
// Start are the ones End puts back.
type Session struct {
	in  *os.File
	out *os.File
	w   *Output

	mu      sync.Mutex
	saved   *term.State
	started bool
	ended   bool
}

// NewSession creates a session reading keys from in and drawing to out.
func NewSession(in, out *os.File) *Session {
	return &Session{
		in:  in,
		out: out,
		w:   NewOutput(out),
	}
}

// Writer returns the buffered writer bound to the session output.
func (s *Session) Writer() Writer {
	return s.w
}

// Start snapshots the terminal attributes, turns off echo and line buffering
// and switches to the alternate screen. Signals stay enabled so Ctrl-C still
// reaches the process. On failure the attributes are put back before
// returning. Calling Start twice is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	saved, err := term.GetState(fd)
	if err != nil {
		return fmt.Errorf("snapshot terminal attributes: %w", err)
	}

	if err := enableRawInput(fd); err != nil {
		_ = term.Restore(fd, saved)
		return fmt.Errorf("set terminal attributes: %w", err)
	}

	s.w.Control(AltScreenEnter)
	if err := s.w.Flush(); err != nil {
		_ = term.Restore(fd, saved)
		return fmt.Errorf("enter alternate screen: %w", err)
	}

	s.saved = saved
	s.started = true
	return nil
}

// End leaves the alternate screen and restores the attributes captured by
// Start. It is safe to call more than once and before Start.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.ended {
		return nil
	}
	s.ended = true

	s.w.Control(AltScreenExit)
	var errs []error
	if err := s.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("leave alternate screen: %w", err))
	}
	if err := term.Restore(int(s.in.Fd()), s.saved); err != nil {
		errs = append(errs, fmt.Errorf("restore terminal attributes: %w", err))
	}
	return errors.Join(errs...)
}

// Size returns the current window size of the output terminal.
func (s *Session) Size() (Geometry, error) {
	return QuerySize(int(s.out.Fd()))
}

// Flush sends everything drawn since the previous Flush.
func (s *Session) Flush() error {
	return s.w.Flush()
}

// ReadKey blocks until one byte of input is available. The input is polled
// so a cancelled ctx is noticed within pollTimeoutMs; in that case ctx.Err()
// is returned. Closed input yields io.EOF.
func (s *Session) ReadKey(ctx context.Context) (byte, error) {
	fd := int(s.in.Fd())
	var buf [1]byte

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}} //nolint:gosec // fds fit in int32
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("poll input: %w", err)
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&unix.POLLIN == 0 && fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			return 0, io.EOF
		}

		rn, err := unix.Read(fd, buf[:])
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, fmt.Errorf("read input: %w", err)
		}
		if rn == 0 {
			return 0, io.EOF
		}
		return buf[0], nil
	}
}

// enableRawInput clears ECHO and ICANON so single keys arrive unbuffered.
// The change is applied after pending output drains and pending input is
// discarded.
func enableRawInput(fd int) error {
	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	t.Lflag &^= unix.ECHO | unix.ICANON
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, ioctlWriteTermiosFlush, t)
}
