//go:build unix

package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// QuerySize returns the window size of the terminal behind fd.
func QuerySize(fd int) (Geometry, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Geometry{}, fmt.Errorf("query window size: %w", err)
	}
	if ws.Row == 0 || ws.Col == 0 {
		return Geometry{}, fmt.Errorf("query window size: terminal reports %dx%d", ws.Col, ws.Row)
	}
	return Geometry{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}

// CellSize returns the pixel dimensions of one character cell, falling back
// to 8x16 when the terminal does not report its pixel size.
func CellSize(fd int) (width, height int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 8, 16
	}
	return int(ws.Xpixel) / int(ws.Col), int(ws.Ypixel) / int(ws.Row)
}
