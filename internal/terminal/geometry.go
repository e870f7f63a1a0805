package terminal

import "fmt"

// Geometry is the terminal size in character cells.
type Geometry struct {
	Rows int
	Cols int
}

// DefaultGeometry is used when the window size cannot be queried.
var DefaultGeometry = Geometry{Rows: 24, Cols: 80}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Cols, g.Rows)
}

// Empty reports whether the geometry has no drawable cells.
func (g Geometry) Empty() bool {
	return g.Rows <= 0 || g.Cols <= 0
}
