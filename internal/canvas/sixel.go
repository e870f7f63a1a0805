package canvas

import (
	"bytes"
	"fmt"
	"image"

	"github.com/mattn/go-sixel"
)

// encodeSixel encodes img, already scaled to its on-screen pixel size.
func encodeSixel(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = true

	if err := enc.Encode(img); err != nil {
		return nil, fmt.Errorf("encode sixel: %w", err)
	}
	return buf.Bytes(), nil
}
