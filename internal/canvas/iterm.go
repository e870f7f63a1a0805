package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// encodeITerm emits an OSC 1337 inline file sized in cells.
func encodeITerm(img image.Image, l layout) ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "\x1b]1337;File=inline=1;size=%d;width=%d;height=%d;preserveAspectRatio=1:",
		pngBuf.Len(), l.cols, l.rows)
	b.WriteString(base64.StdEncoding.EncodeToString(pngBuf.Bytes()))
	b.WriteByte('\a')
	return b.Bytes(), nil
}
