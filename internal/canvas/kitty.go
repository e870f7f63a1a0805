package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// Kitty graphics protocol framing.
const (
	kittyStart = "\x1b_G"
	kittyEnd   = "\x1b\\"

	// kittyDeleteAll removes every visible placement (a=d, d=A).
	kittyDeleteAll = kittyStart + "a=d,d=A,q=2;" + kittyEnd

	kittyChunkSize = 4096
)

// encodeKitty transmits img as PNG and displays it at the cursor over the
// layout's cells (a=T). Payloads are split into 4096 byte chunks.
func encodeKitty(img image.Image, l layout) ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(pngBuf.Bytes())

	var b bytes.Buffer
	b.Grow(len(encoded) + (len(encoded)/kittyChunkSize+1)*32)

	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		b.WriteString(kittyStart)
		if i == 0 {
			fmt.Fprintf(&b, "a=T,f=100,c=%d,r=%d,q=2,m=%d;", l.cols, l.rows, more)
		} else {
			fmt.Fprintf(&b, "m=%d;", more)
		}
		b.WriteString(encoded[i:end])
		b.WriteString(kittyEnd)
	}
	return b.Bytes(), nil
}
