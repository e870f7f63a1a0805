// Package decoder turns entry bytes into a non-premultiplied RGBA8 pixel
// buffer.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF support
	_ "image/jpeg" // JPEG support
	_ "image/png"  // PNG support

	_ "golang.org/x/image/bmp" // BMP support
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF support
	_ "golang.org/x/image/webp" // WebP support
)

// MIMETypes lists the content types Decode understands, matching the
// registered formats.
var MIMETypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
}

// DefaultMaxPixels bounds the pixel buffer a single entry may allocate.
const DefaultMaxPixels = 1 << 26

var (
	// ErrNotImage means the bytes are not in a supported image format.
	ErrNotImage = errors.New("not an image")
	// ErrTooLarge means the image header declares more pixels than allowed.
	ErrTooLarge = errors.New("image too large")
)

// Image is a decoded picture: Height rows of Stride bytes, four bytes (R, G,
// B, A) per pixel, alpha not premultiplied.
type Image struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
	Format string
}

// NRGBA returns a view over the pixel buffer. The view shares memory with img.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: img.Stride,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Release drops the pixel buffer. The Image must not be drawn afterwards.
func (img *Image) Release() {
	if img == nil {
		return
	}
	img.Pix = nil
	img.Width, img.Height, img.Stride = 0, 0, 0
}

// Released reports whether Release has been called.
func (img *Image) Released() bool {
	return img == nil || img.Pix == nil
}

// Decoder decodes entries. The zero value uses DefaultMaxPixels.
type Decoder struct {
	MaxPixels int
}

// Decode parses data. The header is checked against the pixel limit before
// any pixel memory is allocated.
func (d Decoder) Decode(data []byte) (*Image, error) {
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrNotImage, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return nil, fmt.Errorf("%w: %dx%d %s", ErrTooLarge, cfg.Width, cfg.Height, format)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}

	nrgba := toNRGBA(src)
	return &Image{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Stride: nrgba.Stride,
		Pix:    nrgba.Pix,
		Format: format,
	}, nil
}

// toNRGBA returns src as an NRGBA image anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
