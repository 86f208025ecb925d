// Package display implements the 64x32 monochrome framebuffer and the
// XOR sprite compositor, along with the conversions a renderer needs.
package display

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
)

const (
	WIDTH  = 64 // Columns.
	HEIGHT = 32 // Rows.
)

// Framebuffer is a row-major grid of pixels; true is lit.
type Framebuffer [HEIGHT][WIDTH]bool

// Clear turns every pixel off.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Pixel returns the pixel at column x, row y.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb[y][x]
}

// Lit returns the number of lit pixels.
func (fb *Framebuffer) Lit() (count int) {
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				count++
			}
		}
	}
	return
}

// Draw XORs a sprite onto the framebuffer. Each byte of rows is one sprite
// row of 8 pixels, MSB leftmost. The anchor (x, y) is reduced modulo the
// screen size. Pixels past the edge wrap around when wrap is set and are
// dropped otherwise.
//
// Returns true if any lit pixel was turned off.
func (fb *Framebuffer) Draw(rows []byte, x, y int, wrap bool) (collision bool) {
	x %= WIDTH
	y %= HEIGHT

	for row, bits := range rows {
		py := y + row
		if py >= HEIGHT {
			if !wrap {
				break
			}
			py %= HEIGHT
		}
		for bit := range 8 {
			if bits&(0x80>>bit) == 0 {
				continue
			}
			px := x + bit
			if px >= WIDTH {
				if !wrap {
					break
				}
				px %= WIDTH
			}
			if fb[py][px] {
				collision = true
			}
			fb[py][px] = !fb[py][px]
		}
	}

	return
}

// String renders the framebuffer as text, '#' for lit and '.' for dark.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Blocks renders the framebuffer with half-block characters, two pixel rows
// per text line.
func (fb *Framebuffer) Blocks() string {
	var sb strings.Builder
	for y := 0; y < HEIGHT; y += 2 {
		for x := range WIDTH {
			top, bottom := fb[y][x], fb[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Palette is the two-colour palette used when rendering.
type Palette struct {
	Off color.Color
	On  color.Color
}

// DefaultPalette is white on black.
var DefaultPalette = Palette{
	Off: color.RGBA{0x00, 0x00, 0x00, 0xff},
	On:  color.RGBA{0xff, 0xff, 0xff, 0xff},
}

// Paletted returns the framebuffer as a 1:1 paletted image.
func (fb *Framebuffer) Paletted(pal Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, WIDTH, HEIGHT), color.Palette{pal.Off, pal.On})
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

// Image returns the framebuffer scaled so each pixel is a scale x scale block.
func (fb *Framebuffer) Image(pal Palette, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := fb.Paletted(pal)
	dst := image.NewRGBA(image.Rect(0, 0, WIDTH*scale, HEIGHT*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG encodes the scaled framebuffer as a PNG.
func (fb *Framebuffer) WritePNG(w io.Writer, pal Palette, scale int) error {
	return png.Encode(w, fb.Image(pal, scale))
}
