// Package image1bit provides a 1-bit image format matching the KS0108 display RAM.
//
// Each byte holds 8 vertically stacked pixels (LSB is the topmost row) and the
// byte plane is split between the two segment controller chips: the first half
// of Pix belongs to chip 1 (the left half of the screen), the second half to
// chip 2. Within a chip the bytes are page-major.
// This package provides the Bit color type and the SplitVerticalLSB image
// implementation.
package image1bit

import (
	"image"
	"image/color"
)

// Bit is a binary pixel value.
type Bit bool

// Possible bit values.
const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA. On maps to white, Off to black.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit, thresholding at 50% luminance.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, bl, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B
	y := (299*r + 587*g + 114*bl + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// SplitVerticalLSB is a 1-bit image whose memory layout matches the display
// RAM of a dual-chip KS0108 module. Bit b of a byte is the pixel at row
// page*8+b of the byte's column; chip 1 occupies the first half of Pix,
// chip 2 the second half.
type SplitVerticalLSB struct {
	Pix  []byte          // Pixel data (8 vertical pixels per byte)
	Rect image.Rectangle // Image bounds
}

// NewSplitVerticalLSB creates a new SplitVerticalLSB image with the specified
// bounds. The width must be even (two chips of equal size) and the height a
// multiple of 8 (whole pages).
func NewSplitVerticalLSB(r image.Rectangle) *SplitVerticalLSB {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &SplitVerticalLSB{Rect: r}
	}
	if w%2 != 0 {
		panic("image1bit: width must be even")
	}
	if h%8 != 0 {
		panic("image1bit: height must be a multiple of 8")
	}

	return &SplitVerticalLSB{
		Pix:  make([]byte, w*h/8),
		Rect: r,
	}
}

// ColorModel returns the color model of the image.
func (p *SplitVerticalLSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *SplitVerticalLSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *SplitVerticalLSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit value of the pixel at (x, y).
func (p *SplitVerticalLSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, bit := p.PixOffset(x, y)
	return Bit(p.Pix[offset]&(1<<bit) != 0)
}

// Set sets the color of the pixel at (x, y).
func (p *SplitVerticalLSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit value of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *SplitVerticalLSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, bit := p.PixOffset(x, y)
	if b {
		p.Pix[offset] |= 1 << bit
	} else {
		p.Pix[offset] &^= 1 << bit
	}
}

// PixOffset returns the byte offset and bit number for the pixel at (x, y).
//
// Memory layout: the chip covering x contributes a base offset of zero
// (chip 1, left half) or half the buffer (chip 2, right half); within a chip,
// offset = page*columns + column with page = y/8, and the bit number is y%8.
func (p *SplitVerticalLSB) PixOffset(x, y int) (offset int, bit uint) {
	x -= p.Rect.Min.X
	y -= p.Rect.Min.Y
	half := p.Rect.Dx() / 2
	chipSize := half * p.Rect.Dy() / 8

	offset = (y/8)*half + x%half
	if x >= half {
		offset += chipSize
	}
	bit = uint(y % 8)
	return
}
