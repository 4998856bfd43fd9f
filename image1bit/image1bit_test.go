package image1bit

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestBitRGBA(t *testing.T) {
	tests := []struct {
		name string
		bit  Bit
		want uint32
	}{
		{"off", Off, 0x0000},
		{"on", On, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.bit.RGBA()
			if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)",
					r, g, b, a, tt.want, tt.want, tt.want, uint32(0xFFFF))
			}
		})
	}
}

func TestBitString(t *testing.T) {
	if On.String() != "On" {
		t.Errorf("On.String() = %q, want %q", On.String(), "On")
	}
	if Off.String() != "Off" {
		t.Errorf("Off.String() = %q, want %q", Off.String(), "Off")
	}
}

func TestBitModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Bit
	}{
		{"bit passthrough on", On, On},
		{"bit passthrough off", Off, Off},
		{"black", color.Black, Off},
		{"white", color.White, On},
		{"dark gray", color.RGBA{0x40, 0x40, 0x40, 0xFF}, Off},
		{"light gray", color.RGBA{0xC0, 0xC0, 0xC0, 0xFF}, On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BitModel.Convert(tt.input).(Bit)
			if result != tt.want {
				t.Errorf("BitModel.Convert(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestNewSplitVerticalLSB(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantPanic  bool
		wantPixLen int
	}{
		{"128x64", image.Rect(0, 0, 128, 64), false, 1024},
		{"4x8", image.Rect(0, 0, 4, 8), false, 4},
		{"2x16", image.Rect(0, 0, 2, 16), false, 4},
		{"offset rect", image.Rect(10, 16, 14, 24), false, 4},
		{"odd width panics", image.Rect(0, 0, 5, 8), true, 0},
		{"partial page panics", image.Rect(0, 0, 4, 9), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, want panic = %v", r != nil, tt.wantPanic)
				}
			}()

			img := NewSplitVerticalLSB(tt.rect)
			if !tt.wantPanic {
				if img.Rect != tt.rect {
					t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
				}
				if len(img.Pix) != tt.wantPixLen {
					t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
				}
			}
		})
	}
}

func TestSplitVerticalLSBPixOffset(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 128, 64))

	tests := []struct {
		x, y   int
		offset int
		bit    uint
	}{
		// Chip 1 boundaries.
		{0, 0, 0, 0},
		{63, 0, 63, 0},
		{0, 7, 0, 7},
		{0, 8, 64, 0},
		{63, 7, 63, 7},
		{63, 63, 511, 7},
		// Chip 2 starts at the second half of the buffer.
		{64, 0, 512, 0},
		{64, 8, 576, 0},
		{127, 63, 1023, 7},
	}

	for _, tt := range tests {
		offset, bit := img.PixOffset(tt.x, tt.y)
		if offset != tt.offset || bit != tt.bit {
			t.Errorf("PixOffset(%d, %d) = (%d, %d), want (%d, %d)",
				tt.x, tt.y, offset, bit, tt.offset, tt.bit)
		}
	}
}

func TestSplitVerticalLSBBitPacking(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 4, 8))

	// One vertical byte: rows 1 and 3 of column 2.
	img.SetBit(2, 1, On)
	img.SetBit(2, 3, On)

	if img.Pix[0] != 0 {
		t.Errorf("Pix[0] = 0x%02X, want 0x00", img.Pix[0])
	}
	// Column 2 lives in chip 2 (second half of a 4-wide image).
	if img.Pix[2] != 0b00001010 {
		t.Errorf("Pix[2] = 0x%02X, want 0x0A", img.Pix[2])
	}

	img.SetBit(2, 1, Off)
	if img.Pix[2] != 0b00001000 {
		t.Errorf("after clearing bit 1, Pix[2] = 0x%02X, want 0x08", img.Pix[2])
	}
}

func TestSplitVerticalLSBSetGet(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 128, 64))

	points := []image.Point{
		{0, 0}, {63, 7}, {64, 0}, {127, 63}, {31, 29}, {100, 42},
	}
	for _, pt := range points {
		img.SetBit(pt.X, pt.Y, On)
	}
	for _, pt := range points {
		if !img.BitAt(pt.X, pt.Y) {
			t.Errorf("BitAt(%d, %d) = Off, want On", pt.X, pt.Y)
		}
	}

	// Only the set bits are on.
	on := 0
	for _, b := range img.Pix {
		for ; b != 0; b &= b - 1 {
			on++
		}
	}
	if on != len(points) {
		t.Errorf("buffer has %d bits set, want %d", on, len(points))
	}
}

func TestSplitVerticalLSBAt(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 2, 8))
	img.SetBit(0, 0, On)

	c := img.At(0, 0)
	b, ok := c.(Bit)
	if !ok {
		t.Errorf("At(0, 0) returned %T, want Bit", c)
	}
	if !b {
		t.Error("At(0, 0) = Off, want On")
	}
}

func TestSplitVerticalLSBSet(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 2, 8))

	img.Set(0, 0, On)
	if !img.BitAt(0, 0) {
		t.Error("after Set(0, 0, On), BitAt(0, 0) = Off")
	}

	// Convert from standard color.
	img.Set(1, 0, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
	if !img.BitAt(1, 0) {
		t.Error("after Set(1, 0, white), BitAt(1, 0) = Off")
	}
	img.Set(1, 0, color.Black)
	if img.BitAt(1, 0) {
		t.Error("after Set(1, 0, black), BitAt(1, 0) = On")
	}
}

func TestSplitVerticalLSBColorModel(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 4, 8))
	if img.ColorModel() != BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
}

func TestSplitVerticalLSBBounds(t *testing.T) {
	rect := image.Rect(10, 16, 14, 24)
	img := NewSplitVerticalLSB(rect)
	if img.Bounds() != rect {
		t.Errorf("Bounds() = %v, want %v", img.Bounds(), rect)
	}
}

func TestSplitVerticalLSBOutOfBounds(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 4, 8))

	if img.BitAt(-1, 0) != Off {
		t.Error("BitAt(-1, 0) = On, want Off (out of bounds)")
	}
	if img.BitAt(0, -1) != Off {
		t.Error("BitAt(0, -1) = On, want Off (out of bounds)")
	}
	if img.BitAt(4, 0) != Off {
		t.Error("BitAt(4, 0) = On, want Off (out of bounds)")
	}

	// Out of bounds writes do nothing.
	img.SetBit(-1, 0, On)
	img.SetBit(0, -1, On)
	img.SetBit(4, 0, On)
	img.SetBit(0, 8, On)

	for i, b := range img.Pix {
		if b != 0 {
			t.Errorf("after out-of-bounds writes, Pix[%d] = 0x%02X, want 0x00", i, b)
		}
	}
}

func TestSplitVerticalLSBOffsetRect(t *testing.T) {
	rect := image.Rect(100, 48, 104, 56)
	img := NewSplitVerticalLSB(rect)

	img.SetBit(100, 48, On)

	if !img.BitAt(100, 48) {
		t.Error("SetBit(100, 48, On) then BitAt(100, 48) = Off")
	}
	if img.Pix[0] != 0x01 {
		t.Errorf("Pix[0] = 0x%02X, want 0x01", img.Pix[0])
	}
}

func TestSplitVerticalLSBDrawSrc(t *testing.T) {
	img := NewSplitVerticalLSB(image.Rect(0, 0, 128, 64))

	draw.Draw(img, img.Bounds(), image.NewUniform(On), image.Point{}, draw.Src)
	for i, b := range img.Pix {
		if b != 0xFF {
			t.Fatalf("after filling with On, Pix[%d] = 0x%02X, want 0xFF", i, b)
		}
	}

	draw.Draw(img, image.Rect(0, 0, 64, 8), image.NewUniform(Off), image.Point{}, draw.Src)
	for i := 0; i < 64; i++ {
		if img.Pix[i] != 0x00 {
			t.Fatalf("after clearing page 0 of chip 1, Pix[%d] = 0x%02X, want 0x00", i, img.Pix[i])
		}
	}
	if img.Pix[64] != 0xFF {
		t.Errorf("Pix[64] = 0x%02X, want 0xFF (untouched page)", img.Pix[64])
	}
}
