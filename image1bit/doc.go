// Package image1bit provides a 1-bit monochrome image format for dual-chip KS0108 displays.
//
// The KS0108 segment controller stores pixels as vertical bytes: each byte holds
// 8 vertically stacked pixels of one column, with the least significant bit at
// the top. A 128×64 module uses two controllers side by side, and the RAM of
// both chips is kept in one buffer: chip 1 (columns 0-63) first, chip 2
// (columns 64-127) second. Within a chip the bytes run page by page, a page
// being a band of 8 pixel rows.
//
// Memory layout for a 128×64 display (1024 bytes):
//
//	Pix[0]      chip 1, page 0, column 0   (pixels (0,0)..(0,7), LSB = (0,0))
//	Pix[63]     chip 1, page 0, column 63
//	Pix[64]     chip 1, page 1, column 0
//	Pix[511]    chip 1, page 7, column 63
//	Pix[512]    chip 2, page 0, column 0   (pixel column x=64)
//	Pix[1023]   chip 2, page 7, column 63  (pixels (127,56)..(127,63))
//
// This package provides:
//
// - Bit: a binary color type (On/Off)
// - BitModel: a color model converting standard Go colors to Bit
// - SplitVerticalLSB: an image.Image implementation in the layout above
//
// Example usage:
//
//	// Create a 128x64 image
//	img := image1bit.NewSplitVerticalLSB(image.Rect(0, 0, 128, 64))
//
//	// Turn a pixel on
//	img.SetBit(10, 20, image1bit.On)
//
//	// Read it back
//	b := img.BitAt(10, 20)
//	println(b.String()) // Output: On
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
