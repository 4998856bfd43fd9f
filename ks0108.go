// Package ks0108 controls dual-chip KS0107/KS0108 graphic LCD modules.
//
// The KS0108 is a monochrome segment controller driving 64×64 pixels; common
// 128×64 modules carry two of them side by side behind one bus.
//
// See the examples for how to use this package.
package ks0108

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/flavioheleno/ks0108/image1bit"
	"periph.io/x/conn/v3/display"
)

// Display geometry. Fixed by the supported hardware, not configurable.
const (
	Width  = 128 // pixels across both chips
	Height = 64

	chipCols = 64 // columns per chip
	numPages = 8  // pages per chip, 8 pixel rows each
)

// Device command bytes.
const (
	cmdDisplayOn  = 0x3F
	cmdDisplayOff = 0x3E
	cmdStartLine  = 0xC0 // | line (0-63)
	cmdSetPage    = 0xB8 // | page (0-7)
	cmdSetColumn  = 0x40 // | column (0-63)
)

// DrawMode selects how pixel writes reach the hardware. The mode is fixed
// when the device is created.
type DrawMode int

const (
	// Buffered keeps pixel writes in memory until Flush is called. Use this
	// when the picture changes often and quickly, combined with a flush at a
	// fixed refresh rate.
	Buffered DrawMode = iota
	// Immediate pushes every pixel write to the display as it happens.
	// Grouped changes suspend that per-pixel traffic in favor of one full
	// transmission when the outermost group ends.
	Immediate
)

// String returns the name of the draw mode.
func (m DrawMode) String() string {
	switch m {
	case Buffered:
		return "buffered"
	case Immediate:
		return "immediate"
	default:
		return fmt.Sprintf("DrawMode(%d)", int(m))
	}
}

// Opts is the configuration for the display driver.
type Opts struct {
	// Mode selects buffered or immediate drawing (default: Buffered).
	Mode DrawMode
}

// Dev is the device handle for a dual-chip KS0108 display.
//
// It owns the pixel buffer and pushes it through the configured Transport.
// The device is write-only: the buffer is the single source of truth for the
// picture. Dev is not safe for concurrent use; all operations are synchronous
// bus writes on the calling goroutine.
type Dev struct {
	t    Transport
	mode DrawMode

	// Pixel buffer in display RAM layout (1024 bytes for 128x64).
	buf      *image1bit.SplitVerticalLSB
	inverted bool

	// Buffered mode: true while the buffer has unflushed writes.
	dirty bool

	// Immediate mode: nesting depth of grouped pixel changes.
	group int

	// Immediate mode: page/column registers the hardware is known to hold,
	// per chip, -1 when unknown. Purely a write-suppression optimization
	// exploiting the auto-incrementing column counter; a full buffer send
	// re-derives correct state regardless.
	curPage [2]int
	curCol  [2]int

	halted bool
}

// New creates a display device on the given transport.
//
// opts can be nil to use defaults (buffered drawing). The transport lines are
// initialized and the display is reset, which clears the screen; the display
// still needs TurnOn to start showing the buffer.
func New(t Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("ks0108: transport is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Mode != Buffered && opts.Mode != Immediate {
		return nil, fmt.Errorf("ks0108: unknown draw mode %d", int(opts.Mode))
	}

	d := &Dev{
		t:    t,
		mode: opts.Mode,
		buf:  image1bit.NewSplitVerticalLSB(image.Rect(0, 0, Width, Height)),
	}
	d.invalidateCache()

	if err := t.Init(); err != nil {
		return nil, err
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// Mode returns the draw mode the device was created with.
func (d *Dev) Mode() DrawMode {
	return d.mode
}

// SetPixel sets one pixel. Coordinates outside the display are ignored; that
// is documented policy, not an error.
//
// In immediate mode the affected byte is written through to the hardware
// right away unless a grouped change is active. In buffered mode the change
// only marks the buffer dirty until the next Flush.
func (d *Dev) SetPixel(x, y int, on bool) error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return nil
	}

	d.setBufferPixel(x, y, on)

	switch d.mode {
	case Buffered:
		d.dirty = true
	case Immediate:
		if d.group == 0 {
			return d.sendPixelByte(x, y)
		}
	}
	return nil
}

// setBufferPixel stores the logical pixel value, complemented when the
// display polarity is inverted.
func (d *Dev) setBufferPixel(x, y int, on bool) {
	if d.inverted {
		on = !on
	}
	d.buf.SetBit(x, y, image1bit.Bit(on))
}

// sendPixelByte writes the byte containing (x, y) through to the hardware.
// Page and column commands are suppressed when the address cache shows the
// hardware already points at the right spot; consecutive writes left to right
// ride the column auto-increment for free.
func (d *Dev) sendPixelByte(x, y int) error {
	chip := x / chipCols
	if err := d.setPage(chip, y/8); err != nil {
		return err
	}
	if err := d.setColumn(chip, x%chipCols); err != nil {
		return err
	}
	offset, _ := d.buf.PixOffset(x, y)
	return d.writeData(chip, d.buf.Pix[offset])
}

// Flush sends the buffer to the display if it has unflushed writes. Only
// available in buffered mode. Flushing an unchanged buffer costs nothing.
func (d *Dev) Flush() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if d.mode != Buffered {
		return errors.New("ks0108: Flush is only available in buffered mode")
	}
	if !d.dirty {
		return nil
	}
	if err := d.sendBuffer(); err != nil {
		return err
	}
	d.dirty = false
	return nil
}

// EnterGroupedChanges starts a grouped pixel change section in immediate
// mode. Sections nest; while at least one is open, SetPixel only mutates the
// buffer. Recommended when a drawing action touches more pixels than the
// display has bytes, so the data goes out once instead of per pixel.
func (d *Dev) EnterGroupedChanges() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if d.mode != Immediate {
		return errors.New("ks0108: grouped changes are only available in immediate mode")
	}
	d.group++
	return nil
}

// LeaveGroupedChanges closes one grouped pixel change section. Closing the
// outermost section sends the whole buffer to the display. A leave without a
// matching enter is ignored.
func (d *Dev) LeaveGroupedChanges() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if d.mode != Immediate {
		return errors.New("ks0108: grouped changes are only available in immediate mode")
	}
	if d.group == 0 {
		return nil
	}
	d.group--
	if d.group == 0 {
		return d.sendBuffer()
	}
	return nil
}

// Clear turns every pixel off.
func (d *Dev) Clear() error {
	return d.fillWith(false)
}

// Fill turns every pixel on.
func (d *Dev) Fill() error {
	return d.fillWith(true)
}

func (d *Dev) fillWith(on bool) error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	pattern := byte(0x00)
	if on != d.inverted {
		pattern = 0xFF
	}
	for i := range d.buf.Pix {
		d.buf.Pix[i] = pattern
	}
	return d.refresh()
}

// SetInverted sets the display polarity. When it changes, every buffer byte
// is complemented so the picture on screen stays the same; useful for
// modules whose backlight makes the inverse rendering more readable.
func (d *Dev) SetInverted(inverted bool) error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if inverted == d.inverted {
		return nil
	}
	for i, b := range d.buf.Pix {
		d.buf.Pix[i] = ^b
	}
	d.inverted = inverted
	return d.refresh()
}

// IsInverted reports whether the display polarity is inverted.
func (d *Dev) IsInverted() bool {
	return d.inverted
}

// TurnOn switches both display chips on.
func (d *Dev) TurnOn() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	return d.t.Send(true, true, false, cmdDisplayOn)
}

// TurnOff switches both display chips off. The display RAM is retained.
func (d *Dev) TurnOff() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	return d.t.Send(true, true, false, cmdDisplayOff)
}

// SetStartLine sets the RAM row both chips map to the topmost display line.
// Useful for vertical scrolling without rewriting the buffer.
func (d *Dev) SetStartLine(line int) error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	if line < 0 || line >= Height {
		return fmt.Errorf("ks0108: start line %d out of range", line)
	}
	return d.t.Send(true, true, false, cmdStartLine|byte(line))
}

// Reset brings driver and display back to a known state: polarity normal,
// start line 0, both chips at page 0 and column 0, no open grouped changes,
// screen cleared (and flushed, in buffered mode).
func (d *Dev) Reset() error {
	if d.halted {
		return errors.New("ks0108: halted")
	}
	// The hardware registers are unknown here; make sure the page and column
	// commands below really go out.
	d.invalidateCache()

	if err := d.SetInverted(false); err != nil {
		return err
	}
	if err := d.SetStartLine(0); err != nil {
		return err
	}
	for chip := 0; chip < 2; chip++ {
		if err := d.setPage(chip, 0); err != nil {
			return err
		}
		if err := d.setColumn(chip, 0); err != nil {
			return err
		}
	}
	d.group = 0
	if err := d.Clear(); err != nil {
		return err
	}
	if d.mode == Buffered {
		return d.Flush()
	}
	return nil
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.buf.Rect
}

// Write replaces the whole frame with raw pixel data in SplitVerticalLSB
// layout and logical polarity (a set bit is a lit pixel). The data must be
// exactly Width*Height/8 bytes.
func (d *Dev) Write(pix []byte) (int, error) {
	if d.halted {
		return 0, errors.New("ks0108: halted")
	}
	if len(pix) != len(d.buf.Pix) {
		return 0, errors.New("ks0108: invalid buffer size")
	}
	if d.inverted {
		for i, b := range pix {
			d.buf.Pix[i] = ^b
		}
	} else {
		copy(d.buf.Pix, pix)
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pix), nil
}

// Draw draws an image onto the display. The dst rectangle selects the
// destination region, sp the origin within src. Whatever the draw mode, the
// whole operation reaches the hardware as at most one transmission.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("ks0108: halted")
	}

	dst = dst.Intersect(d.buf.Rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: a full-frame source already in display layout.
	if img, ok := src.(*image1bit.SplitVerticalLSB); ok {
		zeroPoint := image.Point{}
		if dst == d.buf.Rect && sp == zeroPoint && img.Rect == d.buf.Rect {
			_, err := d.Write(img.Pix)
			return err
		}
	}

	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			c := src.At(sp.X+x-dst.Min.X, sp.Y+y-dst.Min.Y)
			bit := image1bit.BitModel.Convert(c).(image1bit.Bit)
			d.setBufferPixel(x, y, bool(bit))
		}
	}
	return d.refresh()
}

// Halt turns the display off. After calling Halt, the device will not respond
// to further operations until a new one is created.
func (d *Dev) Halt() error {
	d.halted = true
	return d.t.Send(true, true, false, cmdDisplayOff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ks0108.Dev{%s, %s}", d.t, d.mode)
}

// refresh makes a whole-buffer change visible according to the draw mode.
func (d *Dev) refresh() error {
	if d.mode == Buffered {
		d.dirty = true
		return nil
	}
	return d.sendBuffer()
}

// sendBuffer transmits the complete buffer: per chip, column reset to 0 once,
// then each page set and its 64 columns streamed as data. The data bytes
// bypass the column accounting on purpose: 64 writes wrap the hardware
// counter back to 0, so the cached column set here stays correct. Both chips
// are left at page 0, column 0.
func (d *Dev) sendBuffer() error {
	i := 0
	for chip := 0; chip < 2; chip++ {
		if err := d.setColumn(chip, 0); err != nil {
			return err
		}
		for page := 0; page < numPages; page++ {
			if err := d.setPage(chip, page); err != nil {
				return err
			}
			for col := 0; col < chipCols; col++ {
				if err := d.t.Send(chip == 0, chip == 1, true, d.buf.Pix[i]); err != nil {
					return err
				}
				i++
			}
		}
	}
	if err := d.setPage(0, 0); err != nil {
		return err
	}
	return d.setPage(1, 0)
}

// setPage sets the page register of one chip. In immediate mode the command
// is suppressed when the hardware is known to hold that page already.
func (d *Dev) setPage(chip, page int) error {
	if d.mode == Immediate && d.curPage[chip] == page {
		return nil
	}
	if err := d.sendCommand(chip, cmdSetPage|byte(page&0x07)); err != nil {
		return err
	}
	d.curPage[chip] = page
	return nil
}

// setColumn sets the column register of one chip, with the same suppression
// as setPage.
func (d *Dev) setColumn(chip, col int) error {
	if d.mode == Immediate && d.curCol[chip] == col {
		return nil
	}
	if err := d.sendCommand(chip, cmdSetColumn|byte(col&0x3F)); err != nil {
		return err
	}
	d.curCol[chip] = col
	return nil
}

// writeData writes one display data byte to a chip and tracks the hardware's
// column auto-increment, which wraps after column 63.
func (d *Dev) writeData(chip int, b byte) error {
	if err := d.t.Send(chip == 0, chip == 1, true, b); err != nil {
		return err
	}
	if d.curCol[chip] >= 0 {
		d.curCol[chip] = (d.curCol[chip] + 1) % chipCols
	}
	return nil
}

// sendCommand sends a command byte to one chip.
func (d *Dev) sendCommand(chip int, b byte) error {
	return d.t.Send(chip == 0, chip == 1, false, b)
}

func (d *Dev) invalidateCache() {
	d.curPage[0], d.curPage[1] = -1, -1
	d.curCol[0], d.curCol[1] = -1, -1
}

var _ display.Drawer = &Dev{}
