// Package ks0108 controls dual-chip KS0107/KS0108 graphic LCD modules over GPIO.
//
// Supported modules have two segment controllers, each addressing 8 pages of
// 64 columns of 8 vertically stacked pixels, for 128×64 pixels total. The
// driver is write-only: the pixel state lives in a 1024-byte buffer in RAM,
// and everything on screen is derived from it.
//
// # Display Characteristics
//
//   - 1-bit monochrome, 128×64 pixels across two chips
//   - Column counter auto-increments on data writes and wraps after 63
//   - 8 data pins (DB0-DB7), CSEL1/CSEL2 chip selects (high = selected)
//   - Enable pin (action initiated on high), command/data pin (command = low)
//   - Startline register for hardware vertical scrolling
//
// The read/write pin is not used by this driver; tie it low. A hardware reset
// is not required either; tie the reset pin high.
//
// # Hardware Connection
//
// Two transports are available. The parallel transport drives the native bus
// directly: the 8 data lines through one gpio.Group, the four control lines
// either through a second group (shared control register) or through four
// individual GPIO pins.
//
// The serial transport needs only 3 pins and a chain of two 74HC595-style
// shift registers:
//
//	Pin        Function
//	CLOCK      shift clock of both registers (tie shift and storage clock together)
//	SERIAL     serial data input of the chain
//	E          enable pin of the display
//
// The first register carries the data byte (Qa = DB0, Qh = DB7); outputs
// Qa-Qc of the second register carry CSEL1, CSEL2 and command/data in a
// configurable order. Tie the registers' reset high and output-enable low.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/ks0108"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		t, err := ks0108.NewSerial(&ks0108.SerialOpts{
//			Clock:  gpioreg.ByName("GPIO11"),
//			Serial: gpioreg.ByName("GPIO10"),
//			E:      gpioreg.ByName("GPIO25"),
//			CS1Bit: 0,
//			CS2Bit: 1,
//			DCBit:  2,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		dev, err := ks0108.New(t, &ks0108.Opts{Mode: ks0108.Buffered})
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		if err := dev.TurnOn(); err != nil {
//			log.Fatal(err)
//		}
//
//		dev.SetPixel(64, 32, true)
//		dev.Flush()
//	}
//
// # Drawing Modes
//
// The driver offers two drawing modes, fixed when the device is created.
//
// ## Buffered
//
// SetPixel only mutates the buffer; Flush sends it to the display when it has
// actually changed. Recommended when the picture changes often and quickly —
// combined with a ticker calling Flush you get a fixed refresh rate:
//
//	dev, _ := ks0108.New(t, &ks0108.Opts{Mode: ks0108.Buffered})
//	for range time.Tick(50 * time.Millisecond) {
//		// ... SetPixel calls ...
//		dev.Flush()
//	}
//
// ## Immediate
//
// Every SetPixel is reflected on the display right away. When a drawing
// action consists of more SetPixel calls than the display has bytes, wrap it
// in a grouped change so the result goes out once:
//
//	dev, _ := ks0108.New(t, &ks0108.Opts{Mode: ks0108.Immediate})
//	dev.EnterGroupedChanges()
//	// ... many SetPixel calls, buffer only ...
//	dev.LeaveGroupedChanges() // one full transmission
//
// Groups nest; only the outermost leave transmits.
//
// # Images
//
// Dev implements periph.io's display.Drawer. Any image.Image can be drawn;
// sources already in image1bit.SplitVerticalLSB layout take a fast path:
//
//	img := image1bit.NewSplitVerticalLSB(dev.Bounds())
//	// ... draw into img ...
//	dev.Draw(dev.Bounds(), img, image.Point{})
//
// # Inverted Polarity
//
// SetInverted complements the meaning of stored bits without changing what is
// displayed, which white-on-blue modules render more readably. SetPixel,
// Clear and Fill always speak logical pixel values, independent of polarity.
//
// # Concurrency
//
// Dev is not safe for concurrent use. All operations are synchronous bus
// writes with busy-wait latch delays; there is no acknowledgment from the
// device and no way to abort a send in flight. If interrupt-style code shares
// the same lines, the caller must provide mutual exclusion.
package ks0108
