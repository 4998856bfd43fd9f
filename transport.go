package ks0108

import (
	"errors"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// DefaultPostDelay is the post delay applied after the enable pulse when the
// Timing does not specify one. The data hold time after E falls is the
// critical figure on most modules.
const DefaultPostDelay = time.Microsecond

// Timing describes the enable latch pulse. The enable line commits the
// currently presented control and data lines into the display: optional Pre
// delay, E high, optional Hold delay, E low, Post delay.
type Timing struct {
	Pre  time.Duration // settle time before E rises
	Hold time.Duration // time E is kept high
	Post time.Duration // recovery time after E falls (DefaultPostDelay if zero)
}

// latch pulses the enable line through set, honoring the configured delays.
func (t Timing) latch(set func(gpio.Level) error) error {
	if t.Pre > 0 {
		time.Sleep(t.Pre)
	}
	if err := set(gpio.High); err != nil {
		return err
	}
	if t.Hold > 0 {
		time.Sleep(t.Hold)
	}
	if err := set(gpio.Low); err != nil {
		return err
	}
	post := t.Post
	if post == 0 {
		post = DefaultPostDelay
	}
	time.Sleep(post)
	return nil
}

// Transport moves one (chip select pair, command/data flag, byte) unit onto
// the display bus. Implementations are stateless strategies; swapping one for
// another changes the physical bit sequence but never the logical command
// stream seen by the device.
type Transport interface {
	// Init configures every bus line as an output at its idle (low) level.
	Init() error
	// Send presents b on the bus, with the command/data line reflecting data
	// and the chip select lines reflecting cs1/cs2, then pulses enable.
	Send(cs1, cs2, data bool, b byte) error
	// Resource's Halt returns all bus lines to their idle level.
	conn.Resource
}

// ParallelOpts is the configuration for the parallel bus transport.
//
// The 8 data lines always go through one gpio.Group. The four control lines
// (CSEL1, CSEL2, command/data, enable) are driven either through a second
// group, with their bit offsets configured below, or through four individual
// pins. Exactly one of the two shapes must be configured.
type ParallelOpts struct {
	// Data is the group driving DB0..DB7, DB0 at group offset 0.
	Data gpio.Group

	// Control is the shared group for the control lines. Leave nil when the
	// control lines are wired individually.
	Control   gpio.Group
	CS1Offset int // bit offset of CSEL1 within Control
	CS2Offset int // bit offset of CSEL2 within Control
	DCOffset  int // bit offset of the command/data line within Control
	EOffset   int // bit offset of the enable line within Control

	// Individually wired control lines. Leave nil when Control is set.
	CS1, CS2, DC, E gpio.PinOut

	Timing Timing
}

// Parallel drives the display over its native 8-bit bus.
type Parallel struct {
	data   gpio.Group
	timing Timing

	// Shared control register.
	control  gpio.Group
	cs1Mask  gpio.GPIOValue
	cs2Mask  gpio.GPIOValue
	dcMask   gpio.GPIOValue
	eMask    gpio.GPIOValue
	ctrlMask gpio.GPIOValue

	// Individual control lines.
	cs1, cs2, dc, e gpio.PinOut
}

// NewParallel creates a parallel transport from opts.
func NewParallel(opts *ParallelOpts) (*Parallel, error) {
	if opts == nil {
		return nil, errors.New("ks0108: parallel options are required")
	}
	if opts.Data == nil {
		return nil, errors.New("ks0108: parallel transport requires a data group")
	}
	if len(opts.Data.Pins()) < 8 {
		return nil, errors.New("ks0108: data group must have 8 pins")
	}

	individual := opts.CS1 != nil || opts.CS2 != nil || opts.DC != nil || opts.E != nil
	if opts.Control != nil && individual {
		return nil, errors.New("ks0108: control lines must be either shared or individual, not both")
	}

	p := &Parallel{
		data:   opts.Data,
		timing: opts.Timing,
	}

	if opts.Control != nil {
		n := len(opts.Control.Pins())
		offsets := []int{opts.CS1Offset, opts.CS2Offset, opts.DCOffset, opts.EOffset}
		seen := map[int]bool{}
		for _, off := range offsets {
			if off < 0 || off >= n {
				return nil, errors.New("ks0108: control line offset out of range")
			}
			if seen[off] {
				return nil, errors.New("ks0108: control line offsets must be distinct")
			}
			seen[off] = true
		}
		p.control = opts.Control
		p.cs1Mask = 1 << opts.CS1Offset
		p.cs2Mask = 1 << opts.CS2Offset
		p.dcMask = 1 << opts.DCOffset
		p.eMask = 1 << opts.EOffset
		p.ctrlMask = p.cs1Mask | p.cs2Mask | p.dcMask | p.eMask
		return p, nil
	}

	if opts.CS1 == nil || opts.CS2 == nil || opts.DC == nil || opts.E == nil {
		return nil, errors.New("ks0108: parallel transport requires a control group or all four control pins")
	}
	p.cs1 = opts.CS1
	p.cs2 = opts.CS2
	p.dc = opts.DC
	p.e = opts.E
	return p, nil
}

// Init drives every bus line low.
func (p *Parallel) Init() error {
	return p.Halt()
}

// Send presents b on the data lines, sets the control lines and pulses enable.
func (p *Parallel) Send(cs1, cs2, data bool, b byte) error {
	if err := p.data.Out(gpio.GPIOValue(b), 0xFF); err != nil {
		return err
	}
	if p.control != nil {
		var v gpio.GPIOValue
		if cs1 {
			v |= p.cs1Mask
		}
		if cs2 {
			v |= p.cs2Mask
		}
		if data {
			v |= p.dcMask
		}
		if err := p.control.Out(v, p.cs1Mask|p.cs2Mask|p.dcMask); err != nil {
			return err
		}
		return p.timing.latch(func(l gpio.Level) error {
			if l {
				return p.control.Out(p.eMask, p.eMask)
			}
			return p.control.Out(0, p.eMask)
		})
	}

	if err := p.cs1.Out(gpio.Level(cs1)); err != nil {
		return err
	}
	if err := p.cs2.Out(gpio.Level(cs2)); err != nil {
		return err
	}
	if err := p.dc.Out(gpio.Level(data)); err != nil {
		return err
	}
	return p.timing.latch(p.e.Out)
}

// Halt drives every bus line low.
func (p *Parallel) Halt() error {
	if err := p.data.Out(0, 0xFF); err != nil {
		return err
	}
	if p.control != nil {
		return p.control.Out(0, p.ctrlMask)
	}
	for _, pin := range []gpio.PinOut{p.cs1, p.cs2, p.dc, p.e} {
		if err := pin.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// String returns a string representation of the transport.
func (p *Parallel) String() string {
	if p.control != nil {
		return "ks0108.Parallel{shared control}"
	}
	return "ks0108.Parallel{individual control}"
}

// SerialOpts is the configuration for the 3-wire serial transport.
//
// The bus is a chain of two 74HC595-style shift registers: the first register
// holds the data byte (Qa = DB0 .. Qh = DB7), the first three outputs of the
// second register hold CSEL1, CSEL2 and the command/data line. CS1Bit, CS2Bit
// and DCBit name the second register output (Qa: 0, Qb: 1, Qc: 2) each line is
// wired to and must together be a permutation of 0, 1, 2.
type SerialOpts struct {
	Clock  gpio.PinOut // shift clock of both registers
	Serial gpio.PinOut // serial data input of the chain
	E      gpio.PinOut // enable line of the display

	CS1Bit int
	CS2Bit int
	DCBit  int

	Timing Timing
}

// Serial drives the display through a bit-banged two-register shift chain.
type Serial struct {
	clock  gpio.PinOut
	ser    gpio.PinOut
	e      gpio.PinOut
	cs1Bit uint
	cs2Bit uint
	dcBit  uint
	timing Timing
}

// NewSerial creates a serial transport from opts.
func NewSerial(opts *SerialOpts) (*Serial, error) {
	if opts == nil {
		return nil, errors.New("ks0108: serial options are required")
	}
	if opts.Clock == nil || opts.Serial == nil || opts.E == nil {
		return nil, errors.New("ks0108: serial transport requires clock, serial and enable pins")
	}
	for _, bit := range []int{opts.CS1Bit, opts.CS2Bit, opts.DCBit} {
		if bit < 0 || bit > 2 {
			return nil, errors.New("ks0108: shift register bit assignments must be 0, 1 or 2")
		}
	}
	if opts.CS1Bit == opts.CS2Bit || opts.CS1Bit == opts.DCBit || opts.CS2Bit == opts.DCBit {
		return nil, errors.New("ks0108: shift register bit assignments must be distinct")
	}

	return &Serial{
		clock:  opts.Clock,
		ser:    opts.Serial,
		e:      opts.E,
		cs1Bit: uint(opts.CS1Bit),
		cs2Bit: uint(opts.CS2Bit),
		dcBit:  uint(opts.DCBit),
		timing: opts.Timing,
	}, nil
}

// Init drives every bus line low.
func (s *Serial) Init() error {
	return s.Halt()
}

// Send shifts the three instruction bits and the data byte into the register
// chain, latches the chain into its output registers and pulses enable.
func (s *Serial) Send(cs1, cs2, data bool, b byte) error {
	var instr byte
	if cs1 {
		instr |= 1 << s.cs1Bit
	}
	if cs2 {
		instr |= 1 << s.cs2Bit
	}
	if data {
		instr |= 1 << s.dcBit
	}

	// The second register sits behind the first in the chain, so its three
	// bits go out first, highest output (Qc) leading.
	for i := 2; i >= 0; i-- {
		if err := s.shiftBit(instr&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	for i := 7; i >= 0; i-- {
		if err := s.shiftBit(b&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}

	// One extra pulse moves the shift register contents to the output pins;
	// shift and storage clocks are tied together.
	if err := s.pulseClock(); err != nil {
		return err
	}
	return s.timing.latch(s.e.Out)
}

func (s *Serial) shiftBit(high bool) error {
	if err := s.ser.Out(gpio.Level(high)); err != nil {
		return err
	}
	return s.pulseClock()
}

func (s *Serial) pulseClock() error {
	if err := s.clock.Out(gpio.High); err != nil {
		return err
	}
	return s.clock.Out(gpio.Low)
}

// Halt drives every bus line low.
func (s *Serial) Halt() error {
	for _, pin := range []gpio.PinOut{s.clock, s.ser, s.e} {
		if err := pin.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// String returns a string representation of the transport.
func (s *Serial) String() string {
	return "ks0108.Serial"
}

var (
	_ Transport = &Parallel{}
	_ Transport = &Serial{}
)
