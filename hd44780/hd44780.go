// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls a two line Hitachi HD44780 character LCD that is
// attached through a PCF8574 I²C I/O expander.
//
// The controller runs in 4-bit mode. Every command or character byte is sent
// as two nibbles, and each nibble is latched by pulsing the enable line with a
// pair of single byte writes to the expander. The R/W line is never raised,
// so the busy flag can't be read and every operation waits a fixed time
// instead.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
package hd44780

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/GermanBionicSystems/lcd1602/pcf857x"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true
)

// Instructions. See table 6 of the datasheet.
const (
	cmdClear        byte = 0x01
	cmdHome         byte = 0x02
	cmdEntryMode    byte = 0x04
	cmdDisplay      byte = 0x08
	cmdShift        byte = 0x10
	cmdFunctionSet  byte = 0x20
	cmdSetCGRAMAddr byte = 0x40
	cmdSetDDRAMAddr byte = 0x80

	// Entry mode flags.
	entryLeftToRight byte = 0x02
	entryShift       byte = 0x01

	// Display control flags.
	displayOn byte = 0x04
	cursorOn  byte = 0x02
	blinkOn   byte = 0x01

	// Cursor/display shift flags.
	shiftDisplay byte = 0x08
	shiftRight   byte = 0x04

	// Function set flags.
	function8Bit  byte = 0x10
	function2Line byte = 0x08

	row0Base byte = 0x00
	row1Base byte = 0x40

	// MaxCols is the number of DDRAM cells per row in two line mode.
	MaxCols = 40
)

const (
	delayPowerOn   = 50 * time.Millisecond
	delayInit1     = 4200 * time.Microsecond
	delayInit2     = 150 * time.Microsecond
	delayCommand   = 37 * time.Microsecond
	delayCharacter = 41 * time.Microsecond
	delaySlow      = 1600 * time.Microsecond
	delayEnable    = time.Microsecond
	delayNibble    = 37 * time.Microsecond
)

var (
	// ErrNotInitialized is returned by operations called before Init.
	ErrNotInitialized = errors.New("hd44780: Init has not been called")

	errWiring = errors.New("hd44780: invalid wiring")
)

// Opts holds the construction time configuration.
type Opts struct {
	// Addr is the I²C address of the expander.
	Addr uint16
	// Rows and Cols are the visible geometry. They are only used to range
	// check MoveTo and for String.
	Rows int
	Cols int
	// BusName is passed to i2creg.Open when Init is asked to open the bus.
	// Empty selects the first bus.
	BusName string
	// Wiring maps controller lines to expander outputs. nil is DefaultWiring.
	Wiring *Wiring
}

// DefaultOpts is a 16x2 display at the usual PCF8574 backpack address.
var DefaultOpts = Opts{
	Addr: 0x27,
	Rows: 2,
	Cols: 16,
}

// Dev is a handle to the display.
//
// Dev keeps a mirror of the expander outputs and of the controller's entry
// mode and display control registers, since neither can be read back. It is
// not safe for concurrent use and does no locking; callers sharing a Dev
// between goroutines must serialize access themselves.
type Dev struct {
	opts    Opts
	wiring  Wiring
	bus     i2c.Bus
	closer  io.Closer
	port    *pcf857x.Dev
	out     latch
	entry   byte
	control byte

	// sleep is replaced in tests.
	sleep func(time.Duration)
}

// New returns a Dev that will talk to the expander on bus. bus may be nil if
// Init(true) is going to open one. opts may be nil to use DefaultOpts.
//
// The display is not touched until Init is called.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Addr > 0x7f {
		return nil, fmt.Errorf("hd44780: invalid I²C address 0x%x", opts.Addr)
	}
	if opts.Rows < 1 || opts.Rows > 2 {
		return nil, fmt.Errorf("hd44780: %d rows not supported", opts.Rows)
	}
	if opts.Cols < 1 || opts.Cols > MaxCols {
		return nil, fmt.Errorf("hd44780: %d columns not supported", opts.Cols)
	}
	w := DefaultWiring
	if opts.Wiring != nil {
		w = *opts.Wiring
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &Dev{opts: *opts, wiring: w, bus: bus, sleep: time.Sleep}, nil
}

// Init prepares the display. If openBus is true the host drivers are loaded
// and the bus named by Opts.BusName is opened; the Dev then owns it and Halt
// closes it. Otherwise the bus given to New is used.
//
// Init clears the expander, waits for the controller power-on time, and runs
// the 4-bit initialization by instruction sequence. On return the display is
// on, cleared, with the cursor hidden and text running left to right.
//
// Init must be called once, before any other operation.
func (d *Dev) Init(openBus bool) error {
	if openBus {
		if _, err := host.Init(); err != nil {
			return fmt.Errorf("hd44780: %w", err)
		}
		b, err := i2creg.Open(d.opts.BusName)
		if err != nil {
			return fmt.Errorf("hd44780: %w", err)
		}
		d.bus = b
		d.closer = b
	}
	if d.bus == nil {
		return errors.New("hd44780: no I²C bus")
	}
	port, err := pcf857x.New(d.bus, d.opts.Addr)
	if err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	d.port = port
	d.out = 0
	d.entry = 0
	d.control = 0
	if err := d.busWrite(d.out); err != nil {
		return err
	}
	d.sleep(delayPowerOn)
	return d.initController()
}

// initController follows "Initializing by Instruction", figure 24 of the
// datasheet. The controller may be in 8-bit mode or half way through a 4-bit
// transfer, so the 8-bit function set is repeated as single nibbles before
// switching to 4-bit mode.
func (d *Dev) initController() error {
	steps := []struct {
		b     byte
		half  bool
		delay time.Duration
	}{
		{cmdFunctionSet | function8Bit, true, delayInit1},
		{cmdFunctionSet | function8Bit, true, delayInit2},
		{cmdFunctionSet | function8Bit, true, delayCommand},
		{cmdFunctionSet, true, delayCommand},
		{cmdFunctionSet | function2Line, false, delayCommand},
	}
	for _, s := range steps {
		if err := d.send(s.b, modeCommand, s.half); err != nil {
			return err
		}
		d.sleep(s.delay)
	}
	if err := d.SetDisplayVisible(true); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.SetTextDirection(true)
}

// SetBacklight turns the backlight on or off. The backlight transistor hangs
// directly off the expander, so only the latch byte is rewritten.
func (d *Dev) SetBacklight(on bool) error {
	if d.port == nil {
		return ErrNotInitialized
	}
	return d.busWrite(d.out.with(d.wiring.Backlight, on))
}

// Clear blanks the display and moves the cursor to the first cell.
func (d *Dev) Clear() error {
	return d.command(cmdClear, delaySlow)
}

// Home moves the cursor to the first cell and undoes any display shift.
func (d *Dev) Home() error {
	return d.command(cmdHome, delaySlow)
}

// SetTextDirection selects whether the cursor moves right (leftToRight) or
// left after each character.
func (d *Dev) SetTextDirection(leftToRight bool) error {
	d.entry = setFlag(d.entry, entryLeftToRight, leftToRight)
	return d.command(cmdEntryMode|d.entry, delayCommand)
}

// SetAutoScroll makes the display shift, instead of the cursor, on each
// character written.
func (d *Dev) SetAutoScroll(on bool) error {
	d.entry = setFlag(d.entry, entryShift, on)
	return d.command(cmdEntryMode|d.entry, delayCommand)
}

// SetDisplayVisible turns the display on or off. DDRAM is retained while off.
func (d *Dev) SetDisplayVisible(on bool) error {
	return d.setControl(displayOn, on)
}

// SetCursorVisible shows or hides the underline cursor.
func (d *Dev) SetCursorVisible(on bool) error {
	return d.setControl(cursorOn, on)
}

// SetCursorBlink turns the blinking block cursor on or off.
func (d *Dev) SetCursorBlink(on bool) error {
	return d.setControl(blinkOn, on)
}

func (d *Dev) setControl(flag byte, on bool) error {
	d.control = setFlag(d.control, flag, on)
	return d.command(cmdDisplay|d.control, delayCommand)
}

// SetCursorPosition moves the cursor to the zero based row and column. Row 0
// starts at DDRAM address 0x00, any other row at 0x40.
//
// The position is not validated. Columns past the end of the row land at
// whatever address the sum works out to.
func (d *Dev) SetCursorPosition(row, col int) error {
	base := row0Base
	if row != 0 {
		base = row1Base
	}
	return d.command(cmdSetDDRAMAddr|(base+byte(col)), delayCommand)
}

// ShiftCursor moves the cursor one cell without writing.
func (d *Dev) ShiftCursor(right bool) error {
	return d.command(cmdShift|setFlag(0, shiftRight, right), delayCommand)
}

// ShiftDisplay scrolls both rows one cell without changing DDRAM.
func (d *Dev) ShiftDisplay(right bool) error {
	return d.command(cmdShift|shiftDisplay|setFlag(0, shiftRight, right), delayCommand)
}

// SetCustomChar stores a 5x8 glyph in CGRAM location 0-7. Each byte of
// pattern is one row, top first, using the low 5 bits. The glyph is printed
// by writing the location as a character.
//
// The address counter is left in CGRAM; call SetCursorPosition, Clear or Home
// before writing text again.
func (d *Dev) SetCustomChar(location byte, pattern [8]byte) error {
	if err := d.command(cmdSetCGRAMAddr|(location&0x07)<<3, delayCommand); err != nil {
		return err
	}
	for _, row := range pattern {
		if _, err := d.WriteCharacter(row & 0x1f); err != nil {
			return err
		}
	}
	return nil
}

// WriteCharacter writes c at the cursor. It returns 1 once the byte has been
// sent.
func (d *Dev) WriteCharacter(c byte) (int, error) {
	if err := d.send(c, modeData, false); err != nil {
		return 0, err
	}
	d.sleep(delayCharacter)
	return 1, nil
}

// Write writes each byte of p as a character. It implements io.Writer.
func (d *Dev) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if _, err = d.WriteCharacter(c); err != nil {
			return
		}
		n++
	}
	return
}

// WriteString writes text as characters.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

func (d *Dev) command(b byte, delay time.Duration) error {
	if err := d.send(b, modeCommand, false); err != nil {
		return err
	}
	d.sleep(delay)
	return nil
}

// send clocks b into the controller as two nibbles, high first. During the
// initialization sequence half is true and only the high nibble is sent.
func (d *Dev) send(b byte, mode writeMode, half bool) error {
	if d.port == nil {
		return ErrNotInitialized
	}
	l := d.out.with(d.wiring.RS, bool(mode)).with(d.wiring.RW, false)
	if err := d.pulse(d.wiring.highNibble(l, b)); err != nil {
		return err
	}
	if half {
		return nil
	}
	d.sleep(delayNibble)
	return d.pulse(d.wiring.lowNibble(d.out, b))
}

// pulse writes l with enable raised, then again with it lowered. The
// controller latches the data lines on the falling edge; the high phase must
// last more than 450ns.
func (d *Dev) pulse(l latch) error {
	if err := d.busWrite(l.with(d.wiring.E, true)); err != nil {
		return err
	}
	d.sleep(delayEnable)
	return d.busWrite(l.with(d.wiring.E, false))
}

// busWrite sends one byte to the expander in its own transaction. The mirror
// is only updated if the write succeeded.
func (d *Dev) busWrite(l latch) error {
	if err := d.port.Write(byte(l)); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	d.out = l
	return nil
}

func setFlag(v, flag byte, on bool) byte {
	if on {
		return v | flag
	}
	return v &^ flag
}

var _ io.Writer = &Dev{}
var _ io.StringWriter = &Dev{}
