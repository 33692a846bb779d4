// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780test implements an emulated PCF8574 expander with an
// HD44780 controller behind it.
//
// Bus decodes the byte stream a driver writes to the expander the way the
// controller sees it: data lines are latched on each falling edge of E, the
// controller powers up in 8-bit mode and switches to 4-bit mode on a function
// set, and instructions update DDRAM, CGRAM and the display registers. Tests
// can then check what the panel would show instead of individual bus writes.
package hd44780test

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrNoDevice is returned for a transaction to any address other than the
// emulated expander's, like a NACK on a real bus.
var ErrNoDevice = errors.New("hd44780test: no device at address")

// Wiring has the same layout as hd44780.Wiring, so one converts to the other
// with a type conversion.
type Wiring struct {
	Data      uint8
	RS        uint8
	RW        uint8
	E         uint8
	Backlight uint8
}

const (
	ddramSize = 0x80
	cgramSize = 0x40
	lineLen   = 0x28
	line2     = 0x40
)

// Bus is an i2c.Bus with one emulated LCD on it. The zero value is not
// usable, use New.
type Bus struct {
	mu     sync.Mutex
	addr   uint16
	wiring Wiring
	rows   int
	cols   int

	last     byte
	fourBit  bool
	haveHigh bool
	high     byte

	ddram     [ddramSize]byte
	cgram     [cgramSize]byte
	ac        byte
	inCGRAM   bool
	increment bool
	shift     bool
	displayOn bool
	cursorOn  bool
	blinkOn   bool
	twoLine   bool
	offset    int

	writes []byte
	log    []string
}

// New returns an emulated display answering at addr. rows and cols are the
// visible geometry used by Line and Lines.
func New(addr uint16, w Wiring, rows, cols int) *Bus {
	b := &Bus{addr: addr, wiring: w, rows: rows, cols: cols, increment: true}
	for ix := range b.ddram {
		b.ddram[ix] = ' '
	}
	return b
}

// Tx implements i2c.Bus. Every byte in w is applied to the expander outputs
// in turn. Reads are not supported, the R/W line is not decoded.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr != b.addr {
		return fmt.Errorf("%w 0x%x", ErrNoDevice, addr)
	}
	if len(r) != 0 {
		return errors.New("hd44780test: reads are not supported")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range w {
		b.apply(v)
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements i2c.BusCloser.
func (b *Bus) Close() error {
	return nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("hd44780test(0x%x)", b.addr)
}

// Writes returns every byte written to the expander so far.
func (b *Bus) Writes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.writes...)
}

// Log returns the decoded instructions and data writes, one entry each.
func (b *Bus) Log() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.log...)
}

// Backlight reports the backlight output of the expander.
func (b *Bus) Backlight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bit(b.last, b.wiring.Backlight)
}

// DisplayOn reports the display control D bit.
func (b *Bus) DisplayOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.displayOn
}

// CursorOn reports the display control C bit.
func (b *Bus) CursorOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorOn
}

// BlinkOn reports the display control B bit.
func (b *Bus) BlinkOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blinkOn
}

// FourBit reports whether the controller has been switched to 4-bit mode.
func (b *Bus) FourBit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fourBit
}

// TwoLine reports the function set N bit.
func (b *Bus) TwoLine() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.twoLine
}

// Increment reports the entry mode I/D bit.
func (b *Bus) Increment() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.increment
}

// Address returns the address counter and whether it points into CGRAM.
func (b *Bus) Address() (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ac, b.inCGRAM
}

// Glyph returns the 8 pattern rows of CGRAM character n.
func (b *Bus) Glyph(n int) [8]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var g [8]byte
	copy(g[:], b.cgram[(n&7)*8:])
	return g
}

// Row returns the raw DDRAM bytes visible on row, display shift applied.
func (b *Bus) Row(row int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.row(row)
}

// Line returns the text visible on row. Codes outside printable ASCII are
// shown as '?'.
func (b *Bus) Line(row int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return printable(b.row(row))
}

// Lines returns Line for each visible row.
func (b *Bus) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, b.rows)
	for ix := range lines {
		lines[ix] = printable(b.row(ix))
	}
	return lines
}

func (b *Bus) row(row int) []byte {
	out := make([]byte, b.cols)
	if !b.twoLine {
		// One line mode has 80 cells in a single row.
		for ix := range out {
			out[ix] = b.ddram[mod(row*b.cols+ix+b.offset, 2*lineLen)]
		}
		return out
	}
	base := 0
	if row != 0 {
		base = line2
	}
	for ix := range out {
		out[ix] = b.ddram[base+mod(ix+b.offset, lineLen)]
	}
	return out
}

func printable(p []byte) string {
	var sb strings.Builder
	for _, c := range p {
		if c < 0x20 || c > 0x7e {
			c = '?'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func (b *Bus) bit(v byte, n uint8) bool {
	return v&(1<<n) != 0
}

// apply sets the expander outputs to v. The controller samples RS and the
// data lines when E goes from high to low.
func (b *Bus) apply(v byte) {
	b.writes = append(b.writes, v)
	falling := b.bit(b.last, b.wiring.E) && !b.bit(v, b.wiring.E)
	b.last = v
	if !falling {
		return
	}
	rs := b.bit(v, b.wiring.RS)
	n := (v >> b.wiring.Data) & 0x0f
	if !b.fourBit {
		// D0-D3 are not connected and read as 0.
		b.execute(rs, n<<4)
		return
	}
	if !b.haveHigh {
		b.high = n
		b.haveHigh = true
		return
	}
	b.haveHigh = false
	b.execute(rs, b.high<<4|n)
}

func (b *Bus) execute(rs bool, v byte) {
	if rs {
		b.log = append(b.log, fmt.Sprintf("data 0x%02x", v))
		b.writeData(v)
		return
	}
	b.log = append(b.log, fmt.Sprintf("cmd 0x%02x", v))
	switch {
	case v&0x80 != 0:
		b.ac = v & 0x7f
		b.inCGRAM = false
	case v&0x40 != 0:
		b.ac = v & 0x3f
		b.inCGRAM = true
	case v&0x20 != 0:
		b.fourBit = v&0x10 == 0
		b.twoLine = v&0x08 != 0
	case v&0x10 != 0:
		right := v&0x04 != 0
		if v&0x08 != 0 {
			if right {
				b.offset--
			} else {
				b.offset++
			}
		} else {
			b.ac = b.step(b.ac, right)
		}
	case v&0x08 != 0:
		b.displayOn = v&0x04 != 0
		b.cursorOn = v&0x02 != 0
		b.blinkOn = v&0x01 != 0
	case v&0x04 != 0:
		b.increment = v&0x02 != 0
		b.shift = v&0x01 != 0
	case v&0x02 != 0:
		b.ac = 0
		b.offset = 0
		b.inCGRAM = false
	case v&0x01 != 0:
		for ix := range b.ddram {
			b.ddram[ix] = ' '
		}
		b.ac = 0
		b.offset = 0
		b.inCGRAM = false
		b.increment = true
	}
}

func (b *Bus) writeData(v byte) {
	if b.inCGRAM {
		b.cgram[b.ac&(cgramSize-1)] = v
		if b.increment {
			b.ac = (b.ac + 1) & (cgramSize - 1)
		} else {
			b.ac = (b.ac - 1) & (cgramSize - 1)
		}
		return
	}
	b.ddram[b.ac&(ddramSize-1)] = v
	b.ac = b.step(b.ac, b.increment)
	if b.shift {
		if b.increment {
			b.offset++
		} else {
			b.offset--
		}
	}
}

// step moves a DDRAM address by one, wrapping between the end of one line
// and the start of the next.
func (b *Bus) step(ac byte, up bool) byte {
	if !b.twoLine {
		if up {
			return byte(mod(int(ac)+1, 2*lineLen))
		}
		return byte(mod(int(ac)-1, 2*lineLen))
	}
	if up {
		switch ac {
		case lineLen - 1:
			return line2
		case line2 + lineLen - 1:
			return 0
		}
		return (ac + 1) & (ddramSize - 1)
	}
	switch ac {
	case 0:
		return line2 + lineLen - 1
	case line2:
		return lineLen - 1
	}
	return (ac - 1) & (ddramSize - 1)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

var _ i2c.BusCloser = &Bus{}
