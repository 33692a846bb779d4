// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Wiring describes which expander output (P0-P7) drives each controller
// line. Values are bit positions in the byte written to the expander.
// Data is the position of D4; D5-D7 follow on the next three bits.
type Wiring struct {
	Data      uint8
	RS        uint8
	RW        uint8
	E         uint8
	Backlight uint8
}

var (
	// DefaultWiring puts the data nibble on P0-P3, RS on P4, RW on P5, E on
	// P6 and the backlight transistor on P7.
	DefaultWiring = Wiring{Data: 0, RS: 4, RW: 5, E: 6, Backlight: 7}

	// BackpackWiring is the layout of the common LCD1602/LCD2004 PCF8574
	// backpack.
	//
	// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
	BackpackWiring = Wiring{RS: 0, RW: 1, E: 2, Backlight: 3, Data: 4}
)

// latch mirrors the expander output register.
type latch byte

func (w *Wiring) dataMask() latch {
	return latch(0x0f) << w.Data
}

func (l latch) with(bit uint8, on bool) latch {
	if on {
		return l | latch(1)<<bit
	}
	return l &^ (latch(1) << bit)
}

func (l latch) has(bit uint8) bool {
	return l&(latch(1)<<bit) != 0
}

// withNibble replaces the data lines with the low 4 bits of n.
func (w *Wiring) withNibble(l latch, n byte) latch {
	return l&^w.dataMask() | latch(n&0x0f)<<w.Data
}

// nibble extracts the data lines.
func (w *Wiring) nibble(l latch) byte {
	return byte((l & w.dataMask()) >> w.Data)
}

// highNibble is the latch value carrying the upper half of b.
func (w *Wiring) highNibble(l latch, b byte) latch {
	return w.withNibble(l, b>>4)
}

// lowNibble is the latch value carrying the lower half of b.
func (w *Wiring) lowNibble(l latch, b byte) latch {
	return w.withNibble(l, b)
}

func (w *Wiring) validate() error {
	if w.Data > 4 {
		return errWiring
	}
	var used latch
	for _, l := range []latch{w.dataMask(), 1 << w.RS, 1 << w.RW, 1 << w.E, 1 << w.Backlight} {
		if l == 0 || used&l != 0 {
			return errWiring
		}
		used |= l
	}
	return nil
}
