// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// This package provides a write-only output port for the TI/NXP PCF8574 and
// PCF8574A I2C I/O Expanders. These devices provide 8 pins of
// "quasi-bidirectional" input/output, and are the chip on most LCD1602 and
// LCD2004 I2C backpacks.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// A good description of the I2C LCD backpack usage can be found here:
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// # Notes
//
// This chip doesn't implement normal i2c register architectures. You write 8
// bits out, and that sets the corresponding pins. Setting a pin to Low
// activates an Open Drain to ground.
//
// Dev never reads the pins back and never skips a write, even if the value is
// unchanged. Drivers that clock data through the expander, like an LCD
// enable strobe, depend on every write reaching the bus.
package pcf857x

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Variant represents the actual chip model.
type Variant string

const (
	PCF8574  Variant = "PCF8574"
	PCF8574A Variant = "PCF8574A"
	// Unknown is reported for addresses outside both chips' ranges, for
	// example a compatible part with different address pins.
	Unknown Variant = "PCF857x"

	// DefaultAddress is the PCF8574 with A0-A2 pulled high, as shipped on
	// most LCD backpacks.
	DefaultAddress uint16 = 0x27
)

// VariantOf returns the chip whose address range contains addr.
func VariantOf(addr uint16) Variant {
	switch {
	case addr >= 0x20 && addr <= 0x27:
		return PCF8574
	case addr >= 0x38 && addr <= 0x3f:
		return PCF8574A
	default:
		return Unknown
	}
}

// Dev is an 8 bit output port.
type Dev struct {
	d        *i2c.Dev
	chipType Variant
}

// New returns a Dev for the expander at address on bus. Nothing is written.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	if address > 0x7f {
		return nil, fmt.Errorf("pcf857x: invalid address 0x%x", address)
	}
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: address}, chipType: VariantOf(address)}, nil
}

// Write sets all 8 pins in one I2C transaction.
func (dev *Dev) Write(value byte) error {
	if err := dev.d.Tx([]byte{value}, nil); err != nil {
		return fmt.Errorf("pcf857x: %w", err)
	}
	return nil
}

// Addr returns the I2C address.
func (dev *Dev) Addr() uint16 {
	return dev.d.Addr
}

func (dev *Dev) String() string {
	return fmt.Sprintf("%s_%x", dev.chipType, dev.d.Addr)
}

var _ fmt.Stringer = &Dev{}
