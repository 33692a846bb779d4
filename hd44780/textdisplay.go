// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// AutoScroll implements display.TextDisplay. See SetAutoScroll.
func (d *Dev) AutoScroll(enabled bool) error {
	return d.SetAutoScroll(enabled)
}

// Return the number of columns the display supports
func (d *Dev) Cols() int {
	return d.opts.Cols
}

// Return the number of rows the display supports.
func (d *Dev) Rows() int {
	return d.opts.Rows
}

// Return the min column position.
func (d *Dev) MinCol() int {
	return 1
}

// Return the min row position.
func (d *Dev) MinRow() int {
	return 1
}

// Set the cursor mode. You can pass multiple arguments, they are applied in
// order and sent as a single display control command.
// Cursor(CursorOff, CursorUnderline)
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	control := d.control
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			control &^= cursorOn | blinkOn
		case display.CursorUnderline:
			control |= cursorOn
		case display.CursorBlink, display.CursorBlock:
			control |= blinkOn
		default:
			return fmt.Errorf("hd44780: unexpected cursor: %d", mode)
		}
	}
	d.control = control
	return d.command(cmdDisplay|d.control, delayCommand)
}

// Move the cursor forward or backward. Up and down are not supported.
func (d *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Backward:
		return d.ShiftCursor(false)
	case display.Forward:
		return d.ShiftCursor(true)
	default:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
}

// Move the cursor to arbitrary position. Unlike SetCursorPosition, row and col
// are one based and checked against the display geometry.
func (d *Dev) MoveTo(row, col int) error {
	if row < d.MinRow() || row > d.opts.Rows || col < d.MinCol() || col > d.opts.Cols {
		return fmt.Errorf("hd44780: MoveTo(%d,%d) value out of range", row, col)
	}
	return d.SetCursorPosition(row-1, col-1)
}

// Turn the display on / off
func (d *Dev) Display(on bool) error {
	return d.SetDisplayVisible(on)
}

// Turn the display's backlight on or off. Any non zero intensity is on.
func (d *Dev) Backlight(intensity display.Intensity) error {
	return d.SetBacklight(intensity > 0)
}

// Return info about the display.
func (d *Dev) String() string {
	name := fmt.Sprintf("0x%02x", d.opts.Addr)
	if d.port != nil {
		name = d.port.String()
	}
	return fmt.Sprintf("HD44780::%s - Rows: %d, Cols: %d", name, d.opts.Rows, d.opts.Cols)
}

// Halt clears the display, turns the backlight off, and turns the display off.
// If Init opened the bus, it is closed.
func (d *Dev) Halt() error {
	var err error
	if d.port != nil {
		err = errors.Join(d.Clear(), d.SetBacklight(false), d.SetDisplayVisible(false))
	}
	if d.closer != nil {
		err = errors.Join(err, d.closer.Close())
		d.closer = nil
		d.bus = nil
		d.port = nil
	}
	return err
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
