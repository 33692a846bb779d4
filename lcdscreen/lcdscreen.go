// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdscreen draws a character LCD panel to a terminal (stdout) using
// ANSI color codes, or to an image.
//
// Useful while you are waiting for your LCD backpack to come by mail, with
// hd44780test providing the panel.
package lcdscreen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Panel is the visible state of a character display.
type Panel interface {
	Lines() []string
	Backlight() bool
	DisplayOn() bool
}

var (
	// BezelColor frames the panel.
	BezelColor = color.NRGBA{0x20, 0x20, 0x20, 0xff}
	// LitColor is the glass with the backlight on.
	LitColor = color.NRGBA{0x6c, 0xc2, 0x3a, 0xff}
	// UnlitColor is the glass with the backlight off.
	UnlitColor = color.NRGBA{0x3a, 0x4a, 0x2a, 0xff}
	// InkColor is the color of the characters.
	InkColor = color.NRGBA{0x10, 0x20, 0x10, 0xff}
)

// Opts represents the options available for this display.
type Opts struct {
	// W is where frames are written. nil is a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Plain disables colors, for output that is not a terminal.
	Plain bool

	_ struct{}
}

// Dev is a character LCD emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	plain   bool

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, palette: *p, plain: opts.Plain}
}

func (d *Dev) String() string {
	return "LCDScreen"
}

// Halt resets the terminal colors.
func (d *Dev) Halt() error {
	if d.plain {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Draw writes one frame showing p.
func (d *Dev) Draw(p Panel) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	lines := p.Lines()
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	if d.plain {
		d.plainFrame(p, lines, width)
	} else {
		d.colorFrame(p, lines, width)
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) plainFrame(p Panel, lines []string, width int) {
	border := "+" + string(bytes.Repeat([]byte{'-'}, width)) + "+\n"
	_, _ = d.buf.WriteString(border)
	for _, l := range lines {
		_ = d.buf.WriteByte('|')
		_, _ = d.buf.WriteString(visible(p, l, width))
		_, _ = d.buf.WriteString("|\n")
	}
	_, _ = d.buf.WriteString(border)
}

func (d *Dev) colorFrame(p Panel, lines []string, width int) {
	bezel := d.palette.Block(BezelColor)
	glass := UnlitColor
	if p.Backlight() {
		glass = LitColor
	}
	_, _ = d.buf.WriteString("\033[0m")
	for range width + 2 {
		_, _ = io.WriteString(&d.buf, bezel)
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	for _, l := range lines {
		_, _ = io.WriteString(&d.buf, bezel)
		_, _ = fmt.Fprintf(&d.buf, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm",
			InkColor.R, InkColor.G, InkColor.B, glass.R, glass.G, glass.B)
		_, _ = d.buf.WriteString(visible(p, l, width))
		_, _ = io.WriteString(&d.buf, bezel)
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	for range width + 2 {
		_, _ = io.WriteString(&d.buf, bezel)
	}
	_, _ = d.buf.WriteString("\033[0m\n")
}

// visible pads l to width, or blanks it when the display is off.
func visible(p Panel, l string, width int) string {
	if !p.DisplayOn() {
		l = ""
	}
	for len(l) < width {
		l += " "
	}
	return l
}

var _ fmt.Stringer = &Dev{}
