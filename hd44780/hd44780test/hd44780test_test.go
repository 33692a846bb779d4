// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testWiring = Wiring{Data: 0, RS: 4, RW: 5, E: 6, Backlight: 7}

const (
	rs = 1 << 4
	en = 1 << 6
	bl = 1 << 7
)

// nibbles encodes v as the four writes a 4-bit driver makes.
func nibbles(v byte, data bool) []byte {
	var ctl byte
	if data {
		ctl = rs
	}
	hi, lo := ctl|v>>4, ctl|v&0x0f
	return []byte{hi | en, hi, lo | en, lo}
}

func half(v byte) []byte {
	return []byte{v>>4 | en, v >> 4}
}

func initBus(t *testing.T) *Bus {
	b := New(0x27, testWiring, 2, 16)
	var w []byte
	w = append(w, 0)
	w = append(w, half(0x30)...)
	w = append(w, half(0x30)...)
	w = append(w, half(0x30)...)
	w = append(w, half(0x20)...)
	w = append(w, nibbles(0x28, false)...)
	w = append(w, nibbles(0x0c, false)...)
	w = append(w, nibbles(0x01, false)...)
	w = append(w, nibbles(0x06, false)...)
	if err := b.Tx(0x27, w, nil); err != nil {
		t.Fatal(err)
	}
	return b
}

func write(t *testing.T, b *Bus, data bool, values ...byte) {
	for _, v := range values {
		if err := b.Tx(0x27, nibbles(v, data), nil); err != nil {
			t.Fatal(err)
		}
	}
}

func TestInit(t *testing.T) {
	b := initBus(t)
	if !b.FourBit() {
		t.Error("expected 4-bit mode")
	}
	if !b.TwoLine() {
		t.Error("expected two line mode")
	}
	if !b.DisplayOn() || b.CursorOn() || b.BlinkOn() {
		t.Errorf("display control on=%t cursor=%t blink=%t", b.DisplayOn(), b.CursorOn(), b.BlinkOn())
	}
	if !b.Increment() {
		t.Error("expected increment")
	}
	want := []string{"cmd 0x30", "cmd 0x30", "cmd 0x30", "cmd 0x20", "cmd 0x28", "cmd 0x0c", "cmd 0x01", "cmd 0x06"}
	if diff := cmp.Diff(b.Log(), want); diff != "" {
		t.Errorf("Log() difference (-got +want):\n%s", diff)
	}
	if got := len(b.Writes()); got != 1+4*2+4*4 {
		t.Errorf("Writes() has %d bytes", got)
	}
}

func TestText(t *testing.T) {
	b := initBus(t)
	write(t, b, true, []byte("Hello")...)
	write(t, b, false, 0x80|0x45)
	write(t, b, true, 'A')
	lines := b.Lines()
	want := []string{"Hello           ", "     A          "}
	if diff := cmp.Diff(lines, want); diff != "" {
		t.Errorf("Lines() difference (-got +want):\n%s", diff)
	}
	if ac, cg := b.Address(); ac != 0x46 || cg {
		t.Errorf("Address()=0x%x,%t", ac, cg)
	}
	write(t, b, false, 0x01)
	if strings.TrimSpace(b.Line(0)+b.Line(1)) != "" {
		t.Errorf("clear left %q %q", b.Line(0), b.Line(1))
	}
}

func TestLineWrap(t *testing.T) {
	b := initBus(t)
	write(t, b, false, 0x80|0x27)
	write(t, b, true, 'x', 'y')
	if ac, _ := b.Address(); ac != 0x41 {
		t.Errorf("expected wrap to 0x41, got 0x%x", ac)
	}
	if b.Line(1)[0] != 'y' {
		t.Errorf("Line(1)=%q", b.Line(1))
	}
	// Right to left, back across the boundary.
	write(t, b, false, 0x04, 0x80|0x40)
	write(t, b, true, 'z', 'w')
	if ac, _ := b.Address(); ac != 0x26 {
		t.Errorf("expected wrap to 0x26, got 0x%x", ac)
	}
	if got := b.Row(1)[0]; got != 'z' {
		t.Errorf("Row(1)[0]=%q", got)
	}
}

func TestShift(t *testing.T) {
	b := initBus(t)
	write(t, b, true, 'a', 'b')
	write(t, b, false, 0x18) // display left
	if got := b.Line(0)[:2]; got != "b " {
		t.Errorf("after shift left Line(0) starts %q", got)
	}
	write(t, b, false, 0x1c, 0x1c) // display right twice
	if got := b.Line(0)[:3]; got != " ab" {
		t.Errorf("after shift right Line(0) starts %q", got)
	}
	write(t, b, false, 0x02)
	if got := b.Line(0)[:2]; got != "ab" {
		t.Errorf("home did not undo shift: %q", got)
	}
	write(t, b, false, 0x14, 0x14, 0x10) // cursor right, right, left
	if ac, _ := b.Address(); ac != 1 {
		t.Errorf("cursor shift Address()=0x%x", ac)
	}
}

func TestAutoScroll(t *testing.T) {
	b := initBus(t)
	write(t, b, false, 0x80|0x10, 0x07)
	write(t, b, true, '1', '2')
	if got := b.Line(0)[14:]; got != "12" {
		t.Errorf("expected text to scroll to the right edge, Line(0)=%q", b.Line(0))
	}
}

func TestCGRAM(t *testing.T) {
	b := initBus(t)
	glyph := [8]byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}
	write(t, b, false, 0x40|1<<3)
	write(t, b, true, glyph[:]...)
	if got := b.Glyph(1); got != glyph {
		t.Errorf("Glyph(1)=%v", got)
	}
	if _, cg := b.Address(); !cg {
		t.Error("expected address counter in CGRAM")
	}
	write(t, b, false, 0x80)
	write(t, b, true, 1)
	if got := b.Row(0)[0]; got != 1 {
		t.Errorf("Row(0)[0]=%d", got)
	}
	if got := b.Line(0)[0]; got != '?' {
		t.Errorf("Line(0)[0]=%q", got)
	}
}

func TestBacklight(t *testing.T) {
	b := initBus(t)
	if b.Backlight() {
		t.Error("backlight on after init")
	}
	if err := b.Tx(0x27, []byte{bl}, nil); err != nil {
		t.Fatal(err)
	}
	if !b.Backlight() {
		t.Error("backlight off")
	}
	// A backlight only write is not an instruction.
	if n := len(b.Log()); n != 8 {
		t.Errorf("Log() grew to %d entries", n)
	}
}

func TestErrors(t *testing.T) {
	b := New(0x27, testWiring, 2, 16)
	if err := b.Tx(0x20, []byte{0}, nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
	if err := b.Tx(0x27, nil, make([]byte, 1)); err == nil {
		t.Error("expected error on read")
	}
	if len(b.Writes()) != 0 {
		t.Error("failed transactions were applied")
	}
	if b.SetSpeed(0) != nil || b.Close() != nil {
		t.Error("SetSpeed/Close returned error")
	}
	if b.String() == "" {
		t.Error("String() empty")
	}
}
