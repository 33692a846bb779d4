// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/lcd1602/hd44780"
	"github.com/google/go-cmp/cmp"
)

func TestSim(t *testing.T) {
	var buf bytes.Buffer
	if err := mainImpl([]string{"-sim", "Hello", "World"}, &buf); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"+----------------+\n" +
		"|Hello           |\n" +
		"|World           |\n" +
		"+----------------+\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("output difference (-got +want):\n%s", diff)
	}
}

func TestSimRTL(t *testing.T) {
	var buf bytes.Buffer
	if err := mainImpl([]string{"-sim", "-rtl", "-cols", "8", "-wiring", "backpack", "dlrow"}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "+--------+\n|   world|\n|        |\n+--------+\n" {
		t.Errorf("output:\n%s", got)
	}
}

func TestSimPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lcd.png")
	var buf bytes.Buffer
	if err := mainImpl([]string{"-sim", "-png", out, "png"}, &buf); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err = png.Decode(f); err != nil {
		t.Error(err)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lcd.yaml")
	raw := "bus: /dev/i2c-3\naddress: 0x3f\nrows: 1\ncols: 20\nwiring: backpack\nbacklight: false\nblink: true\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	c := defaultConfig()
	if err := loadConfig(path, &c); err != nil {
		t.Fatal(err)
	}
	opts, err := c.opts()
	if err != nil {
		t.Fatal(err)
	}
	want := hd44780.Opts{Addr: 0x3f, Rows: 1, Cols: 20, BusName: "/dev/i2c-3", Wiring: &hd44780.BackpackWiring}
	if diff := cmp.Diff(*opts, want); diff != "" {
		t.Errorf("opts difference (-got +want):\n%s", diff)
	}
	if c.Backlight || !c.Blink {
		t.Errorf("Backlight=%t Blink=%t", c.Backlight, c.Blink)
	}

	var buf bytes.Buffer
	if err := mainImpl([]string{"-config", path, "-sim", "-addr", "0x20", "one"}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "+--------------------+\n|one                 |\n+--------------------+\n" {
		t.Errorf("output:\n%s", got)
	}
}

func TestErrors(t *testing.T) {
	tests := [][]string{
		{"-png", "x.png"},
		{"-sim", "-addr", "0x80"},
		{"-sim", "-addr", "zz"},
		{"-sim", "-wiring", "other"},
		{"-sim", "-rows", "3"},
		{"-sim", "a", "b", "c"},
		{"-config", "/nonexistent/lcd.yaml"},
		{"-nosuchflag"},
	}
	for _, args := range tests {
		var buf bytes.Buffer
		if err := mainImpl(args, &buf); err == nil {
			t.Errorf("mainImpl(%q) expected error", args)
		}
	}
}
