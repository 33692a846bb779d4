// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command lcd1602 writes text to an HD44780 character LCD behind a PCF8574
// I²C expander.
//
// Usage:
//
//	lcd1602 [flags] [line1] [line2]
//
// Examples:
//
//	# Write two lines on the display at 0x3f of a common backpack
//	lcd1602 -addr 0x3f -wiring backpack "Hello" "World"
//
//	# Try it without hardware and save a picture
//	lcd1602 -sim -png hello.png "Hello" "World"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/GermanBionicSystems/lcd1602/hd44780"
	"github.com/GermanBionicSystems/lcd1602/hd44780/hd44780test"
	"github.com/GermanBionicSystems/lcd1602/lcdscreen"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("lcd1602: %v", err)
	}
}

func mainImpl(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lcd1602", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	bus := fs.String("bus", "", "I²C bus name, empty for the first bus")
	addr := fs.String("addr", "", "expander I²C address")
	rows := fs.Int("rows", 0, "display rows")
	cols := fs.Int("cols", 0, "display columns")
	wiring := fs.String("wiring", "", "expander wiring: default or backpack")
	backlight := fs.Bool("backlight", true, "turn the backlight on")
	cursor := fs.Bool("cursor", false, "show the underline cursor")
	blink := fs.Bool("blink", false, "blink the block cursor")
	rtl := fs.Bool("rtl", false, "write right to left")
	sim := fs.Bool("sim", false, "drive an emulated display and print it")
	pngPath := fs.String("png", "", "with -sim, also save the display as a PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := defaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &c); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bus":
			c.Bus = *bus
		case "addr":
			c.Address = *addr
		case "rows":
			c.Rows = *rows
		case "cols":
			c.Cols = *cols
		case "wiring":
			c.Wiring = *wiring
		case "backlight":
			c.Backlight = *backlight
		case "cursor":
			c.Cursor = *cursor
		case "blink":
			c.Blink = *blink
		case "rtl":
			c.RTL = *rtl
		}
	})
	if *pngPath != "" && !*sim {
		return fmt.Errorf("-png requires -sim")
	}
	if fs.NArg() > c.Rows {
		return fmt.Errorf("%d lines given for a %d row display", fs.NArg(), c.Rows)
	}

	opts, err := c.opts()
	if err != nil {
		return err
	}
	var emu *hd44780test.Bus
	var dev *hd44780.Dev
	if *sim {
		emu = hd44780test.New(opts.Addr, hd44780test.Wiring(*opts.Wiring), opts.Rows, opts.Cols)
		if dev, err = hd44780.New(emu, opts); err != nil {
			return err
		}
		err = dev.Init(false)
	} else {
		if dev, err = hd44780.New(nil, opts); err != nil {
			return err
		}
		err = dev.Init(true)
	}
	if err != nil {
		return err
	}
	if err = show(dev, &c, fs.Args()); err != nil {
		return err
	}
	if emu == nil {
		return nil
	}

	screenOpts := &lcdscreen.Opts{W: stdout, Plain: true}
	if isTerminal(stdout) {
		// Colored, through colorable stdout.
		screenOpts = &lcdscreen.Opts{}
	}
	screen := lcdscreen.New(screenOpts)
	if err = screen.Draw(emu); err != nil {
		return err
	}
	if err = screen.Halt(); err != nil {
		return err
	}
	if *pngPath != "" {
		f, err := os.Create(*pngPath)
		if err != nil {
			return err
		}
		if err = lcdscreen.EncodePNG(f, emu, nil); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}

// show applies the display settings and writes one line per row.
func show(dev *hd44780.Dev, c *config, lines []string) error {
	if err := dev.SetBacklight(c.Backlight); err != nil {
		return err
	}
	if err := dev.SetCursorVisible(c.Cursor); err != nil {
		return err
	}
	if err := dev.SetCursorBlink(c.Blink); err != nil {
		return err
	}
	if err := dev.SetTextDirection(!c.RTL); err != nil {
		return err
	}
	for row, l := range lines {
		col := 0
		if c.RTL {
			col = c.Cols - 1
		}
		if err := dev.SetCursorPosition(row, col); err != nil {
			return err
		}
		if len(l) > c.Cols {
			l = l[:c.Cols]
		}
		if _, err := dev.WriteString(l); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
