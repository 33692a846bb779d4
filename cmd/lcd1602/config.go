// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/GermanBionicSystems/lcd1602/hd44780"
	"gopkg.in/yaml.v3"
)

// config is the YAML file layout. Flags given on the command line override it.
//
//	bus: "/dev/i2c-1"
//	address: 0x27
//	rows: 2
//	cols: 16
//	wiring: backpack
//	backlight: true
type config struct {
	Bus       string `yaml:"bus"`
	Address   string `yaml:"address"`
	Rows      int    `yaml:"rows"`
	Cols      int    `yaml:"cols"`
	Wiring    string `yaml:"wiring"`
	Backlight bool   `yaml:"backlight"`
	Cursor    bool   `yaml:"cursor"`
	Blink     bool   `yaml:"blink"`
	RTL       bool   `yaml:"rtl"`
}

func defaultConfig() config {
	return config{
		Address:   fmt.Sprintf("0x%x", hd44780.DefaultOpts.Addr),
		Rows:      hd44780.DefaultOpts.Rows,
		Cols:      hd44780.DefaultOpts.Cols,
		Wiring:    "default",
		Backlight: true,
	}
}

func loadConfig(path string, c *config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// opts converts c to driver options.
func (c *config) opts() (*hd44780.Opts, error) {
	addr, err := strconv.ParseUint(c.Address, 0, 7)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", c.Address, err)
	}
	w, err := wiringByName(c.Wiring)
	if err != nil {
		return nil, err
	}
	return &hd44780.Opts{
		Addr:    uint16(addr),
		Rows:    c.Rows,
		Cols:    c.Cols,
		BusName: c.Bus,
		Wiring:  w,
	}, nil
}

func wiringByName(name string) (*hd44780.Wiring, error) {
	switch name {
	case "", "default":
		return &hd44780.DefaultWiring, nil
	case "backpack":
		return &hd44780.BackpackWiring, nil
	default:
		return nil, fmt.Errorf("unknown wiring %q, expected default or backpack", name)
	}
}
