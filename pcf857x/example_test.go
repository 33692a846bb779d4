// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x_test

import (
	"log"
	"time"

	"github.com/GermanBionicSystems/lcd1602/pcf857x"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open default I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	port, err := pcf857x.New(bus, pcf857x.DefaultAddress)
	if err != nil {
		log.Fatalln(err)
	}

	// Walk a single high bit across P0-P7.
	for ix := range 8 {
		if err = port.Write(1 << ix); err != nil {
			log.Fatalln(err)
		}
		time.Sleep(250 * time.Millisecond)
	}
	_ = port.Write(0)
}
