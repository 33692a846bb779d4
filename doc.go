// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd1602 is a container for the driver of HD44780 character LCDs on
// PCF8574 I²C backpacks.
//
// The driver is in hd44780, the expander port in pcf857x. hd44780/hd44780test
// emulates the hardware and lcdscreen draws what it shows, so code can be
// tried without a display. cmd/lcd1602 is a command line front end.
package lcd1602
