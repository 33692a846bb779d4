// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdscreen

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
)

// ImageOpts controls Image.
type ImageOpts struct {
	// FontSize in points. 0 means 24.
	FontSize float64
	// Padding around the glass, in pixels. 0 means 16.
	Padding float64
}

// Image draws p the way the physical panel would look.
func Image(p Panel, opts *ImageOpts) (image.Image, error) {
	if opts == nil {
		opts = &ImageOpts{}
	}
	size := opts.FontSize
	if size <= 0 {
		size = 24
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = 16
	}
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("lcdscreen: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	defer face.Close()

	lines := p.Lines()
	cols := 0
	for _, l := range lines {
		cols = max(cols, len(l))
	}
	// Size a cell from a wide glyph; gomono is fixed width.
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	cw, ch := measure.MeasureString("M")
	ch *= 1.5

	w := int(2*padding + float64(cols)*cw + 0.5)
	h := int(2*padding + float64(len(lines))*ch + 0.5)
	dc := gg.NewContext(w, h)
	dc.SetColor(BezelColor)
	dc.Clear()

	dc.SetColor(UnlitColor)
	if p.Backlight() {
		dc.SetColor(LitColor)
	}
	dc.DrawRoundedRectangle(padding/2, padding/2, float64(w)-padding, float64(h)-padding, padding/2)
	dc.Fill()

	if p.DisplayOn() {
		dc.SetFontFace(face)
		dc.SetColor(InkColor)
		for row, l := range lines {
			y := padding + float64(row)*ch + ch*0.75
			for col, c := range []byte(l) {
				if c == ' ' {
					continue
				}
				dc.DrawString(string(rune(c)), padding+float64(col)*cw, y)
			}
		}
	}
	return dc.Image(), nil
}

// EncodePNG writes Image(p, opts) to w as a PNG.
func EncodePNG(w io.Writer, p Panel, opts *ImageOpts) error {
	img, err := Image(p, opts)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}
