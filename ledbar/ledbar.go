// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledbar shows the eight outputs of a shift register as a row of
// LEDs, either in a terminal using ANSI color codes or as an image.
//
// Useful while you are waiting for your LEDs and resistors to come by mail.
package ledbar

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	numLEDs = 8
	cell    = 40
	height  = 56
)

// Opts represents the options available for a Bar.
type Opts struct {
	// W receives the terminal output. nil means stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// On and Off are the colors of lit and dark LEDs. Zero values mean red
	// and dark grey.
	On  color.NRGBA
	Off color.NRGBA

	_ struct{}
}

// Bar renders a byte as eight LEDs, Q7 on the left.
type Bar struct {
	w       io.Writer
	palette ansi256.Palette
	on      color.NRGBA
	off     color.NRGBA

	buf bytes.Buffer
}

// New returns a Bar. A nil opts uses the defaults.
func New(opts *Opts) *Bar {
	if opts == nil {
		opts = &Opts{}
	}
	b := &Bar{
		w:   opts.W,
		on:  opts.On,
		off: opts.Off,
	}
	if b.w == nil {
		b.w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	b.palette = *p
	if b.on == (color.NRGBA{}) {
		b.on = color.NRGBA{R: 255, A: 255}
	}
	if b.off == (color.NRGBA{}) {
		b.off = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	}
	return b
}

func (b *Bar) String() string {
	return "LEDBar"
}

// Halt resets the terminal colors and ends the line.
func (b *Bar) Halt() error {
	_, err := b.w.Write([]byte("\n\033[0m"))
	return err
}

// Show redraws the bar in place with the levels in v.
func (b *Bar) Show(v byte) error {
	// This code is designed to minimize the amount of memory allocated per call.
	b.buf.Reset()
	_, _ = b.buf.WriteString("\r\033[0m")
	for ix := numLEDs - 1; ix >= 0; ix-- {
		_, _ = io.WriteString(&b.buf, b.palette.Block(b.color(v, ix)))
	}
	_, _ = fmt.Fprintf(&b.buf, "\033[0m %08b", v)
	_, err := b.buf.WriteTo(b.w)
	return err
}

func (b *Bar) color(v byte, ix int) color.NRGBA {
	if v&(1<<ix) != 0 {
		return b.on
	}
	return b.off
}

// Image draws the bar with each LED labelled Q0 to Q7.
func (b *Bar) Image(v byte) image.Image {
	dc := gg.NewContext(numLEDs*cell, height)
	dc.SetColor(color.Black)
	dc.Clear()
	face := labelFace()
	if face != nil {
		dc.SetFontFace(face)
	}
	for ix := 0; ix < numLEDs; ix++ {
		x := float64((numLEDs-1-ix)*cell + cell/2)
		dc.SetColor(b.color(v, ix))
		dc.DrawCircle(x, cell/2, cell/2-6)
		dc.Fill()
		if face != nil {
			dc.SetColor(color.White)
			dc.DrawStringAnchored(fmt.Sprintf("Q%d", ix), x, height-8, 0.5, 0)
		}
	}
	return dc.Image()
}

// SavePNG writes Image(v) to path.
func (b *Bar) SavePNG(path string, v byte) error {
	return gg.SavePNG(path, b.Image(v))
}

var (
	faceOnce sync.Once
	face     font.Face
)

// labelFace returns the Go Regular face used for labels, or nil if the
// embedded font can't be parsed.
func labelFace() font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face = truetype.NewFace(f, &truetype.Options{Size: 11})
	})
	return face
}

var _ fmt.Stringer = &Bar{}
