// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// LineSource supplies one of the data, clock or latch lines.
//
// Use wraps a line that is already configured. ByName resolves a pin
// identifier through gpioreg. Other packages, such as cdevpin, provide their
// own sources.
type LineSource interface {
	// Resolve returns the output line. It is called once, when the driver is
	// created, and the driver owns the line from then on.
	Resolve() (gpio.PinOut, error)
}

// Use returns a LineSource for an existing line.
func Use(p gpio.PinOut) LineSource {
	return pinLine{p: p}
}

type pinLine struct {
	p gpio.PinOut
}

func (l pinLine) Resolve() (gpio.PinOut, error) {
	if l.p == nil {
		return nil, errors.New("no pin")
	}
	return l.p, nil
}

// ByName is the name, number or alias of a pin registered in gpioreg, for
// example "GPIO17" or "17". host.Init() must have been called.
type ByName string

// Resolve implements LineSource.
func (n ByName) Resolve() (gpio.PinOut, error) {
	p := gpioreg.ByName(string(n))
	if p == nil {
		return nil, fmt.Errorf("pin %q not found", string(n))
	}
	return p, nil
}

var _ LineSource = ByName("")
