// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cdevpin drives GPIO lines through the Linux GPIO character device
// (/dev/gpiochipN) and exposes them as gpio.PinOut.
//
// It lets the nxp74hc595 driver run on any Linux board without a periph host
// driver for its SoC: a Line names the chip and offset, and is resolved into
// a requested output when the driver is created.
package cdevpin

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/shift595/nxp74hc595"
)

// DefaultConsumer is the label shown by gpioinfo for lines requested here.
const DefaultConsumer = "74hc595"

// ErrUnsupportedPlatform is returned when the GPIO character device is not
// available on the build platform.
var ErrUnsupportedPlatform = errors.New("cdevpin: GPIO character device requires linux")

// Line identifies a GPIO line by chip and offset.
type Line struct {
	// Chip is the chip name ("gpiochip0") or path ("/dev/gpiochip0").
	Chip string
	// Offset is the line number within the chip.
	Offset int
	// Consumer labels the request. Empty means DefaultConsumer.
	Consumer string
}

func (l Line) String() string {
	return fmt.Sprintf("%s/%d", l.Chip, l.Offset)
}

func (l Line) consumer() string {
	if l.Consumer == "" {
		return DefaultConsumer
	}
	return l.Consumer
}

var _ nxp74hc595.LineSource = Line{}
