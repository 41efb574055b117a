// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Driver bit-bangs values into a 74HC595 over three output lines. It keeps
// no memory of what was written; see Dev for that.
//
// Driver is not safe for concurrent use.
type Driver struct {
	data  gpio.PinOut
	clock gpio.PinOut
	latch gpio.PinOut
}

// NewDriver resolves the three lines, drives them low and runs one latch
// cycle so the outputs are stable.
func NewDriver(data, clock, latch LineSource) (*Driver, error) {
	lines := make([]gpio.PinOut, 3)
	for ix, src := range []LineSource{data, clock, latch} {
		if src == nil {
			return nil, fmt.Errorf("nxp74hc595: %s line is nil", lineNames[ix])
		}
		p, err := src.Resolve()
		if err != nil {
			return nil, fmt.Errorf("nxp74hc595: %s line: %w", lineNames[ix], err)
		}
		if err = p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("nxp74hc595: %s line: %w", lineNames[ix], err)
		}
		lines[ix] = p
	}
	d := &Driver{data: lines[0], clock: lines[1], latch: lines[2]}
	if err := d.End(); err != nil {
		return nil, err
	}
	return d, nil
}

var lineNames = [...]string{"data", "clock", "latch"}

// PushBit clocks one bit into the shift chain. The outputs do not change.
func (d *Driver) PushBit(l gpio.Level) error {
	if err := d.clock.Out(gpio.Low); err != nil {
		return d.wrap(err)
	}
	if err := d.data.Out(l); err != nil {
		return d.wrap(err)
	}
	return d.wrap(d.clock.Out(gpio.High))
}

// Begin opens a transfer by pulling the latch low. The outputs keep showing
// the previously latched byte until End.
func (d *Driver) Begin() error {
	return d.cycle(gpio.Low)
}

// End closes a transfer. The rising latch edge copies the shift chain to the
// outputs in one step.
func (d *Driver) End() error {
	return d.cycle(gpio.High)
}

func (d *Driver) cycle(latch gpio.Level) error {
	if err := d.clock.Out(gpio.Low); err != nil {
		return d.wrap(err)
	}
	if err := d.latch.Out(latch); err != nil {
		return d.wrap(err)
	}
	return d.wrap(d.clock.Out(gpio.High))
}

// WriteValue shifts v out MSB first and latches it, so bit i lands on output
// Qi. v must be in [0, 255].
func (d *Driver) WriteValue(v int) error {
	if v < 0 || v > devMask {
		return fmt.Errorf("nxp74hc595: value %d: %w", v, ErrRange)
	}
	if err := d.Begin(); err != nil {
		return err
	}
	for ix := numPins - 1; ix >= 0; ix-- {
		if err := d.PushBit((v>>ix)&1 == 1); err != nil {
			return err
		}
	}
	return d.End()
}

// WriteByte implements io.ByteWriter.
func (d *Driver) WriteByte(b byte) error {
	return d.WriteValue(int(b))
}

// WriteBits pushes exactly eight levels in slice order and latches them. The
// first element ends up on Q7.
func (d *Driver) WriteBits(bits []bool) error {
	if len(bits) != numPins {
		return fmt.Errorf("nxp74hc595: %d bits: %w", len(bits), ErrRange)
	}
	if err := d.Begin(); err != nil {
		return err
	}
	for _, b := range bits {
		if err := d.PushBit(gpio.Level(b)); err != nil {
			return err
		}
	}
	return d.End()
}

// Halt halts the three lines.
func (d *Driver) Halt() error {
	for _, p := range []gpio.PinOut{d.data, d.clock, d.latch} {
		if err := p.Halt(); err != nil {
			return d.wrap(err)
		}
	}
	return nil
}

func (d *Driver) String() string {
	return fmt.Sprintf("%s{data: %s, clock: %s, latch: %s}", devName, d.data, d.clock, d.latch)
}

func (d *Driver) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("nxp74hc595: %w", err)
}
