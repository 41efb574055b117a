// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// The 74HC595 is a serial shift register. It converts a serial stream to a
// parallel output. This package drives it by bit-banging three GPIO lines
// (data, clock and latch) rather than through an SPI port, so any three
// output pins will do.
//
// Driver implements the raw shift/latch protocol. Dev wraps a Driver, keeps a
// copy of the last byte written and exposes each output as a gpio.PinIO, so
// the chip can stand in for eight ordinary output pins.
//
// Bits are shifted most significant first: bit i of a written value appears
// on output Qi.
//
// # Datasheet
//
// https://www.nexperia.com/product/74HC595D
//
// There's a nice tutorial on the device here:
//
// https://docs.arduino.cc/tutorials/communication/guide-to-shift-out/
package nxp74hc595

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

const (
	devMask = 0xff
	devName = "74HC595"
	numPins = 8
)

var (
	// ErrRange is returned when a value, bit count or pin number is outside
	// what the chip accepts. Nothing is written to the lines in that case.
	ErrRange = errors.New("nxp74hc595: out of range")
	// ErrUnsupported is returned for input, pull, PWM and edge operations.
	// The 74HC595 only has outputs.
	ErrUnsupported = errors.New("nxp74hc595: not supported by an output only device")
)

// Opts holds the configuration for a Dev.
type Opts struct {
	// InitialState is written to the chip by New.
	InitialState byte
}

// DefaultOpts clears every output on start.
var DefaultOpts = Opts{}

// Dev represents a 74hc595 device and the byte last written to it.
//
// Dev is not safe for concurrent use. Two goroutines writing different pins
// can lose an update since every write resends the whole byte.
type Dev struct {
	// Pins holds one handle per output, Q0 to Q7.
	Pins []gpio.PinIO

	drv   *Driver
	value byte
}

// Group implements gpio.Group and provides a way to write to multiple GPO pins
// in a single transaction.
type Group struct {
	dev  *Dev
	pins []Pin
}

// New creates a Driver on the three lines and writes opts.InitialState to
// it. A nil opts is the same as &DefaultOpts.
func New(data, clock, latch LineSource, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	drv, err := NewDriver(data, clock, latch)
	if err != nil {
		return nil, err
	}
	dev := &Dev{drv: drv, value: opts.InitialState, Pins: make([]gpio.PinIO, numPins)}
	for ix := range numPins {
		dev.Pins[ix] = dev.newPin(ix)
	}
	if err = dev.Update(); err != nil {
		return nil, err
	}
	return dev, nil
}

// Update writes the cached byte to the chip again.
func (dev *Dev) Update() error {
	return dev.drv.WriteByte(dev.value)
}

// Value returns the byte last written to the chip.
func (dev *Dev) Value() byte {
	return dev.value
}

// Write replaces all eight outputs with v.
func (dev *Dev) Write(v byte) error {
	return dev.write(v, devMask)
}

// WriteBit sets output n to l and resends the byte.
func (dev *Dev) WriteBit(n int, l gpio.Level) error {
	if err := checkPin(n); err != nil {
		return err
	}
	mask := byte(1) << n
	v := byte(0)
	if l {
		v = mask
	}
	return dev.write(v, mask)
}

// ReadBit returns the level last written to output n. The chip can't be read
// back, so this is the cached value.
func (dev *Dev) ReadBit(n int) (gpio.Level, error) {
	if err := checkPin(n); err != nil {
		return gpio.Low, err
	}
	return dev.level(n), nil
}

// Pin returns a new handle on output n. Handles on the same output share its
// state.
func (dev *Dev) Pin(n int) (*Pin, error) {
	if err := checkPin(n); err != nil {
		return nil, err
	}
	return dev.newPin(n), nil
}

func (dev *Dev) newPin(n int) *Pin {
	return &Pin{number: n, name: fmt.Sprintf("%s_GPO%d", devName, n), dev: dev}
}

func (dev *Dev) level(n int) gpio.Level {
	return dev.value&(1<<n) != 0
}

// write sets the bits of mask to those in value and transfers the result.
// The cache only moves once the transfer has completed.
func (dev *Dev) write(value, mask byte) error {
	newValue := dev.value&^mask | value&mask
	if err := dev.drv.WriteByte(newValue); err != nil {
		return err
	}
	dev.value = newValue
	return nil
}

// Group returns a subset of pins on the device as a gpio.Group. A Group
// allows you to write to multiple pins in a single transaction.
func (dev *Dev) Group(pins ...int) (gpio.Group, error) {
	gr := Group{dev: dev, pins: make([]Pin, len(pins))}
	for ix, pinNumber := range pins {
		if err := checkPin(pinNumber); err != nil {
			return nil, err
		}
		gr.pins[ix] = *dev.newPin(pinNumber)
	}
	return &gr, nil
}

// Halt halts the underlying lines. The outputs keep their last value.
func (dev *Dev) Halt() error {
	dev.Pins = make([]gpio.PinIO, 0)
	return dev.drv.Halt()
}

func (dev *Dev) String() string {
	return devName
}

func checkPin(n int) error {
	if n < 0 || n >= numPins {
		return fmt.Errorf("nxp74hc595: pin %d: %w", n, ErrRange)
	}
	return nil
}

// Return the set of GPO Pins that are associated with this group.
func (gr *Group) Pins() []pin.Pin {
	result := make([]pin.Pin, len(gr.pins))
	for ix := range gr.pins {
		result[ix] = &gr.pins[ix]
	}
	return result
}

// Given an offset of a pin into the group, return that pin.
func (gr *Group) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(gr.pins) {
		return nil
	}
	return &gr.pins[offset]
}

// Given a name of a pin in the group, return that pin.
func (gr *Group) ByName(name string) pin.Pin {
	for ix := range gr.pins {
		if gr.pins[ix].name == name {
			return &gr.pins[ix]
		}
	}
	return nil
}

// Given the pin number of a pin within the group, return that pin.
func (gr *Group) ByNumber(number int) pin.Pin {
	for ix := range gr.pins {
		if gr.pins[ix].number == number {
			return &gr.pins[ix]
		}
	}
	return nil
}

// Out writes the value to the device. Only pins identified by mask are
// modified. A zero mask selects every pin of the group.
func (gr *Group) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(gr.pins)) - 1
	}
	wrMask := byte(0)
	wrValue := byte(0)
	for ix := range gr.pins {
		currentBit := gpio.GPIOValue(1 << ix)
		if mask&currentBit == 0 {
			continue
		}
		devBit := byte(1) << gr.pins[ix].number
		wrMask |= devBit
		if value&currentBit != 0 {
			wrValue |= devBit
		}
	}
	return gr.dev.write(wrValue, wrMask)
}

// Read returns the cached levels of the group pins selected by mask.
func (gr *Group) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(gr.pins)) - 1
	}
	result := gpio.GPIOValue(0)
	for ix := range gr.pins {
		currentBit := gpio.GPIOValue(1 << ix)
		if mask&currentBit != 0 && gr.dev.level(gr.pins[ix].number) {
			result |= currentBit
		}
	}
	return result, nil
}

// WaitForEdge is not available for this device.
func (gr *Group) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, ErrUnsupported
}

// Halt frees the group's resources and prevents it from being used again.
func (gr *Group) Halt() error {
	gr.pins = nil
	return nil
}

func (gr *Group) String() string {
	s := gr.dev.String() + "[ "
	for ix := range gr.pins {
		s += fmt.Sprintf("%d ", gr.pins[ix].number)
	}
	s += "]"
	return s
}

var _ gpio.Group = &Group{}
