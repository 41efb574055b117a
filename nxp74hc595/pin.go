// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is one output of a Dev. It is always an output; every input related
// call fails with ErrUnsupported.
type Pin struct {
	dev    *Dev
	name   string
	number int
}

// Halt implements conn.Resource.
func (pin *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPIO pin.
func (pin *Pin) Name() string {
	return pin.name
}

// Number returns the number of the GPIO pin.
func (pin *Pin) Number() int {
	return pin.number
}

// Deprecated: returns "Out"
func (pin *Pin) Function() string {
	return "Out"
}

// Func implements pin.PinFunc. It is always gpio.OUT.
func (pin *Pin) Func() pin.Func {
	return gpio.OUT
}

// SupportedFuncs implements pin.PinFunc.
func (pin *Pin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

// SetFunc accepts gpio.OUT only.
func (pin *Pin) SetFunc(f pin.Func) error {
	if f != gpio.OUT {
		return fmt.Errorf("nxp74hc595: %s: function %s: %w", pin.name, f, ErrUnsupported)
	}
	return nil
}

// Write the specified gpio.Level to the pin.
func (pin *Pin) Out(l gpio.Level) error {
	return pin.dev.WriteBit(pin.number, l)
}

// SwitchToOutput confirms the pin is an output and sets it to l.
func (pin *Pin) SwitchToOutput(l gpio.Level) error {
	if err := pin.SetFunc(gpio.OUT); err != nil {
		return err
	}
	return pin.Out(l)
}

// Read returns the level last written to the pin.
func (pin *Pin) Read() gpio.Level {
	return pin.dev.level(pin.number)
}

// In always fails, the device has no inputs.
func (pin *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	return fmt.Errorf("nxp74hc595: %s: input: %w", pin.name, ErrUnsupported)
}

// WaitForEdge always returns false.
func (pin *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull returns gpio.Float, there is no pull resistor.
func (pin *Pin) Pull() gpio.Pull {
	return gpio.Float
}

// DefaultPull returns gpio.Float.
func (pin *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// SetPull accepts gpio.Float and gpio.PullNoChange. Pull up and pull down
// fail with ErrUnsupported.
func (pin *Pin) SetPull(p gpio.Pull) error {
	switch p {
	case gpio.Float, gpio.PullNoChange:
		return nil
	default:
		return fmt.Errorf("nxp74hc595: %s: pull %s: %w", pin.name, p, ErrUnsupported)
	}
}

// Not implemented.
func (pin *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("nxp74hc595: %s: pwm: %w", pin.name, ErrUnsupported)
}

func (pin *Pin) String() string {
	return pin.name
}

var supportedFuncs = [...]pin.Func{gpio.OUT}

var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
