// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package cdevpin

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Resolve requests the line as an output driven low.
func (l Line) Resolve() (gpio.PinOut, error) {
	return Open(l)
}

// Open requests l as an output driven low.
func Open(l Line) (*Pin, error) {
	req, err := gpiocdev.RequestLine(l.Chip, l.Offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(l.consumer()))
	if err != nil {
		return nil, fmt.Errorf("cdevpin: %s: %w", l, err)
	}
	return &Pin{line: l, req: req}, nil
}

// Pin is a requested output line.
type Pin struct {
	line Line

	mu  sync.Mutex
	req *gpiocdev.Line
}

func (p *Pin) String() string {
	return p.line.String()
}

// Halt releases the line. The kernel keeps the last driven value until
// another consumer requests it.
func (p *Pin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.req == nil {
		return nil
	}
	err := p.req.Close()
	p.req = nil
	if err != nil {
		return fmt.Errorf("cdevpin: %s: %w", p.line, err)
	}
	return nil
}

// Name returns "chip/offset".
func (p *Pin) Name() string {
	return p.line.String()
}

// Number returns the offset on the chip.
func (p *Pin) Number() int {
	return p.line.Offset
}

// Deprecated: returns "Out"
func (p *Pin) Function() string {
	return "Out"
}

// Out sets the line level.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.req == nil {
		return fmt.Errorf("cdevpin: %s: halted", p.line)
	}
	v := 0
	if l {
		v = 1
	}
	if err := p.req.SetValue(v); err != nil {
		return fmt.Errorf("cdevpin: %s: %w", p.line, err)
	}
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("cdevpin: %s: pwm not supported", p.line)
}

var _ gpio.PinOut = &Pin{}
