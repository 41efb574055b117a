// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nxp74hc595test is meant to be used to test drivers of a 74HC595
// without the chip.
//
// Chip models the shift and storage registers and decodes the waveform
// written to its three lines, so tests can check what a real chip would
// show on its outputs.
package nxp74hc595test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Op is one level change on a line.
type Op struct {
	Line  string
	Level gpio.Level
}

func (o Op) String() string {
	return fmt.Sprintf("%s=%s", o.Line, o.Level)
}

// Chip is a software 74HC595.
//
// A rising edge on Clock shifts the level of Data into the shift register. A
// rising edge on Latch copies the shift register to the outputs.
type Chip struct {
	Data  *Line
	Clock *Line
	Latch *Line

	mu       sync.Mutex
	shift    byte
	outputs  byte
	latched  []byte
	ops      []Op
	onLatch  func(byte)
	dataBit  gpio.Level
	clockBit gpio.Level
	latchBit gpio.Level
}

// NewChip returns a Chip with all lines and outputs low.
func NewChip() *Chip {
	c := &Chip{}
	c.Data = &Line{chip: c, N: "DATA", Num: 0}
	c.Clock = &Line{chip: c, N: "CLOCK", Num: 1}
	c.Latch = &Line{chip: c, N: "LATCH", Num: 2}
	return c
}

// Outputs returns the levels of Q0 to Q7 as bits 0 to 7.
func (c *Chip) Outputs() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputs
}

// Shift returns the current content of the shift register.
func (c *Chip) Shift() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shift
}

// Latched returns every value copied to the outputs, oldest first.
func (c *Chip) Latched() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.latched...)
}

// Ops returns every level written to the lines, in order.
func (c *Chip) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// Reset forgets the recorded ops and latched values. Register contents are
// kept.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
	c.latched = nil
}

// OnLatch registers f to be called with the new outputs on every latch.
func (c *Chip) OnLatch(f func(byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLatch = f
}

func (c *Chip) set(line *Line, l gpio.Level) {
	c.mu.Lock()
	c.ops = append(c.ops, Op{Line: line.N, Level: l})
	var f func(byte)
	var out byte
	switch line {
	case c.Data:
		c.dataBit = l
	case c.Clock:
		if l && !c.clockBit {
			c.shift <<= 1
			if c.dataBit {
				c.shift |= 1
			}
		}
		c.clockBit = l
	case c.Latch:
		if l && !c.latchBit {
			c.outputs = c.shift
			c.latched = append(c.latched, c.outputs)
			f, out = c.onLatch, c.outputs
		}
		c.latchBit = l
	}
	c.mu.Unlock()
	if f != nil {
		f(out)
	}
}

// Line is one input of the Chip. It implements gpio.PinIO so it can be
// handed to drivers directly.
type Line struct {
	// N and Num are returned by Name() and Number().
	N   string
	Num int

	chip      *Chip
	mu        sync.Mutex
	l         gpio.Level
	writes    int
	failAfter int
	failErr   error
	halted    bool
}

// FailAfter makes Out return err once n more writes have succeeded. A nil
// err clears the failure.
func (l *Line) FailAfter(n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failAfter = l.writes + n
	l.failErr = err
}

// Halted reports whether Halt was called.
func (l *Line) Halted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.halted
}

func (l *Line) String() string {
	return l.N
}

// Halt implements conn.Resource.
func (l *Line) Halt() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.halted = true
	return nil
}

// Name implements pin.Pin.
func (l *Line) Name() string {
	return l.N
}

// Number implements pin.Pin.
func (l *Line) Number() int {
	return l.Num
}

// Function implements pin.Pin.
func (l *Line) Function() string {
	return "In"
}

// In implements gpio.PinIn.
func (l *Line) In(pull gpio.Pull, edge gpio.Edge) error {
	return errors.New("nxp74hc595test: chip inputs can't be read")
}

// Read returns the last level written.
func (l *Line) Read() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.l
}

// WaitForEdge implements gpio.PinIn.
func (l *Line) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (l *Line) Pull() gpio.Pull {
	return gpio.Float
}

// DefaultPull implements gpio.PinIn.
func (l *Line) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out drives the chip input to level.
func (l *Line) Out(level gpio.Level) error {
	l.mu.Lock()
	if l.failErr != nil && l.writes >= l.failAfter {
		err := l.failErr
		l.mu.Unlock()
		return err
	}
	l.writes++
	l.l = level
	l.mu.Unlock()
	l.chip.set(l, level)
	return nil
}

// PWM implements gpio.PinOut.
func (l *Line) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("nxp74hc595test: pwm not supported")
}

var _ gpio.PinIO = &Line{}
