// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/shift595/nxp74hc595/nxp74hc595test"
)

func newTestDriver(t *testing.T) (*Driver, *nxp74hc595test.Chip) {
	t.Helper()
	chip := nxp74hc595test.NewChip()
	drv, err := NewDriver(Use(chip.Data), Use(chip.Clock), Use(chip.Latch))
	if err != nil {
		t.Fatal(err)
	}
	chip.Reset()
	return drv, chip
}

func op(line string, l gpio.Level) nxp74hc595test.Op {
	return nxp74hc595test.Op{Line: line, Level: l}
}

func TestNewDriver(t *testing.T) {
	chip := nxp74hc595test.NewChip()
	if _, err := NewDriver(Use(chip.Data), Use(chip.Clock), Use(chip.Latch)); err != nil {
		t.Fatal(err)
	}
	want := []nxp74hc595test.Op{
		op("DATA", gpio.Low), op("CLOCK", gpio.Low), op("LATCH", gpio.Low),
		op("CLOCK", gpio.Low), op("LATCH", gpio.High), op("CLOCK", gpio.High),
	}
	if diff := cmp.Diff(chip.Ops(), want); diff != "" {
		t.Errorf("NewDriver() ops difference (-got +want):\n%s", diff)
	}
	if chip.Outputs() != 0 {
		t.Errorf("Outputs() = %#x, want 0", chip.Outputs())
	}
}

func TestNewDriverErrors(t *testing.T) {
	chip := nxp74hc595test.NewChip()
	boom := errors.New("boom")
	for _, tc := range []struct {
		name               string
		data, clock, latch LineSource
		want               error
	}{
		{name: "nil source", data: nil, clock: Use(chip.Clock), latch: Use(chip.Latch)},
		{name: "nil pin", data: Use(chip.Data), clock: Use(nil), latch: Use(chip.Latch)},
		{name: "unknown name", data: Use(chip.Data), clock: Use(chip.Clock), latch: ByName("NO_SUCH_PIN_595")},
		{name: "line failure", data: Use(chip.Data), clock: Use(chip.Clock), latch: Use(chip.Latch), want: boom},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want != nil {
				chip.Latch.FailAfter(1, tc.want)
				defer chip.Latch.FailAfter(0, nil)
			}
			drv, err := NewDriver(tc.data, tc.clock, tc.latch)
			if err == nil {
				t.Fatalf("NewDriver() = %s, want error", drv)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("NewDriver() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	names := []string{"SR595_DATA", "SR595_CLOCK", "SR595_LATCH"}
	for ix, name := range names {
		if err := gpioreg.Register(&gpiotest.Pin{N: name, Num: 900 + ix}); err != nil {
			t.Fatal(err)
		}
		defer func(name string) { _ = gpioreg.Unregister(name) }(name)
	}
	drv, err := NewDriver(ByName(names[0]), ByName(names[1]), ByName(names[2]))
	if err != nil {
		t.Fatal(err)
	}
	if err = drv.WriteValue(0x42); err != nil {
		t.Error(err)
	}
	if got := gpioreg.ByName(names[2]).Read(); got != gpio.High {
		t.Errorf("latch level after write = %s, want High", got)
	}
}

func TestWriteValueWaveform(t *testing.T) {
	drv, chip := newTestDriver(t)
	if err := drv.WriteValue(0x81); err != nil {
		t.Fatal(err)
	}
	want := []nxp74hc595test.Op{op("CLOCK", gpio.Low), op("LATCH", gpio.Low), op("CLOCK", gpio.High)}
	for ix := 7; ix >= 0; ix-- {
		want = append(want, op("CLOCK", gpio.Low), op("DATA", ix == 7 || ix == 0), op("CLOCK", gpio.High))
	}
	want = append(want, op("CLOCK", gpio.Low), op("LATCH", gpio.High), op("CLOCK", gpio.High))
	if diff := cmp.Diff(chip.Ops(), want); diff != "" {
		t.Errorf("WriteValue(0x81) ops difference (-got +want):\n%s", diff)
	}
}

func TestWriteValueAll(t *testing.T) {
	drv, chip := newTestDriver(t)
	for v := range 256 {
		if err := drv.WriteValue(v); err != nil {
			t.Fatal(err)
		}
		out := chip.Outputs()
		for ix := range numPins {
			if got, want := (out>>ix)&1, byte(v>>ix)&1; got != want {
				t.Fatalf("WriteValue(%d): Q%d = %d, want %d", v, ix, got, want)
			}
		}
	}
	if got := len(chip.Latched()); got != 256 {
		t.Errorf("latched %d times, want 256", got)
	}
}

func TestWriteValueRange(t *testing.T) {
	drv, chip := newTestDriver(t)
	if err := drv.WriteByte(0x3c); err != nil {
		t.Fatal(err)
	}
	chip.Reset()
	for _, v := range []int{256, -1, 1000} {
		if err := drv.WriteValue(v); !errors.Is(err, ErrRange) {
			t.Errorf("WriteValue(%d) = %v, want ErrRange", v, err)
		}
	}
	if ops := chip.Ops(); len(ops) != 0 {
		t.Errorf("rejected writes touched the lines: %v", ops)
	}
	if chip.Outputs() != 0x3c {
		t.Errorf("Outputs() = %#x, want 0x3c", chip.Outputs())
	}
}

func TestWriteBits(t *testing.T) {
	drv, chip := newTestDriver(t)
	for _, n := range []int{0, 7, 9} {
		if err := drv.WriteBits(make([]bool, n)); !errors.Is(err, ErrRange) {
			t.Errorf("WriteBits(len %d) = %v, want ErrRange", n, err)
		}
	}
	if len(chip.Ops()) != 0 {
		t.Error("rejected writes touched the lines")
	}
	if err := drv.WriteBits([]bool{true, false, false, false, false, true, false, true}); err != nil {
		t.Fatal(err)
	}
	if got := chip.Outputs(); got != 0x85 {
		t.Errorf("Outputs() = %#x, want 0x85", got)
	}
}

func TestPartialWriteKeepsOutputs(t *testing.T) {
	drv, chip := newTestDriver(t)
	if err := drv.WriteValue(0x5a); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	chip.Clock.FailAfter(6, boom)
	if err := drv.WriteValue(0xff); !errors.Is(err, boom) {
		t.Fatalf("WriteValue() = %v, want %v", err, boom)
	}
	if got := chip.Outputs(); got != 0x5a {
		t.Errorf("Outputs() = %#x after failed write, want 0x5a", got)
	}
	if got := chip.Latch.Read(); got != gpio.Low {
		t.Errorf("latch = %s, transfer should have stayed open", got)
	}
}

func TestDriverHalt(t *testing.T) {
	drv, chip := newTestDriver(t)
	if err := drv.Halt(); err != nil {
		t.Fatal(err)
	}
	for _, l := range []*nxp74hc595test.Line{chip.Data, chip.Clock, chip.Latch} {
		if !l.Halted() {
			t.Errorf("%s not halted", l)
		}
	}
	if s := drv.String(); s != "74HC595{data: DATA, clock: CLOCK, latch: LATCH}" {
		t.Errorf("String() = %q", s)
	}
}
