// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package cdevpin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/shift595/nxp74hc595"
)

// newSim needs the gpio-sim kernel module and configfs, which usually means
// root. The tests are skipped otherwise.
func newSim(t *testing.T, lines int) *gpiosim.Simpleton {
	t.Helper()
	s, err := gpiosim.NewSimpleton(lines)
	if err != nil {
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpen(t *testing.T) {
	s := newSim(t, 4)
	p, err := Open(Line{Chip: s.ChipName(), Offset: 2})
	require.Nil(t, err)

	v, err := s.Level(2)
	require.Nil(t, err)
	assert.Equal(t, 0, v)

	require.Nil(t, p.Out(gpio.High))
	v, err = s.Level(2)
	require.Nil(t, err)
	assert.Equal(t, 1, v)

	assert.Equal(t, 2, p.Number())
	assert.Equal(t, s.ChipName()+"/2", p.Name())
	assert.NotNil(t, p.PWM(gpio.DutyHalf, 0))

	require.Nil(t, p.Halt())
	assert.Nil(t, p.Halt())
	assert.NotNil(t, p.Out(gpio.Low))
}

func TestOpenBadOffset(t *testing.T) {
	s := newSim(t, 4)
	_, err := Open(Line{Chip: s.ChipName(), Offset: 9})
	assert.NotNil(t, err)
}

func TestDriveShiftRegister(t *testing.T) {
	s := newSim(t, 3)
	chip := s.ChipName()
	dev, err := nxp74hc595.New(
		Line{Chip: chip, Offset: 0},
		Line{Chip: chip, Offset: 1},
		Line{Chip: chip, Offset: 2},
		&nxp74hc595.Opts{InitialState: 0x80})
	require.Nil(t, err)
	defer dev.Halt()

	// After a transfer the latch and clock are left high and data holds the
	// last bit shifted, Q0.
	for _, tc := range []struct {
		value byte
		data  int
	}{{0x80, 0}, {0x01, 1}} {
		require.Nil(t, dev.Write(tc.value))
		v, err := s.Level(0)
		require.Nil(t, err)
		assert.Equal(t, tc.data, v)
		for _, offset := range []int{1, 2} {
			v, err = s.Level(offset)
			require.Nil(t, err)
			assert.Equal(t, 1, v)
		}
	}
}
