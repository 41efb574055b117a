// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package cdevpin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Resolve always fails outside linux.
func (l Line) Resolve() (gpio.PinOut, error) {
	return nil, fmt.Errorf("%s: %w", l, ErrUnsupportedPlatform)
}
