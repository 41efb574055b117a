// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cdevpin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	l := Line{Chip: "gpiochip2", Offset: 17}
	assert.Equal(t, "gpiochip2/17", l.String())
	assert.Equal(t, DefaultConsumer, l.consumer())
	l.Consumer = "leds"
	assert.Equal(t, "leds", l.consumer())
}
