// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shift595 is a container for a bit-banged 74HC595 driver and the
// tools around it.
//
// The driver itself lives in nxp74hc595. cdevpin provides lines from the
// Linux GPIO character device and ledbar draws the outputs for debugging.
package shift595
