// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/shift595/nxp74hc595"
)

// pattern runs one cycle of an animation on dev.
type pattern func(ctx context.Context, dev *nxp74hc595.Dev, cfg *Config) error

var patterns = map[string]pattern{
	"blink": blink,
	"chase": chase,
	"count": count,
}

// blink toggles a single output, one second per state at the default step.
func blink(ctx context.Context, dev *nxp74hc595.Dev, cfg *Config) error {
	p, err := dev.Pin(cfg.Pin)
	if err != nil {
		return err
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low} {
		if err = p.Out(l); err != nil {
			return err
		}
		if err = sleep(ctx, 100*cfg.Step()); err != nil {
			return err
		}
	}
	return nil
}

// chase runs a light along the eight outputs twice, then blinks them all
// three times.
func chase(ctx context.Context, dev *nxp74hc595.Dev, cfg *Config) error {
	for range 2 {
		for enabled := range dev.Pins {
			for ix, p := range dev.Pins {
				if err := p.Out(ix == enabled); err != nil {
					return err
				}
				if err := sleep(ctx, cfg.Step()); err != nil {
					return err
				}
			}
		}
	}
	for range 3 {
		for _, l := range []gpio.Level{gpio.High, gpio.Low} {
			for _, p := range dev.Pins {
				if err := p.Out(l); err != nil {
					return err
				}
			}
			if err := sleep(ctx, 50*cfg.Step()); err != nil {
				return err
			}
		}
	}
	return nil
}

// count writes 0 to 255 through a group of all outputs.
func count(ctx context.Context, dev *nxp74hc595.Dev, cfg *Config) error {
	gr, err := dev.Group(0, 1, 2, 3, 4, 5, 6, 7)
	if err != nil {
		return err
	}
	for v := range 256 {
		if err = gr.Out(gpio.GPIOValue(v), 0); err != nil {
			return err
		}
		if err = sleep(ctx, cfg.Step()); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
