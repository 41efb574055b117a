// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hc595leds animates eight LEDs wired to a 74HC595 that is bit-banged over
// three GPIO lines.
//
// Without hardware, -backend sim runs the same animation on a software chip
// and draws the outputs in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/shift595/ledbar"
	"github.com/GermanBionicSystems/shift595/nxp74hc595"
	"github.com/GermanBionicSystems/shift595/nxp74hc595/nxp74hc595test"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfgPath := flag.String("config", "", "YAML configuration file")
	backend := flag.String("backend", "", "override backend: periph, cdev or sim")
	pat := flag.String("pattern", "", "override pattern: chase, blink or count")
	cycles := flag.Int("cycles", -1, "override number of cycles, 0 runs forever")
	stepMs := flag.Int("step", -1, "override step in milliseconds")
	show := flag.Bool("show", false, "draw the outputs in the terminal")
	png := flag.String("png", "", "write the final outputs to this PNG file")
	flag.Parse()

	cfg := DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = Load(*cfgPath); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *pat != "" {
		cfg.Pattern = *pat
	}
	if *cycles >= 0 {
		cfg.Cycles = *cycles
	}
	if *stepMs >= 0 {
		cfg.StepMs = *stepMs
	}
	cfg.Show = cfg.Show || *show || cfg.Backend == backendSim
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, *png, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("hc595leds")
	}
}

// run opens the device described by cfg and plays the pattern until ctx is
// done or cfg.Cycles cycles have run.
func run(ctx context.Context, cfg *Config, pngPath string, out io.Writer) error {
	dev, chip, err := open(cfg)
	if err != nil {
		return err
	}
	defer dev.Halt()

	var bar *ledbar.Bar
	if cfg.Show {
		bar = ledbar.New(&ledbar.Opts{W: out})
		defer bar.Halt()
		if chip != nil {
			chip.OnLatch(func(v byte) { _ = bar.Show(v) })
		}
	}

	log.Info().
		Str("backend", cfg.Backend).
		Str("pattern", cfg.Pattern).
		Int("cycles", cfg.Cycles).
		Dur("step", cfg.Step()).
		Msg("starting")
	p := patterns[cfg.Pattern]
	for n := 0; cfg.Cycles == 0 || n < cfg.Cycles; n++ {
		if err = p(ctx, dev, cfg); err != nil {
			break
		}
		if bar != nil && chip == nil {
			_ = bar.Show(dev.Value())
		}
		log.Debug().Int("cycle", n).Uint8("value", dev.Value()).Msg("cycle done")
	}
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")
		err = nil
	}
	if err != nil {
		return err
	}
	if pngPath != "" {
		if err = ledbar.New(&ledbar.Opts{W: out}).SavePNG(pngPath, dev.Value()); err != nil {
			return err
		}
		log.Info().Str("path", pngPath).Msg("snapshot written")
	}
	return nil
}

// open creates the device. For the sim backend the simulated chip is
// returned too.
func open(cfg *Config) (*nxp74hc595.Dev, *nxp74hc595test.Chip, error) {
	opts := &nxp74hc595.Opts{InitialState: cfg.InitialState}
	if cfg.Backend == backendSim {
		chip := nxp74hc595test.NewChip()
		dev, err := nxp74hc595.New(nxp74hc595.Use(chip.Data), nxp74hc595.Use(chip.Clock), nxp74hc595.Use(chip.Latch), opts)
		return dev, chip, err
	}
	if cfg.Backend == backendPeriph {
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
	}
	src, err := cfg.sources()
	if err != nil {
		return nil, nil, err
	}
	dev, err := nxp74hc595.New(src[0], src[1], src[2], opts)
	return dev, nil, err
}
