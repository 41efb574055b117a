// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/shift595/cdevpin"
	"github.com/GermanBionicSystems/shift595/nxp74hc595"
)

const (
	backendPeriph = "periph"
	backendCdev   = "cdev"
	backendSim    = "sim"
)

// LineCfg selects one of the three control lines. Name is used by the periph
// backend, Chip and Offset by the cdev backend.
type LineCfg struct {
	Name   string `yaml:"name,omitempty"`
	Chip   string `yaml:"chip,omitempty"`
	Offset int    `yaml:"offset"`
}

// Config is the content of the YAML file passed with -config.
type Config struct {
	Backend      string  `yaml:"backend"` // "periph" | "cdev" | "sim"
	Data         LineCfg `yaml:"data"`
	Clock        LineCfg `yaml:"clock"`
	Latch        LineCfg `yaml:"latch"`
	InitialState uint8   `yaml:"initial_state"`

	Pattern string `yaml:"pattern"` // "chase" | "blink" | "count"
	Pin     int    `yaml:"pin"`     // blink only
	StepMs  int    `yaml:"step_ms"`
	Cycles  int    `yaml:"cycles"` // 0 runs until interrupted
	Show    bool   `yaml:"show"`
}

// DefaultConfig drives GPIO2, GPIO3 and GPIO4, the wiring of the Adafruit
// examples.
func DefaultConfig() *Config {
	return &Config{
		Backend: backendPeriph,
		Data:    LineCfg{Name: "GPIO2", Chip: "gpiochip0", Offset: 2},
		Clock:   LineCfg{Name: "GPIO3", Chip: "gpiochip0", Offset: 3},
		Latch:   LineCfg{Name: "GPIO4", Chip: "gpiochip0", Offset: 4},
		Pattern: "chase",
		Pin:     1,
		StepMs:  10,
	}
}

// Load reads path over DefaultConfig.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Backend {
	case backendPeriph, backendCdev, backendSim:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, ok := patterns[c.Pattern]; !ok {
		return fmt.Errorf("unknown pattern %q", c.Pattern)
	}
	if c.Pin < 0 || c.Pin > 7 {
		return fmt.Errorf("pin %d out of range [0, 7]", c.Pin)
	}
	if c.StepMs < 0 || c.Cycles < 0 {
		return errors.New("step_ms and cycles can't be negative")
	}
	return nil
}

// Step is the delay unit of the patterns.
func (c *Config) Step() time.Duration {
	return time.Duration(c.StepMs) * time.Millisecond
}

// sources returns the line sources for the periph and cdev backends.
func (c *Config) sources() ([]nxp74hc595.LineSource, error) {
	lines := []LineCfg{c.Data, c.Clock, c.Latch}
	src := make([]nxp74hc595.LineSource, len(lines))
	for ix, l := range lines {
		switch c.Backend {
		case backendPeriph:
			if l.Name == "" {
				return nil, errors.New("periph backend needs a name for each line")
			}
			src[ix] = nxp74hc595.ByName(l.Name)
		case backendCdev:
			if l.Chip == "" {
				return nil, errors.New("cdev backend needs a chip for each line")
			}
			src[ix] = cdevpin.Line{Chip: l.Chip, Offset: l.Offset, Consumer: "hc595leds"}
		default:
			return nil, fmt.Errorf("backend %q has no line sources", c.Backend)
		}
	}
	return src, nil
}
