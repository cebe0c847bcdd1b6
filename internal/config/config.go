// Package config loads machine presets: the S/M/L pulse-length breakpoints
// the categorizer uses to tell a short pulse from a medium one from a long
// one. Every supported machine family ships a built-in default; an optional
// YAML file can override any of them, for a deck that consistently runs
// fast, slow, or just plain worn.
package config

import (
	"fmt"
	"os"

	"tapesalvage/internal/constants"

	"gopkg.in/yaml.v3"
)

// Preset is one named set of pulse-length breakpoints.
type Preset struct {
	Name string  `yaml:"name"`
	SMin float64 `yaml:"s_min"`
	SM   float64 `yaml:"sm"`
	ML   float64 `yaml:"ml"`
	LMax float64 `yaml:"l_max"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Load returns the breakpoints for machine, as overridden by any preset of
// the same name found in the YAML file at path. An empty path is not an
// error — it just means "use the built-in defaults."
func Load(path string, machine constants.MachineFamily) (constants.Breakpoints, error) {
	defaults := constants.DefaultBreakpoints(machine)
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc presetFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return defaults, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	for _, p := range doc.Presets {
		if p.Name == string(machine) {
			return overlay(defaults, p), nil
		}
	}

	return defaults, nil
}

// overlay replaces any breakpoint the preset sets to a non-zero value,
// leaving the machine's built-in default wherever the preset is silent.
func overlay(defaults constants.Breakpoints, p Preset) constants.Breakpoints {
	out := defaults
	if p.SMin != 0 {
		out.SMin = p.SMin
	}
	if p.SM != 0 {
		out.SM = p.SM
	}
	if p.ML != 0 {
		out.ML = p.ML
	}
	if p.LMax != 0 {
		out.LMax = p.LMax
	}
	return out
}
