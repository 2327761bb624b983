package sched

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Compile-time scheduling constants. A Scheduler copies them into its
// Params at construction and never changes them afterwards.
const (
	NProc           = 64  // process table slots, idle included
	BaseQuantum     = 2   // ticks granted at level 0
	MaxLevel        = 3   // lowest priority level
	RearrangePeriod = 200 // dispatches between two level-0 resets
)

// Params mirrors the scheduler section of a parameter file.
type Params struct {
	Procs           int `yaml:"procs"`            // NProc (by default)
	BaseQuantum     int `yaml:"base_quantum"`     // 2 (by default)
	MaxLevel        int `yaml:"max_level"`        // 3 (by default)
	QueueCapacity   int `yaml:"queue_capacity"`   // Procs (by default)
	RearrangePeriod int `yaml:"rearrange_period"` // 200 (by default)
}

// DefaultParams returns the compile-time constants.
func DefaultParams() Params {
	return Params{
		Procs:           NProc,
		BaseQuantum:     BaseQuantum,
		MaxLevel:        MaxLevel,
		QueueCapacity:   NProc,
		RearrangePeriod: RearrangePeriod,
	}
}

// LoadParams reads YAML and overrides defaults; empty path = defaults only.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params %s: %w", path, err)
	}
	return p.Sanitize(), nil
}

// Sanitize clamps every field into its legal range.
func (p Params) Sanitize() Params {
	if p.Procs < 2 {
		p.Procs = NProc // idle plus at least one user process
	}
	if p.BaseQuantum <= 0 {
		p.BaseQuantum = BaseQuantum
	}
	if p.MaxLevel < 0 {
		p.MaxLevel = MaxLevel
	}
	if p.QueueCapacity <= 0 {
		p.QueueCapacity = p.Procs
	}
	if p.RearrangePeriod <= 0 {
		p.RearrangePeriod = RearrangePeriod
	}
	return p
}

// Quantum returns the time slice of a level: (level + 1) * BaseQuantum.
// Levels outside [0, MaxLevel] are clamped.
func (p Params) Quantum(level int) int {
	return (p.clampLevel(level) + 1) * p.BaseQuantum
}

func (p Params) clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > p.MaxLevel {
		return p.MaxLevel
	}
	return level
}
