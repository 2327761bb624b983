package sim

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"

	"mlfq/internal/job"
	"mlfq/internal/sched"
)

// Scenario mirrors a scenario file: scheduler parameters plus the
// processes to boot.
type Scenario struct {
	Ticks     int          `yaml:"ticks"`   // 100 (by default)
	TickMS    int          `yaml:"tick_ms"` // real-time tick interval, 5 (by default)
	Params    sched.Params `yaml:"params"`
	Processes []job.Spec   `yaml:"processes"`
}

var ErrBadScenario = errors.New("bad scenario")

func defaultScenario() Scenario {
	return Scenario{
		Ticks:  100,
		TickMS: 5,
		Params: sched.DefaultParams(),
	}
}

// LoadScenario reads a YAML scenario over the defaults.
func LoadScenario(path string) (Scenario, error) {
	sc := defaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	// sanity clamps
	if sc.Ticks <= 0 {
		sc.Ticks = 100
	}
	if sc.TickMS <= 0 {
		sc.TickMS = 5
	}
	sc.Params = sc.Params.Sanitize()

	return sc, sc.Validate()
}

// Validate checks process names are unique and parents are declared first.
func (sc Scenario) Validate() error {
	if len(sc.Processes) == 0 {
		return fmt.Errorf("%w: no processes", ErrBadScenario)
	}
	if slots := sc.Params.Sanitize().Procs; len(sc.Processes) >= slots {
		return fmt.Errorf("%w: %d processes do not fit %d slots", ErrBadScenario, len(sc.Processes), slots)
	}

	seen := make(map[string]bool, len(sc.Processes))
	for i, spec := range sc.Processes {
		if spec.Name == "" {
			return fmt.Errorf("%w: process %d has no name", ErrBadScenario, i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("%w: duplicate process %q", ErrBadScenario, spec.Name)
		}
		if spec.Parent != "" && !seen[spec.Parent] {
			return fmt.Errorf("%w: parent %q of %q must be declared before it", ErrBadScenario, spec.Parent, spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}
