package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlfq/internal/job"
	"mlfq/internal/sched"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
ticks: 40
params:
  base_quantum: 3
  max_level: 1
processes:
  - name: shell
    kind: yielder
    burst: 1
  - name: make
    kind: cpu
    parent: shell
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, 40, sc.Ticks)
	assert.Equal(t, 5, sc.TickMS)
	assert.Equal(t, 3, sc.Params.BaseQuantum)
	assert.Equal(t, 1, sc.Params.MaxLevel)
	assert.Equal(t, sched.RearrangePeriod, sc.Params.RearrangePeriod)
	require.Len(t, sc.Processes, 2)
	assert.Equal(t, job.Spec{Name: "make", Kind: "cpu", Parent: "shell"}, sc.Processes[1])
}

func TestValidateRejects(t *testing.T) {
	params := sched.DefaultParams()
	tests := []struct {
		name  string
		procs []job.Spec
	}{
		{"empty", nil},
		{"unnamed", []job.Spec{{Kind: "cpu"}}},
		{"duplicate", []job.Spec{{Name: "a"}, {Name: "a"}}},
		{"late parent", []job.Spec{{Name: "a", Parent: "b"}, {Name: "b"}}},
	}
	for _, tt := range tests {
		sc := Scenario{Params: params, Processes: tt.procs}
		assert.ErrorIs(t, sc.Validate(), ErrBadScenario, tt.name)
	}
}

func TestValidateReportsDefaultSlots(t *testing.T) {
	procs := make([]job.Spec, sched.NProc)
	for i := range procs {
		procs[i] = job.Spec{Name: fmt.Sprintf("p%d", i), Kind: "cpu"}
	}
	sc := Scenario{Processes: procs} // zero Params fall back to the defaults

	err := sc.Validate()
	require.ErrorIs(t, err, ErrBadScenario)
	assert.Contains(t, err.Error(), fmt.Sprintf("do not fit %d slots", sched.NProc))
}
