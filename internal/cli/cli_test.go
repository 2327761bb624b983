package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(scenario, []byte(`
ticks: 30
params:
  base_quantum: 2
  max_level: 2
processes:
  - name: editor
    kind: io
    burst: 1
    wait: 2
  - name: compiler
    kind: cpu
`), 0o644))
	trace := filepath.Join(dir, "trace.csv")

	out, err := execute(t, "run", "--scenario", scenario, "--csv", trace)
	require.NoError(t, err)

	assert.Contains(t, out, "Dispatch")
	assert.Contains(t, out, "PID")
	assert.Contains(t, out, "editor")
	assert.Contains(t, out, "compiler")

	data, err := os.ReadFile(trace)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id,timestamp,tick,event")
	assert.Contains(t, string(data), "Admit")
}

func TestRunCommandQuiet(t *testing.T) {
	scenario := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(scenario, []byte("processes:\n  - name: solo\n"), 0o644))

	out, err := execute(t, "run", "--scenario", scenario, "--quiet", "--ticks", "5")
	require.NoError(t, err)
	assert.NotContains(t, out, "Dispatch")
	assert.Contains(t, out, "solo")
}

func TestRunCommandBadScenario(t *testing.T) {
	_, err := execute(t, "run", "--scenario", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestParamsCommand(t *testing.T) {
	out, err := execute(t, "params")
	require.NoError(t, err)
	assert.Contains(t, out, "base_quantum: 2")
	assert.Contains(t, out, "rearrange_period: 200")
}
