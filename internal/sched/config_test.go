package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParamsDefaults(t *testing.T) {
	p, err := LoadParams("")
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestLoadParamsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yml")
	data := "base_quantum: 5\nmax_level: 1\nrearrange_period: -3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, 5, p.BaseQuantum)
	assert.Equal(t, 1, p.MaxLevel)
	assert.Equal(t, RearrangePeriod, p.RearrangePeriod)
	assert.Equal(t, NProc, p.Procs)
	assert.Equal(t, NProc, p.QueueCapacity)
}

func TestLoadParamsMissingFile(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestQuantumGrowsWithLevel(t *testing.T) {
	p := Params{BaseQuantum: 2, MaxLevel: 3}.Sanitize()

	tests := []struct {
		level int
		want  int
	}{
		{-1, 2},
		{0, 2},
		{1, 4},
		{2, 6},
		{3, 8},
		{9, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Quantum(tt.level), "level %d", tt.level)
	}
}
