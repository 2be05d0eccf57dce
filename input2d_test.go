package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput2d = `%
% FLUID PARAMETER VALUES %
%
mu = 0.01          % Dynamic Viscosity
rho = 1000         % Density

% TEMPORAL INFORMATION %
Tfinal = 4.0       % Final sim. time
dt = 1e-5          % time-step

% GRID INFO %
Nx = 512           % # of Eulerian Grid Pts. in x-Direction
Ny = 512
Lx = 8.0           % Length of Eulerian Grid in x-Direction
Ly = 8.0

% STRUCTURE %
string_name = 'jellyfish'   % Name of the structure
`

func TestParseInput2d(t *testing.T) {
	in, err := ParseInput2d(strings.NewReader(sampleInput2d))
	require.NoError(t, err)

	assert.Equal(t, "jellyfish", in.StructName)
	assert.Equal(t, []string{"mu", "rho", "Tfinal", "dt", "Nx", "Ny", "Lx", "Ly"}, in.Order)

	nx, ok := in.Int("Nx")
	require.True(t, ok)
	assert.Equal(t, 512, nx)

	dt, ok := in.Float("dt")
	require.True(t, ok)
	assert.Equal(t, 1e-5, dt)

	_, ok = in.Float("missing")
	assert.False(t, ok)
}

func TestParseInput2dStringName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted with comment", "string_name = 'bell' % name\n", "bell"},
		{"bare without comment", "string_name = bell\n", "bell"},
		{"double quoted", `string_name = "bell"` + "\n", "bell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput2d(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.StructName)
		})
	}
}

func TestParseInput2dErrors(t *testing.T) {
	t.Run("non-numeric value", func(t *testing.T) {
		_, err := ParseInput2d(strings.NewReader("Nx = many\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
		assert.Contains(t, err.Error(), "Nx")
	})

	t.Run("empty structure name", func(t *testing.T) {
		_, err := ParseInput2d(strings.NewReader("dt = 1\nstring_name = % none\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestLoadInput2d(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input2d")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput2d), 0o644))

	in, err := LoadInput2d(path)
	require.NoError(t, err)
	assert.Equal(t, "jellyfish", in.StructName)

	_, err = LoadInput2d(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
