package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/circuit"
)

const examplesDir = "../../examples"

func readExample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(examplesDir, "circuits", name))
	require.NoError(t, err)
	return string(data)
}

func TestExampleCircuits(t *testing.T) {
	tests := []struct {
		file      string
		wantGates []circuit.Gate
		wantSwaps int
	}{
		{
			file: "ghz5.qasm",
			wantGates: []circuit.Gate{
				circuit.NewGate("h", 0),
				circuit.NewGate("cx", 0, 1),
				circuit.NewGate("cx", 1, 2),
				circuit.NewGate("cx", 2, 3),
				circuit.NewGate("cx", 3, 4),
			},
		},
		{
			file: "long_range.qasm",
			wantGates: []circuit.Gate{
				circuit.NewGate("h", 0),
				circuit.NewGate("swap", 0, 4),
				circuit.NewGate("cx", 0, 4),
				circuit.NewGate("swap", 1, 3),
				circuit.NewGate("cx", 1, 3),
				circuit.NewRotation("rz", 0.75, 4),
			},
			wantSwaps: 2,
		},
		{
			file:      "redundant.qasm",
			wantGates: []circuit.Gate{circuit.NewGate("x", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := New().Transpile(readExample(t, tt.file), backend.IBMDemo())
			require.NoError(t, err)

			assert.Equal(t, tt.wantSwaps, res.SwapCount)
			require.Len(t, res.Circuit.Gates, len(tt.wantGates))
			for i, want := range tt.wantGates {
				got := res.Circuit.Gates[i]
				assert.True(t, got.SameTarget(want), "gate %d: got %s, want %s", i, got, want)
				assert.InDeltaSlice(t, want.Params, got.Params, 1e-9, "gate %d params", i)
			}
		})
	}
}

func TestExampleBackends(t *testing.T) {
	tee, err := backend.Resolve(filepath.Join(examplesDir, "backends", "tee.toml"))
	require.NoError(t, err)
	assert.Equal(t, "tee", tee.Name)

	ring, err := backend.Resolve(filepath.Join(examplesDir, "backends", "ring6.yaml"))
	require.NoError(t, err)
	assert.True(t, ring.Connected(5, 0))

	res, err := New().Transpile(readExample(t, "ghz5.qasm"), ring)
	require.NoError(t, err)
	assert.Zero(t, res.SwapCount, "a ring contains the GHZ chain")
}
