// Package metrics measures circuits: depth, gate counts and the percentage
// reductions between two snapshots.
package metrics

import (
	"slices"

	"github.com/matzehuels/qtranspile/pkg/circuit"
)

// Depth returns the critical-path length of c in time steps. Each gate takes
// one step and gates sharing a qubit run one after another. Qubit indices
// outside [0, NumQubits) neither delay a gate nor record its end time.
//
// A circuit with no qubits or no gates has depth 0.
func Depth(c circuit.Circuit) int {
	if c.NumQubits <= 0 {
		return 0
	}
	clock := make([]int, c.NumQubits)
	for _, g := range c.Gates {
		start := 0
		for _, q := range g.Qubits {
			if inRange(q, len(clock)) && clock[q] > start {
				start = clock[q]
			}
		}
		end := start + 1
		for _, q := range g.Qubits {
			if inRange(q, len(clock)) {
				clock[q] = end
			}
		}
	}
	return slices.Max(clock)
}

func inRange(q, n int) bool { return q >= 0 && q < n }

// GateCount returns the number of gates in c.
func GateCount(c circuit.Circuit) int { return len(c.Gates) }

// GateHistogram counts gates by name.
func GateHistogram(c circuit.Circuit) map[string]int {
	h := make(map[string]int)
	for _, g := range c.Gates {
		h[g.Name]++
	}
	return h
}

// TwoQubitCount returns the number of gates acting on exactly two qubits.
func TwoQubitCount(c circuit.Circuit) int {
	n := 0
	for _, g := range c.Gates {
		if g.Arity() == 2 {
			n++
		}
	}
	return n
}

// Reduction returns how much smaller final is than original, in percent.
// An increase counts as no reduction, and an original of 0 yields 0, so the
// result is always within [0, 100].
func Reduction(original, final int) float64 {
	if original <= 0 {
		return 0
	}
	return float64(saturatingSub(original, final)) / float64(original) * 100
}

func saturatingSub(a, b int) int {
	if b < 0 {
		b = 0
	}
	if b >= a {
		return 0
	}
	return a - b
}

// Schedule returns, for each gate of c, the time step in which it ends under
// the same model as Depth. A gate touching no in-range qubit gets step 0.
func Schedule(c circuit.Circuit) []int {
	steps := make([]int, len(c.Gates))
	if c.NumQubits <= 0 {
		return steps
	}
	clock := make([]int, c.NumQubits)
	for i, g := range c.Gates {
		start, touched := 0, false
		for _, q := range g.Qubits {
			if inRange(q, len(clock)) {
				touched = true
				start = max(start, clock[q])
			}
		}
		if !touched {
			continue
		}
		for _, q := range g.Qubits {
			if inRange(q, len(clock)) {
				clock[q] = start + 1
			}
		}
		steps[i] = start + 1
	}
	return steps
}
