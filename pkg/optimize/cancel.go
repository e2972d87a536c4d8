package optimize

import "github.com/matzehuels/qtranspile/pkg/circuit"

// Cancellable reports whether g may be removed together with an identical
// neighbour. Parameterized gates never cancel: two equal rz rotations add up,
// which is the merge pass's business.
func Cancellable(g circuit.Gate) bool {
	return len(g.Params) == 0
}

// Cancellation drops adjacent pairs of identical parameter-free gates.
type Cancellation struct{}

func (Cancellation) Name() string { return NameCancel }

// Run sweeps until a sweep cancels nothing.
func (Cancellation) Run(c circuit.Circuit) circuit.Circuit {
	gates := c.Gates
	for {
		next, removed := cancelSweep(gates)
		gates = next
		if removed == 0 {
			break
		}
	}
	out := make([]circuit.Gate, len(gates))
	for i, g := range gates {
		out[i] = g.Clone()
	}
	return c.WithGates(out)
}

// cancelSweep is one greedy left-to-right scan. A cancelled pair is skipped
// as a whole, so the gate after it is compared with its own successor, not
// with the gate before the pair.
func cancelSweep(gates []circuit.Gate) ([]circuit.Gate, int) {
	out := make([]circuit.Gate, 0, len(gates))
	removed := 0
	for i := 0; i < len(gates); {
		if i+1 < len(gates) && cancels(gates[i], gates[i+1]) {
			i += 2
			removed += 2
			continue
		}
		out = append(out, gates[i])
		i++
	}
	return out, removed
}

func cancels(a, b circuit.Gate) bool {
	return Cancellable(a) && a.Equal(b)
}
