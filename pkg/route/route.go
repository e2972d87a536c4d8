// Package route adapts a circuit to the connectivity of a target backend.
//
// The router makes one forward pass over the gate sequence. A two-qubit gate
// whose qubits are not joined by a backend edge gets a placeholder swap on
// the same two qubits inserted immediately before it; the gate itself is kept
// unchanged. Gates of any other arity pass through.
//
// The router does not track a logical-to-physical qubit permutation: a swap
// never remaps the qubits of later gates. The result is therefore not a
// correct SWAP-based routing, only a marking of where the device would need
// one.
package route

import "github.com/matzehuels/qtranspile/pkg/circuit"

// SwapGate is the name of the inserted placeholder gate.
const SwapGate = "swap"

// Router inserts swaps in front of two-qubit gates the backend cannot run
// directly. The zero value is ready to use.
type Router struct{}

// Route is shorthand for Router{}.Route(c, b).
func Route(c circuit.Circuit, b circuit.Backend) circuit.Circuit {
	return Router{}.Route(c, b)
}

// Route returns a new circuit; c is not modified.
func (r Router) Route(c circuit.Circuit, b circuit.Backend) circuit.Circuit {
	out, _ := r.RouteWithCount(c, b)
	return out
}

// RouteWithCount routes c and also reports how many swaps were inserted.
func (Router) RouteWithCount(c circuit.Circuit, b circuit.Backend) (circuit.Circuit, int) {
	coupling := b.Coupling()
	gates := make([]circuit.Gate, 0, len(c.Gates))
	swaps := 0

	for _, g := range c.Gates {
		if g.Arity() == 2 {
			q0, q1 := g.Qubits[0], g.Qubits[1]
			if !coupling.Connected(q0, q1) {
				gates = append(gates, circuit.NewGate(SwapGate, q0, q1))
				swaps++
			}
		}
		gates = append(gates, g.Clone())
	}
	return c.WithGates(gates), swaps
}
