package circuit

import (
	"fmt"
	"slices"
)

// Edge is an unordered pair of physical qubits that may interact directly.
type Edge [2]int

// Normalize returns the edge with the smaller qubit first.
func (e Edge) Normalize() Edge {
	if e[0] > e[1] {
		return Edge{e[1], e[0]}
	}
	return e
}

func (e Edge) String() string { return fmt.Sprintf("(%d,%d)", e[0], e[1]) }

// Backend describes a target device. It is supplied once per transpilation
// and treated as read-only.
//
// NativeGates is carried for callers; routing does not consult it.
type Backend struct {
	Name        string   `json:"name"`
	NumQubits   int      `json:"num_qubits"`
	Edges       []Edge   `json:"edges"`
	NativeGates []string `json:"native_gates,omitempty"`
}

// Coupling is a lookup set built from a backend's edges.
type Coupling map[Edge]struct{}

// Coupling indexes b's edges for repeated connectivity checks.
func (b Backend) Coupling() Coupling {
	set := make(Coupling, len(b.Edges))
	for _, e := range b.Edges {
		set[e.Normalize()] = struct{}{}
	}
	return set
}

// Connected reports whether a and b share an edge, in either order.
func (c Coupling) Connected(a, b int) bool {
	_, ok := c[Edge{a, b}.Normalize()]
	return ok
}

// Connected reports whether qubits x and y share an edge, in either order.
// It scans the edge list; build a Coupling once for repeated checks.
func (b Backend) Connected(x, y int) bool {
	want := Edge{x, y}.Normalize()
	for _, e := range b.Edges {
		if e.Normalize() == want {
			return true
		}
	}
	return false
}

// SupportsGate reports whether name is in the native gate set.
func (b Backend) SupportsGate(name string) bool {
	return slices.Contains(b.NativeGates, name)
}

// Clone returns a deep copy of b.
func (b Backend) Clone() Backend {
	return Backend{
		Name:        b.Name,
		NumQubits:   b.NumQubits,
		Edges:       slices.Clone(b.Edges),
		NativeGates: slices.Clone(b.NativeGates),
	}
}
