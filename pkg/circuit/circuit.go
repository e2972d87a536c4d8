package circuit

import (
	"slices"
	"strconv"
	"strings"
)

// Gate is a single operation acting on an ordered list of qubits with
// optional real-valued parameters. Gates are values: two gates are the same
// gate when their name, qubits and parameters are equal.
type Gate struct {
	Name   string    `json:"name"`
	Qubits []int     `json:"qubits"`
	Params []float64 `json:"params,omitempty"`
}

// NewGate returns a parameter-free gate on the given qubits.
func NewGate(name string, qubits ...int) Gate {
	return Gate{Name: name, Qubits: qubits}
}

// NewRotation returns a single-parameter gate on the given qubits.
func NewRotation(name string, angle float64, qubits ...int) Gate {
	return Gate{Name: name, Qubits: qubits, Params: []float64{angle}}
}

// SameTarget reports whether g and o share the same name and the same
// ordered qubit list. Parameters are not compared.
func (g Gate) SameTarget(o Gate) bool {
	return g.Name == o.Name && slices.Equal(g.Qubits, o.Qubits)
}

// Equal reports structural equality.
func (g Gate) Equal(o Gate) bool {
	return g.SameTarget(o) && slices.Equal(g.Params, o.Params)
}

// Arity returns the number of qubits the gate acts on.
func (g Gate) Arity() int { return len(g.Qubits) }

// Clone returns a deep copy of g.
func (g Gate) Clone() Gate {
	return Gate{
		Name:   g.Name,
		Qubits: slices.Clone(g.Qubits),
		Params: slices.Clone(g.Params),
	}
}

// String renders the gate in QASM-like notation, e.g. "cx q[0], q[1]" or
// "rz(1.5708) q[2]".
func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.Name)
	if len(g.Params) > 0 {
		b.WriteByte('(')
		for i, p := range g.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
		}
		b.WriteByte(')')
	}
	for i, q := range g.Qubits {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString("q[")
		b.WriteString(strconv.Itoa(q))
		b.WriteByte(']')
	}
	return b.String()
}

// Circuit is one snapshot of a gate sequence. Stages never modify a Circuit
// they receive; they return a new one.
type Circuit struct {
	NumQubits int    `json:"num_qubits"`
	NumClbits int    `json:"num_clbits"`
	Gates     []Gate `json:"gates"`
}

// GateCount returns the number of gates in c.
func (c Circuit) GateCount() int { return len(c.Gates) }

// Clone returns a deep copy of c.
func (c Circuit) Clone() Circuit {
	out := Circuit{NumQubits: c.NumQubits, NumClbits: c.NumClbits}
	if c.Gates != nil {
		out.Gates = make([]Gate, len(c.Gates))
		for i, g := range c.Gates {
			out.Gates[i] = g.Clone()
		}
	}
	return out
}

// WithGates returns a circuit with the same registers as c and the given
// gate sequence. The gates slice is used as is.
func (c Circuit) WithGates(gates []Gate) Circuit {
	return Circuit{NumQubits: c.NumQubits, NumClbits: c.NumClbits, Gates: gates}
}

// With returns a copy of c with gates appended.
func (c Circuit) With(gates ...Gate) Circuit {
	out := c.Clone()
	for _, g := range gates {
		out.Gates = append(out.Gates, g.Clone())
	}
	return out
}

// Equal reports whether c and o have the same registers and gate sequence.
func (c Circuit) Equal(o Circuit) bool {
	if c.NumQubits != o.NumQubits || c.NumClbits != o.NumClbits || len(c.Gates) != len(o.Gates) {
		return false
	}
	for i := range c.Gates {
		if !c.Gates[i].Equal(o.Gates[i]) {
			return false
		}
	}
	return true
}
