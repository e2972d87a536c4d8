// Package circuit provides the in-memory model of a quantum gate circuit and
// of the device it is compiled for.
//
// # Overview
//
// A [Circuit] is an ordered list of [Gate] operations over a fixed number of
// qubits and classical bits. Every stage of the transpiler consumes one
// Circuit and produces a new one; no stage mutates its input. Use
// [Circuit.Clone] when a stage needs a private copy to build on.
//
//	c := circuit.Circuit{NumQubits: 2}
//	c = c.With(circuit.NewGate("h", 0), circuit.NewGate("cx", 0, 1))
//
// # Gates
//
// A gate is identified only by its structure: name, ordered qubit list and
// ordered parameter list. For two-qubit gates the first qubit is the control
// by convention. Gate names are free-form; nothing in this package checks a
// name against an arity table.
//
// # Backends
//
// A [Backend] describes the target device: its qubit count, the unordered
// connectivity edges two-qubit gates may act on directly, and the set of
// native gate names. Edges are unordered, so [Backend.Connected] reports true
// for (a, b) and (b, a) alike.
//
// # Serialization
//
// [WriteJSON] and [ReadJSON] encode circuits in a small JSON format:
//
//	{
//	  "num_qubits": 3,
//	  "num_clbits": 3,
//	  "gates": [
//	    {"name": "h", "qubits": [0]},
//	    {"name": "rz", "qubits": [2], "params": [1.5708]}
//	  ]
//	}
//
// Non-finite parameters, which the QASM reader produces for overflowing
// angles, are written as the strings "+Inf", "-Inf" and "NaN".
//
// ReadJSON only checks what decoding can see (no negative sizes or indices);
// qubit indices beyond NumQubits are accepted, as everywhere else.
package circuit
