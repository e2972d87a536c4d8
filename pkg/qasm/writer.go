package qasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/qtranspile/pkg/circuit"
)

const (
	header  = "OPENQASM 2.0;"
	include = `include "qelib1.inc";`
)

// Write emits c as OpenQASM 2 using a single quantum register "q" and, when
// the circuit has classical bits, a classical register "c".
//
// Gates the parser does not recognize (swap, for instance) are written too;
// reading the output back skips them.
func Write(w io.Writer, c circuit.Circuit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	fmt.Fprintln(bw, include)
	fmt.Fprintf(bw, "qreg q[%d];\n", c.NumQubits)
	if c.NumClbits > 0 {
		fmt.Fprintf(bw, "creg c[%d];\n", c.NumClbits)
	}
	for _, g := range c.Gates {
		fmt.Fprintf(bw, "%s;\n", g.String())
	}
	return bw.Flush()
}

// Format returns the QASM text for c.
func Format(c circuit.Circuit) string {
	var b strings.Builder
	_ = Write(&b, c)
	return b.String()
}
