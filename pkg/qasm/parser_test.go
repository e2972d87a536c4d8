package qasm

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
)

const demoSource = `
	OPENQASM 2.0;
	qreg q[3];
	creg c[3];
	h q[0];
	cx q[0], q[1];
	cx q[1], q[2];
	rz(1.5708) q[2];
	rz(1.5708) q[2];
`

func TestParseDemo(t *testing.T) {
	c, err := Parse(demoSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.NumQubits != 3 || c.NumClbits != 3 {
		t.Errorf("registers = (%d, %d), want (3, 3)", c.NumQubits, c.NumClbits)
	}

	want := []circuit.Gate{
		circuit.NewGate("h", 0),
		circuit.NewGate("cx", 0, 1),
		circuit.NewGate("cx", 1, 2),
		circuit.NewRotation("rz", 1.5708, 2),
		circuit.NewRotation("rz", 1.5708, 2),
	}
	if !c.Equal(circuit.Circuit{NumQubits: 3, NumClbits: 3, Gates: want}) {
		t.Errorf("gates = %v, want %v", c.Gates, want)
	}
}

func TestParseRegisters(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantQubits int
		wantClbits int
	}{
		{"last qreg wins", "qreg q[2];\nqreg r[5];", 5, 0},
		{"malformed size is zero", "qreg q[abc];", 0, 0},
		{"negative size is zero", "qreg q[-2];", 0, 0},
		{"missing bracket keeps previous", "qreg q[4];\nqreg q;", 4, 0},
		{"creg", "creg c[7];", 0, 7},
		{"plus sign accepted", "qreg q[+3];", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.NumQubits != tt.wantQubits || c.NumClbits != tt.wantClbits {
				t.Errorf("registers = (%d, %d), want (%d, %d)",
					c.NumQubits, c.NumClbits, tt.wantQubits, tt.wantClbits)
			}
		})
	}
}

func TestParseIgnoresUnrecognizedLines(t *testing.T) {
	src := strings.Join([]string{
		"OPENQASM 2.0;",
		`include "qelib1.inc";`,
		"// h q[0];",
		"",
		"measure q[0] -> c[0];",
		"y q[0];",
		"swap q[0], q[1];",
		"x q[1];",
	}, "\n")

	c, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Gates) != 1 || c.Gates[0].Name != "x" {
		t.Errorf("gates = %v, want [x q[1]]", c.Gates)
	}
}

func TestParseGateLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want circuit.Gate
	}{
		{"single", "h q[0];", circuit.NewGate("h", 0)},
		{"two qubit", "cx q[0], q[1];", circuit.NewGate("cx", 0, 1)},
		{"no spaces between operands", "cx q[3],q[1];", circuit.NewGate("cx", 3, 1)},
		{"bare index", "x 4;", circuit.NewGate("x", 4)},
		{"rotation", "rz(0.25) q[1];", circuit.NewRotation("rz", 0.25, 1)},
		{"negative rotation", "rz(-0.5) q[0];", circuit.NewRotation("rz", -0.5, 0)},
		{"malformed angle is zero", "rz(pi/2) q[0];", circuit.NewRotation("rz", 0, 0)},
		{"prefix match keeps full name", "hadamard q[2];", circuit.NewGate("hadamard", 2)},
		{"register names with digits", "cx q1[0], q2[1];", circuit.NewGate("cx", 0, 1)},
		{"arity is not checked", "h q[0], q[1];", circuit.NewGate("h", 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.line, err)
			}
			if len(c.Gates) != 1 || !c.Gates[0].Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.line, c.Gates, tt.want)
			}
		})
	}
}

func TestParseOutOfRangeAngle(t *testing.T) {
	c, err := Parse("rz(1e400) q[0];")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !math.IsInf(c.Gates[0].Params[0], 1) {
		t.Errorf("angle = %v, want +Inf", c.Gates[0].Params[0])
	}
}

func TestParseErrorOnMissingQubits(t *testing.T) {
	src := "qreg q[2];\nh q[0];\ncx q[a], q[b];\nx q[1];"

	c, err := Parse(src)
	if err == nil {
		t.Fatal("Parse should fail")
	}
	if len(c.Gates) != 0 {
		t.Errorf("failed parse returned %d gates", len(c.Gates))
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not *ParseError", err)
	}
	if perr.Line != "cx q[a], q[b];" {
		t.Errorf("Line = %q", perr.Line)
	}
	if perr.LineNo != 3 {
		t.Errorf("LineNo = %d, want 3", perr.LineNo)
	}
	if err.Error() != "failed to parse qubits from line: cx q[a], q[b];" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !qerrors.Is(err, qerrors.ErrCodeParse) {
		t.Error("ParseError should carry PARSE_ERROR")
	}
}

func TestParseErrorOnBareKeyword(t *testing.T) {
	_, err := Parse("h;")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse(\"h;\") error = %v, want *ParseError", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	c, err := Parse(demoSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := Format(c)
	if !strings.HasPrefix(out, "OPENQASM 2.0;\n") {
		t.Errorf("missing header: %q", out)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Format(c)): %v", err)
	}
	if !again.Equal(c) {
		t.Errorf("round trip mismatch:\n%s", out)
	}
}

func TestWriteOmitsEmptyClassicalRegister(t *testing.T) {
	out := Format(circuit.Circuit{NumQubits: 2, Gates: []circuit.Gate{circuit.NewGate("swap", 0, 1)}})
	lines := strings.Split(strings.TrimSpace(out), "\n")

	want := []string{"OPENQASM 2.0;", `include "qelib1.inc";`, "qreg q[2];", "swap q[0], q[1];"}
	if !slices.Equal(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}
