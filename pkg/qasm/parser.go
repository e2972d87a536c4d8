// Package qasm reads and writes the small OpenQASM 2 subset the transpiler
// understands.
//
// The reader is line oriented and deliberately lenient: register declarations
// and the gate keywords cx, h, x and rz are recognized, every other line is
// skipped, and malformed numbers become 0 instead of failing. The only error
// is a gate line from which no qubit index can be extracted, reported as a
// [*ParseError].
//
//	c, err := qasm.Parse(src)
//	var perr *qasm.ParseError
//	if errors.As(err, &perr) {
//	    fmt.Println("bad line:", perr.Line)
//	}
package qasm

import (
	"errors"
	"strconv"
	"strings"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
)

// GateKeywords lists the prefixes that mark a line as a gate line. A line is
// a gate line when it starts with one of them, so "hadamard q[0];" is read
// as a gate named "hadamard".
var GateKeywords = []string{"cx", "h", "x", "rz"}

// qubitDelims separate index candidates in the operand part of a gate line.
const qubitDelims = "[] ;,"

// ParseError reports a recognized gate line without any qubit index.
type ParseError struct {
	Line   string // offending line, trimmed
	LineNo int    // 1-based line number in the source
}

func (e *ParseError) Error() string {
	return "failed to parse qubits from line: " + e.Line
}

// Unwrap exposes the error as a PARSE_ERROR for code-based handling.
func (e *ParseError) Unwrap() error {
	return qerrors.New(qerrors.ErrCodeParse, "line %d: %s", e.LineNo, e.Line)
}

// Parser converts source text into a circuit. The zero value is ready to use.
type Parser struct{}

// Parse is shorthand for Parser{}.Parse(src).
func Parse(src string) (circuit.Circuit, error) {
	return Parser{}.Parse(src)
}

// Parse reads src line by line. Later register declarations override
// earlier ones. It stops at the first gate line without qubits.
func (Parser) Parse(src string) (circuit.Circuit, error) {
	var c circuit.Circuit
	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "qreg"):
			if n, ok := registerSize(line); ok {
				c.NumQubits = n
			}
		case strings.HasPrefix(line, "creg"):
			if n, ok := registerSize(line); ok {
				c.NumClbits = n
			}
		case isGateLine(line):
			g, err := parseGate(line)
			if err != nil {
				err.LineNo = i + 1
				return circuit.Circuit{}, err
			}
			c.Gates = append(c.Gates, g)
		}
	}
	return c, nil
}

func isGateLine(line string) bool {
	for _, kw := range GateKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// registerSize extracts N from "qreg name[N];". The second bool is false
// when the line has no bracket at all, in which case the previous size is
// kept. A present but malformed size yields 0.
func registerSize(line string) (int, bool) {
	parts := splitAny(line, "[]")
	if len(parts) < 2 {
		return 0, false
	}
	n, ok := parseIndex(parts[1])
	if !ok {
		return 0, true
	}
	return n, true
}

func parseGate(line string) (circuit.Gate, *ParseError) {
	tokens := strings.Fields(line)
	first := strings.TrimRight(tokens[0], ";")

	g := circuit.Gate{Name: first}
	if idx := strings.IndexByte(first, '('); idx >= 0 {
		g.Name = first[:idx]
		g.Params = []float64{parseAngle(strings.TrimRight(first[idx+1:], ")"))}
	}

	operands := strings.Join(tokens[1:], " ")
	for _, part := range splitAny(operands, qubitDelims) {
		if q, ok := parseIndex(part); ok {
			g.Qubits = append(g.Qubits, q)
		}
	}
	if len(g.Qubits) == 0 {
		return circuit.Gate{}, &ParseError{Line: line}
	}
	return g, nil
}

// parseIndex accepts non-negative decimal integers with an optional
// leading '+'.
func parseIndex(s string) (int, bool) {
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}

// parseAngle returns 0 for text that is not a float literal. Out-of-range
// literals keep the infinity ParseFloat returns.
func parseAngle(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

// splitAny splits s at every byte in seps, keeping empty fields.
func splitAny(s, seps string) []string {
	var parts []string
	for {
		i := strings.IndexAny(s, seps)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}
