package circuit

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
)

// WriteJSON encodes c as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(c Circuit, w io.Writer) error {
	if c.Gates == nil {
		c.Gates = []Gate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes c to a JSON file at path.
func ExportJSON(c Circuit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(c, f)
}

// ReadJSON decodes a circuit from r.
//
// ReadJSON returns an INVALID_CIRCUIT error if the JSON is malformed, if a
// register size is negative, or if a gate has an empty name or a negative
// qubit index. Gate arity is not checked. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Circuit, error) {
	var c Circuit
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Circuit{}, qerrors.Wrap(qerrors.ErrCodeInvalidCircuit, err, "decode circuit")
	}
	if err := check(c); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// ImportJSON reads a JSON file at path and returns the decoded circuit.
func ImportJSON(path string) (Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Circuit{}, qerrors.Wrap(qerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Circuit{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func check(c Circuit) error {
	if c.NumQubits < 0 || c.NumClbits < 0 {
		return qerrors.New(qerrors.ErrCodeInvalidCircuit, "negative register size")
	}
	for i, g := range c.Gates {
		if g.Name == "" {
			return qerrors.New(qerrors.ErrCodeInvalidCircuit, "gate %d: empty name", i)
		}
		for _, q := range g.Qubits {
			if q < 0 {
				return qerrors.New(qerrors.ErrCodeInvalidCircuit, "gate %d (%s): negative qubit index %d", i, g.Name, q)
			}
		}
	}
	return nil
}

// gateJSON is the wire form of a Gate.
type gateJSON struct {
	Name   string  `json:"name"`
	Qubits []int   `json:"qubits"`
	Params []param `json:"params,omitempty"`
}

// param is a gate parameter. JSON has no number form for non-finite values,
// so those are written as the strings "+Inf", "-Inf" and "NaN".
type param float64

func (p param) MarshalJSON() ([]byte, error) {
	f := float64(p)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(f)
}

func (p *param) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*p = param(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(math.IsInf(f, 0) || math.IsNaN(f)) {
		return fmt.Errorf("invalid gate parameter %q", s)
	}
	*p = param(f)
	return nil
}

// MarshalJSON encodes g, including non-finite parameters.
func (g Gate) MarshalJSON() ([]byte, error) {
	out := gateJSON{Name: g.Name, Qubits: g.Qubits}
	if len(g.Params) > 0 {
		out.Params = make([]param, len(g.Params))
		for i, v := range g.Params {
			out.Params[i] = param(v)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (g *Gate) UnmarshalJSON(data []byte) error {
	var in gateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*g = Gate{Name: in.Name, Qubits: in.Qubits}
	if len(in.Params) > 0 {
		g.Params = make([]float64, len(in.Params))
		for i, v := range in.Params {
			g.Params[i] = float64(v)
		}
	}
	return nil
}
