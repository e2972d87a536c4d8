// Package backend resolves device descriptions for the transpiler.
//
// Backends come from two places: a small set of built-ins, and description
// files in TOML, YAML or JSON. The file format mirrors [circuit.Backend]:
//
//	name = "ibm_demo"
//	num_qubits = 5
//	edges = [[0, 1], [1, 2], [2, 3], [3, 4]]
//	native_gates = ["x", "h", "cx", "rz"]
//
// [Resolve] accepts either a built-in name or a path to such a file.
package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
)

// DefaultName is the backend used when none is given.
const DefaultName = "ibm_demo"

// DefaultNativeGates is the native gate set of generated backends.
var DefaultNativeGates = []string{"x", "h", "cx", "rz"}

// maxGenerated bounds the size of line_N and full_N backends.
const maxGenerated = 1024

// IBMDemo is a 5-qubit device with linear coupling 0-1-2-3-4.
func IBMDemo() circuit.Backend {
	return circuit.Backend{
		Name:        DefaultName,
		NumQubits:   5,
		Edges:       []circuit.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
		NativeGates: slices.Clone(DefaultNativeGates),
	}
}

// Line returns an n-qubit device whose qubits form a chain.
func Line(n int) circuit.Backend {
	b := circuit.Backend{Name: fmt.Sprintf("line_%d", n), NumQubits: n, NativeGates: slices.Clone(DefaultNativeGates)}
	for i := 0; i+1 < n; i++ {
		b.Edges = append(b.Edges, circuit.Edge{i, i + 1})
	}
	return b
}

// Full returns an n-qubit device where every pair of qubits is coupled.
func Full(n int) circuit.Backend {
	b := circuit.Backend{Name: fmt.Sprintf("full_%d", n), NumQubits: n, NativeGates: slices.Clone(DefaultNativeGates)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.Edges = append(b.Edges, circuit.Edge{i, j})
		}
	}
	return b
}

// Builtins lists the fixed built-in backend names. Generated families are
// reachable as line_N and full_N.
func Builtins() []string {
	return []string{DefaultName, "line_N", "full_N"}
}

// Builtin returns the built-in backend called name.
func Builtin(name string) (circuit.Backend, error) {
	if err := qerrors.ValidateBackendName(name); err != nil {
		return circuit.Backend{}, err
	}
	if name == DefaultName {
		return IBMDemo(), nil
	}
	for prefix, build := range map[string]func(int) circuit.Backend{"line_": Line, "full_": Full} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > maxGenerated {
			return circuit.Backend{}, qerrors.New(qerrors.ErrCodeInvalidBackend,
				"invalid size in %q (must be 1..%d)", name, maxGenerated)
		}
		return build(n), nil
	}
	return circuit.Backend{}, qerrors.New(qerrors.ErrCodeBackendNotFound,
		"unknown backend %q (built-ins: %s)", name, strings.Join(Builtins(), ", "))
}

// Resolve returns the built-in backend called nameOrPath, or loads it from
// a file when the argument has a .toml, .yaml, .yml or .json extension. An
// empty argument selects [DefaultName].
func Resolve(nameOrPath string) (circuit.Backend, error) {
	if nameOrPath == "" {
		return IBMDemo(), nil
	}
	if _, ok := formatForExt(filepath.Ext(nameOrPath)); ok {
		return Load(nameOrPath)
	}
	return Builtin(nameOrPath)
}

// file is the on-disk shape of a backend description.
type file struct {
	Name        string   `toml:"name" yaml:"name" json:"name"`
	NumQubits   int      `toml:"num_qubits" yaml:"num_qubits" json:"num_qubits"`
	Edges       [][]int  `toml:"edges" yaml:"edges" json:"edges"`
	NativeGates []string `toml:"native_gates" yaml:"native_gates" json:"native_gates,omitempty"`
}

// Load reads a backend description file. The format is chosen by extension.
// A file without a name is named after its base name.
func Load(path string) (circuit.Backend, error) {
	format, ok := formatForExt(filepath.Ext(path))
	if !ok {
		return circuit.Backend{}, qerrors.New(qerrors.ErrCodeInvalidFormat,
			"unsupported backend file %s (must be .toml, .yaml, .yml or .json)", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return circuit.Backend{}, qerrors.Wrap(qerrors.ErrCodeFileNotFound, err, "backend file %s", path)
		}
		return circuit.Backend{}, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := decode(data, format)
	if err != nil {
		return circuit.Backend{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f.backend()
}

// Parse decodes a backend description held in memory. format is "toml",
// "yaml" or "json".
func Parse(data []byte, format string) (circuit.Backend, error) {
	f, err := decode(data, format)
	if err != nil {
		return circuit.Backend{}, err
	}
	return f.backend()
}

func formatForExt(ext string) (string, bool) {
	switch strings.ToLower(ext) {
	case ".toml":
		return "toml", true
	case ".yaml", ".yml":
		return "yaml", true
	case ".json":
		return "json", true
	}
	return "", false
}

func decode(data []byte, format string) (file, error) {
	var f file
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	case "json":
		err = json.Unmarshal(data, &f)
	default:
		return file{}, qerrors.New(qerrors.ErrCodeInvalidFormat, "unsupported backend format %q", format)
	}
	if err != nil {
		return file{}, qerrors.Wrap(qerrors.ErrCodeInvalidBackend, err, "decode backend")
	}
	return f, nil
}

func (f file) backend() (circuit.Backend, error) {
	b := circuit.Backend{Name: f.Name, NumQubits: f.NumQubits, NativeGates: f.NativeGates}
	for i, e := range f.Edges {
		if len(e) != 2 {
			return circuit.Backend{}, qerrors.New(qerrors.ErrCodeInvalidBackend,
				"edge %d: want 2 qubits, got %d", i, len(e))
		}
		b.Edges = append(b.Edges, circuit.Edge{e[0], e[1]})
	}
	if err := Validate(b); err != nil {
		return circuit.Backend{}, err
	}
	return b, nil
}

// Validate checks a backend before it is used for routing: a valid name, at
// least one qubit, and edges between distinct qubits inside the device.
func Validate(b circuit.Backend) error {
	if err := qerrors.ValidateBackendName(b.Name); err != nil {
		return err
	}
	if b.NumQubits <= 0 {
		return qerrors.New(qerrors.ErrCodeInvalidBackend, "backend %s: num_qubits must be positive", b.Name)
	}
	for _, e := range b.Edges {
		if e[0] == e[1] {
			return qerrors.New(qerrors.ErrCodeInvalidBackend, "backend %s: self edge %s", b.Name, e)
		}
		if e[0] < 0 || e[1] < 0 || e[0] >= b.NumQubits || e[1] >= b.NumQubits {
			return qerrors.New(qerrors.ErrCodeInvalidBackend, "backend %s: edge %s outside %d qubits", b.Name, e, b.NumQubits)
		}
	}
	return nil
}

// Encode writes b as a description file in the given format ("toml",
// "yaml" or "json") that Load and Parse read back.
func Encode(w io.Writer, b circuit.Backend, format string) error {
	f := file{Name: b.Name, NumQubits: b.NumQubits, NativeGates: b.NativeGates, Edges: [][]int{}}
	for _, e := range b.Edges {
		f.Edges = append(f.Edges, []int{e[0], e[1]})
	}
	switch strings.ToLower(format) {
	case "toml":
		return toml.NewEncoder(w).Encode(f)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	return qerrors.New(qerrors.ErrCodeInvalidFormat, "unsupported backend format %q (must be toml, yaml or json)", format)
}
