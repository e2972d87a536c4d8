package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/cache"
	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
	"github.com/matzehuels/qtranspile/pkg/metrics"
	"github.com/matzehuels/qtranspile/pkg/optimize"
	"github.com/matzehuels/qtranspile/pkg/qasm"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"qasm", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !qerrors.Is(err, qerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, qerrors.GetCode(err))
		}
	}
}

func TestFormatNames(t *testing.T) {
	if len(FormatNames) != len(ValidFormats) {
		t.Fatalf("FormatNames has %d entries, ValidFormats %d", len(FormatNames), len(ValidFormats))
	}
	for _, f := range FormatNames {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if FormatNames[0] != FormatText {
		t.Errorf("first format = %q, want the default %q", FormatNames[0], FormatText)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: DemoSource, Backend: backend.IBMDemo()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Passes) != 2 || opts.Passes[0] != "cancel" || opts.Passes[1] != "merge" {
		t.Errorf("Passes = %v, want default order", opts.Passes)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	// Caller's pass slice is not rewritten.
	passes := []string{" MERGE "}
	opts = Options{Source: DemoSource, Backend: backend.IBMDemo(), Passes: passes}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if passes[0] != " MERGE " || opts.Passes[0] != "merge" {
		t.Errorf("passes = %v, opts.Passes = %v", passes, opts.Passes)
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code qerrors.Code
	}{
		{"oversized source", Options{Source: strings.Repeat("h q[0];\n", qerrors.MaxSourceBytes/8+1), Backend: backend.IBMDemo()}, qerrors.ErrCodeInvalidInput},
		{"no qubits", Options{Source: DemoSource, Backend: circuit.Backend{Name: "empty"}}, qerrors.ErrCodeInvalidBackend},
		{"bad backend name", Options{Source: DemoSource, Backend: circuit.Backend{Name: "a b", NumQubits: 1}}, qerrors.ErrCodeInvalidBackend},
		{"unknown pass", Options{Source: DemoSource, Backend: backend.IBMDemo(), Passes: []string{"fuse"}}, qerrors.ErrCodeInvalidPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !qerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTranspileDemo(t *testing.T) {
	res, err := New().Transpile(DemoSource, backend.IBMDemo())
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}

	want := []circuit.Gate{
		circuit.NewGate("h", 0),
		circuit.NewGate("cx", 0, 1),
		circuit.NewGate("cx", 1, 2),
	}
	gates := res.Circuit.Gates
	if len(gates) != 4 {
		t.Fatalf("gates = %v, want 4", gates)
	}
	for i, w := range want {
		if !gates[i].Equal(w) {
			t.Errorf("gate %d = %v, want %v", i, gates[i], w)
		}
	}
	last := gates[3]
	if last.Name != "rz" || len(last.Qubits) != 1 || last.Qubits[0] != 2 || math.Abs(last.Params[0]-3.1416) > 1e-9 {
		t.Errorf("gate 3 = %v, want rz(3.1416) q[2]", last)
	}

	s := res.Stats
	if s.OriginalGateCount != 5 || s.FinalGateCount != 4 || s.OriginalDepth != 5 || s.FinalDepth != 4 {
		t.Errorf("Stats = %+v", s)
	}
	if s.DepthReduction != 20 || s.GateReduction != 20 {
		t.Errorf("reductions = %v, %v, want 20, 20", s.DepthReduction, s.GateReduction)
	}
	if res.SwapCount != 0 {
		t.Errorf("SwapCount = %d, want 0", res.SwapCount)
	}
	if res.Backend != "ibm_demo" {
		t.Errorf("Backend = %q", res.Backend)
	}
}

func TestTranspileStages(t *testing.T) {
	res, err := New().Transpile(DemoSource, backend.IBMDemo())
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"parse", "route", "cancel", "merge"}
	if len(res.Stages) != len(names) {
		t.Fatalf("Stages = %d, want %d", len(res.Stages), len(names))
	}
	for i, n := range names {
		if res.Stages[i].Name != n {
			t.Errorf("stage %d = %s, want %s", i, res.Stages[i].Name, n)
		}
	}
	if s, ok := res.Stage("parse"); !ok || s.GateCount != 5 || s.Depth != 5 {
		t.Errorf("parse stage = %+v", s)
	}
	if s, _ := res.Stage("merge"); s.GateCount != 4 {
		t.Errorf("merge stage gate count = %d", s.GateCount)
	}
	if _, ok := res.Stage("fuse"); ok {
		t.Error("unknown stage should not be found")
	}
}

func TestTranspileInsertsSwaps(t *testing.T) {
	src := "qreg q[3];\ncx q[0], q[2];\n"
	res, err := New().Transpile(src, backend.IBMDemo())
	if err != nil {
		t.Fatal(err)
	}
	if res.SwapCount != 1 {
		t.Errorf("SwapCount = %d, want 1", res.SwapCount)
	}
	if res.Circuit.GateCount() != 2 || res.Circuit.Gates[0].Name != "swap" {
		t.Errorf("gates = %v", res.Circuit.Gates)
	}
	// Routing grows the circuit; the reduction saturates at 0.
	if res.Stats.GateReduction != 0 {
		t.Errorf("GateReduction = %v, want 0", res.Stats.GateReduction)
	}
}

func TestTranspileParseError(t *testing.T) {
	src := "qreg q[2];\nh q[0];\ncx foo;\n"
	res, err := New().Transpile(src, backend.IBMDemo())
	if res != nil {
		t.Error("no result expected on parse error")
	}
	var perr *qasm.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *qasm.ParseError", err)
	}
	if perr.Line != "cx foo;" {
		t.Errorf("Line = %q", perr.Line)
	}
}

func TestTranspileEmptyCircuit(t *testing.T) {
	res, err := New().Transpile("OPENQASM 2.0;\n", backend.IBMDemo())
	if err != nil {
		t.Fatal(err)
	}
	s := res.Stats
	if s.OriginalDepth != 0 || s.FinalDepth != 0 || s.DepthReduction != 0 || s.GateReduction != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestTranspileCancelsPrefixNamedGates(t *testing.T) {
	res, err := New().Transpile("qreg q[1];\nhx q[0];\nhx q[0];\n", backend.IBMDemo())
	if err != nil {
		t.Fatal(err)
	}
	if n := len(res.Circuit.Gates); n != 0 {
		t.Errorf("got %d gates, want the hx pair removed: %v", n, res.Circuit.Gates)
	}
	if res.Stats.GateReduction != 100 {
		t.Errorf("GateReduction = %v, want 100", res.Stats.GateReduction)
	}
}

func TestTranspileCustomPasses(t *testing.T) {
	res, err := New(optimize.Cancellation{}).Transpile(DemoSource, backend.IBMDemo())
	if err != nil {
		t.Fatal(err)
	}
	if res.Circuit.GateCount() != 5 {
		t.Errorf("cancel only: GateCount() = %d, want 5", res.Circuit.GateCount())
	}
	if len(res.Passes) != 1 || res.Passes[0] != "cancel" {
		t.Errorf("Passes = %v", res.Passes)
	}
}

func TestRunnerCachesResults(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Source: DemoSource, Backend: backend.IBMDemo()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.Info.CacheHit {
		t.Error("first run should miss")
	}
	if first.Info.RunID == "" {
		t.Error("RunID should be set")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.Info.CacheHit {
		t.Error("second run should hit")
	}
	if second.Info.RunID == first.Info.RunID {
		t.Error("each run should get its own ID")
	}
	if !second.Circuit.Equal(first.Circuit) || second.Stats != first.Stats {
		t.Error("cached result differs from computed result")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Info.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	opts = Options{Source: DemoSource, Backend: backend.IBMDemo(), Passes: []string{"merge", "cancel"}}
	other, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if other.Info.CacheHit {
		t.Error("a different pass order is a different key")
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Source: "h q;", Backend: backend.IBMDemo()})
	var perr *qasm.ParseError
	if !errors.As(err, &perr) || !qerrors.Is(err, qerrors.ErrCodeParse) {
		t.Errorf("parse failure = %v", err)
	}

	_, err = r.Execute(ctx, Options{Source: "h q[0];", Backend: circuit.Backend{Name: "none"}})
	if !qerrors.Is(err, qerrors.ErrCodeInvalidBackend) {
		t.Errorf("backend without qubits = %v", err)
	}
}

func TestRunnerEmptySource(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	for _, src := range []string{"", "\n", "  \n\t"} {
		res, err := r.Execute(context.Background(), Options{Source: src, Backend: backend.IBMDemo()})
		if err != nil {
			t.Fatalf("Execute(%q): %v", src, err)
		}
		if len(res.Circuit.Gates) != 0 || res.Stats != (metrics.Stats{}) {
			t.Errorf("Execute(%q) = %+v, %+v", src, res.Circuit, res.Stats)
		}
	}
}
