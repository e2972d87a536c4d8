package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	"github.com/matzehuels/qtranspile/pkg/metrics"
	"github.com/matzehuels/qtranspile/pkg/observability"
	"github.com/matzehuels/qtranspile/pkg/optimize"
	"github.com/matzehuels/qtranspile/pkg/qasm"
	"github.com/matzehuels/qtranspile/pkg/route"
)

// Transpiler runs parse, route and the optimization passes. It holds no
// mutable state and is safe for concurrent use.
type Transpiler struct {
	Parser qasm.Parser
	Router route.Router
	Passes optimize.Sequence
}

// New returns a transpiler running passes in the given order. With no passes
// it uses [optimize.Default].
func New(passes ...optimize.Pass) *Transpiler {
	if len(passes) == 0 {
		passes = optimize.Default()
	}
	return &Transpiler{Passes: passes}
}

// Transpile is TranspileContext with a background context.
func (t *Transpiler) Transpile(src string, b circuit.Backend) (*Result, error) {
	return t.TranspileContext(context.Background(), src, b)
}

// TranspileContext parses src, routes it for b and applies the passes in
// order. A parse error is returned as is and no later stage runs. The context
// is only handed to observability hooks; the stages themselves do not block.
func (t *Transpiler) TranspileContext(ctx context.Context, src string, b circuit.Backend) (*Result, error) {
	hooks := observability.Pipeline()

	hooks.OnParseStart(ctx, len(src))
	start := time.Now()
	parsed, err := t.Parser.Parse(src)
	hooks.OnParseComplete(ctx, parsed.GateCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	res := &Result{Backend: b.Name}
	record := func(name string, c circuit.Circuit, started time.Time) {
		s := Stage{Name: name, Circuit: c, Depth: metrics.Depth(c), GateCount: c.GateCount()}
		res.Stages = append(res.Stages, s)
		if name != StageParse {
			hooks.OnStageComplete(ctx, name, s.GateCount, s.Depth, time.Since(started))
		}
	}
	record(StageParse, parsed, start)

	hooks.OnStageStart(ctx, StageRoute)
	start = time.Now()
	current, swaps := t.Router.RouteWithCount(parsed, b)
	res.SwapCount = swaps
	record(StageRoute, current, start)

	for _, p := range t.Passes {
		hooks.OnStageStart(ctx, p.Name())
		start = time.Now()
		current = p.Run(current)
		res.Passes = append(res.Passes, p.Name())
		record(p.Name(), current, start)
	}

	res.Circuit = current
	res.Stats = metrics.Compare(metrics.Measure(parsed), metrics.Measure(current))
	return res, nil
}
