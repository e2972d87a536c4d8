// Package pipeline runs the transpilation pipeline for qtranspile.
//
// This package implements the parse → route → optimize → measure pipeline
// used by the CLI and the HTTP API. Both entry points go through it so that
// they report identical results for identical input.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: read the QASM subset into a [circuit.Circuit]
//  2. Route: insert swaps before two-qubit gates on uncoupled qubits
//  3. Optimize: run the selected passes in order (default cancel, merge)
//  4. Measure: compare depth and gate count before and after
//
// [Transpiler] runs the stages and nothing else. [Runner] wraps it with
// option validation, result caching, logging and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  src,
//	    Backend: backend.IBMDemo(),
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Stats.FinalDepth, res.Info.CacheHit)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
	"github.com/matzehuels/qtranspile/pkg/metrics"
	"github.com/matzehuels/qtranspile/pkg/optimize"
)

// Stage names recorded in [Result.Stages] besides the pass names.
const (
	StageParse = "parse"
	StageRoute = "route"
)

// DefaultPasses is the pass order used when none is given.
var DefaultPasses = []string{optimize.NameCancel, optimize.NameMerge}

// Output formats understood by the CLI and the API.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatQASM = "qasm"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// FormatNames lists the supported output formats in display order.
var FormatNames = []string{FormatText, FormatJSON, FormatQASM, FormatDOT, FormatSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = formatSet(FormatNames)

func formatSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return qerrors.New(qerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// Options configures one pipeline run. It is also the body of the HTTP API
// request, with the backend resolved by the handler.
type Options struct {
	Source  string          `json:"source"`
	Backend circuit.Backend `json:"backend"`
	Passes  []string        `json:"passes,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := qerrors.ValidateSource(o.Source); err != nil {
		return err
	}
	if err := backend.Validate(o.Backend); err != nil {
		return err
	}

	if len(o.Passes) == 0 {
		o.Passes = DefaultPasses
	}
	o.Passes = slices.Clone(o.Passes)
	for i, p := range o.Passes {
		o.Passes[i] = strings.ToLower(strings.TrimSpace(p))
	}
	if _, err := optimize.Resolve(o.Passes); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Stage is the circuit as it stood after one pipeline stage.
type Stage struct {
	Name      string          `json:"name"`
	Circuit   circuit.Circuit `json:"circuit"`
	Depth     int             `json:"depth"`
	GateCount int             `json:"gate_count"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Circuit is the final optimized circuit.
	Circuit circuit.Circuit `json:"circuit"`

	// Stats compares the parsed circuit with the final one.
	Stats metrics.Stats `json:"stats"`

	// Stages holds a snapshot after parse, route and every pass, in order.
	Stages []Stage `json:"stages"`

	// SwapCount is the number of swaps the router inserted.
	SwapCount int `json:"swap_count"`

	// Backend and Passes echo what the run used.
	Backend string   `json:"backend"`
	Passes  []string `json:"passes"`

	// Info describes this particular execution. It is not part of the
	// cached value.
	Info ResultInfo `json:"info"`
}

// ResultInfo carries per-execution metadata.
type ResultInfo struct {
	RunID    string        `json:"run_id,omitempty"`
	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration_ns"`
}

// Stage returns the stage called name, if recorded.
func (r *Result) Stage(name string) (Stage, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}
