package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
	"github.com/matzehuels/qtranspile/pkg/qasm"
	"github.com/matzehuels/qtranspile/pkg/render"
	"github.com/matzehuels/qtranspile/pkg/store"
)

// transpileOpts holds the command-line flags for the transpile command.
type transpileOpts struct {
	backend  string // built-in name or description file
	passes   string // comma-separated pass names
	format   string // text, json, qasm, dot or svg
	output   string // output file, stdout when empty
	noCache  bool   // bypass the result cache entirely
	refresh  bool   // recompute and overwrite the cached result
	history  bool   // record the run in the history store
	detailed bool   // annotate dot/svg nodes with their time step
}

// transpileCommand creates the transpile command.
func (c *CLI) transpileCommand() *cobra.Command {
	opts := transpileOpts{backend: backend.DefaultName, format: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "transpile [file|-]",
		Short: "Route and optimize a circuit for a backend",
		Long: `Transpile reads an OpenQASM 2 circuit, inserts swaps so every two-qubit gate
acts on coupled qubits of the backend, and runs the optimization passes.

The source is read from the file argument, or from stdin when it is "-". A
.json file is read as a circuit in JSON form.`,
		Example: `  qtranspile transpile bell.qasm
  qtranspile transpile bell.qasm --backend line_8 --passes merge,cancel
  qtranspile transpile bell.qasm --backend device.toml -f svg -o bell.svg
  cat bell.qasm | qtranspile transpile - -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runTranspile(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.backend, "backend", "b", opts.backend, "backend name (ibm_demo, line_N, full_N) or .toml/.yaml/.json file")
	cmd.Flags().StringVarP(&opts.passes, "passes", "p", "", "optimization passes in order (default "+strings.Join(pipeline.DefaultPasses, ",")+")")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(pipeline.FormatNames, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.history, "history", false, "record the run in the history store")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show time steps in dot/svg output")
	registerCircuitFlagCompletions(cmd)

	return cmd
}

// runTranspile executes the pipeline on one source and writes the result.
func (c *CLI) runTranspile(ctx context.Context, input string, opts transpileOpts) error {
	logger := loggerFromContext(ctx)

	src, err := readSource(input)
	if err != nil {
		return err
	}
	b, err := backend.Resolve(opts.backend)
	if err != nil {
		return err
	}
	logger.Debug("resolved backend", "name", b.Name, "qubits", b.NumQubits, "edges", len(b.Edges))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, pipeline.Options{
		Source:  src,
		Backend: b,
		Passes:  splitList(opts.passes),
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if opts.history {
		if err := c.recordRun(ctx, src, res); err != nil {
			logger.Warn("run not recorded", "error", err)
		}
	}

	data, err := encodeResult(ctx, res, opts.format, opts.detailed)
	if err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		if opts.format == pipeline.FormatText {
			printStats(res, b)
		}
		return nil
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Transpiled for %s", res.Backend)
	printFile(opts.output)
	printStats(res, b)
	return nil
}

// recordRun saves res in the history store.
func (c *CLI) recordRun(ctx context.Context, src string, res *pipeline.Result) error {
	prog := newProgress(loggerFromContext(ctx))
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Save(ctx, store.NewRecord(src, res)); err != nil {
		return err
	}
	prog.done("Recorded run " + res.Info.RunID)
	return nil
}

// encodeResult renders res in the requested output format.
func encodeResult(ctx context.Context, res *pipeline.Result, format string, detailed bool) ([]byte, error) {
	switch format {
	case pipeline.FormatText:
		var buf bytes.Buffer
		err := writeReport(&buf, res.Backend, res.Stats, res.Circuit)
		return buf.Bytes(), err
	case pipeline.FormatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case pipeline.FormatQASM:
		return []byte(qasm.Format(res.Circuit)), nil
	case pipeline.FormatDOT:
		return []byte(render.ToDOT(res.Circuit, renderOptions(res, detailed))), nil
	case pipeline.FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(res.Circuit, renderOptions(res, detailed)))
	}
	return nil, pipeline.ValidateFormat(format)
}

func renderOptions(res *pipeline.Result, detailed bool) render.Options {
	return render.Options{
		Detailed: detailed,
		Title:    fmt.Sprintf("%s (depth %d, %d gates)", res.Backend, res.Stats.FinalDepth, res.Stats.FinalGateCount),
	}
}

// readSource reads a circuit from path, or from stdin when path is "-". A
// .json path holds a circuit in the circuit JSON format and is converted to
// QASM; gates the parser does not know are lost on the way.
func readSource(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c, err := circuit.ImportJSON(path)
		if err != nil {
			return "", err
		}
		return qasm.Format(c), nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(os.Stdin, qerrors.MaxSourceBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", qerrors.Wrap(qerrors.ErrCodeFileNotFound, err, "circuit file %s", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
