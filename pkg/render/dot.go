package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	"github.com/matzehuels/qtranspile/pkg/metrics"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds the time step to each node label.
	Detailed bool

	// Title is drawn above the graph when set.
	Title string
}

// ToDOT converts a circuit to its gate dependency graph in Graphviz DOT
// format. Swap gates inserted by routing are drawn dashed.
func ToDOT(c circuit.Circuit, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontsize=10, fontcolor=grey40];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	steps := metrics.Schedule(c)
	for i, g := range c.Gates {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(fmtAttrs(g, steps[i], opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range dependencies(c) {
		fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", nodeID(e.from), nodeID(e.to), e.label())
	}

	byStep := make(map[int][]int)
	for i, s := range steps {
		if s > 0 {
			byStep[s] = append(byStep[s], i)
		}
	}
	if len(byStep) > 0 {
		buf.WriteString("\n")
	}
	for _, s := range slices.Sorted(maps.Keys(byStep)) {
		ids := make([]string, len(byStep[s]))
		for k, i := range byStep[s] {
			ids[k] = nodeID(i)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return fmt.Sprintf("g%d", i) }

func fmtAttrs(g circuit.Gate, step int, detailed bool) []string {
	label := g.String()
	if detailed {
		label += fmt.Sprintf("\nstep %d", step)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if g.Name == "swap" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// dependency is an edge between two gates sharing one or more qubits.
type dependency struct {
	from, to int
	qubits   []int
}

func (d dependency) label() string {
	parts := make([]string, len(d.qubits))
	for i, q := range d.qubits {
		parts[i] = fmt.Sprintf("q%d", q)
	}
	return strings.Join(parts, ",")
}

// dependencies links each gate to the last earlier gate on each of its
// qubits. Qubits shared with the same predecessor collapse into one edge.
func dependencies(c circuit.Circuit) []dependency {
	last := make(map[int]int)
	var deps []dependency
	for i, g := range c.Gates {
		byFrom := make(map[int]int) // predecessor -> index into deps
		for _, q := range g.Qubits {
			prev, ok := last[q]
			last[q] = i
			if !ok {
				continue
			}
			if k, seen := byFrom[prev]; seen {
				deps[k].qubits = append(deps[k].qubits, q)
				continue
			}
			byFrom[prev] = len(deps)
			deps = append(deps, dependency{from: prev, to: i, qubits: []int{q}})
		}
	}
	return deps
}
