package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	"github.com/matzehuels/qtranspile/pkg/metrics"
)

// writeReport prints the plain-text transpilation summary: the backend, depth
// and gate count before and after, and the final gate list.
func writeReport(w io.Writer, backendName string, stats metrics.Stats, c circuit.Circuit) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Transpilation successful on backend %s!\n", backendName)
	fmt.Fprintf(&b, "Depth: %d -> %d (reduction %.2f%%)\n",
		stats.OriginalDepth, stats.FinalDepth, stats.DepthReduction)
	fmt.Fprintf(&b, "Gate count: %d -> %d (reduction %.2f%%)\n",
		stats.OriginalGateCount, stats.FinalGateCount, stats.GateReduction)
	b.WriteString("Final circuit gates:\n")
	for i, g := range c.Gates {
		fmt.Fprintf(&b, "%3d: %-4s qubits=[%s] params=[%s]\n", i, g.Name, joinInts(g.Qubits), joinFloats(g.Params))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func joinFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
