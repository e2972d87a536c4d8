package metrics

import "github.com/matzehuels/qtranspile/pkg/circuit"

// Stats compares a circuit before and after transpilation.
type Stats struct {
	OriginalDepth     int     `json:"original_depth"`
	FinalDepth        int     `json:"final_depth"`
	OriginalGateCount int     `json:"original_gate_count"`
	FinalGateCount    int     `json:"final_gate_count"`
	DepthReduction    float64 `json:"depth_reduction"`
	GateReduction     float64 `json:"gate_reduction"`
}

// Snapshot is the pair of measurements taken of one circuit.
type Snapshot struct {
	Depth     int `json:"depth"`
	GateCount int `json:"gate_count"`
}

// Measure takes a snapshot of c.
func Measure(c circuit.Circuit) Snapshot {
	return Snapshot{Depth: Depth(c), GateCount: GateCount(c)}
}

// Compare builds Stats from the snapshots of the original and final circuit.
func Compare(original, final Snapshot) Stats {
	return Stats{
		OriginalDepth:     original.Depth,
		FinalDepth:        final.Depth,
		OriginalGateCount: original.GateCount,
		FinalGateCount:    final.GateCount,
		DepthReduction:    Reduction(original.Depth, final.Depth),
		GateReduction:     Reduction(original.GateCount, final.GateCount),
	}
}
