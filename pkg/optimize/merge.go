package optimize

import (
	"math"
	"slices"

	"github.com/matzehuels/qtranspile/pkg/circuit"
)

// AngleEpsilon is the magnitude below which a merged rotation is dropped.
const AngleEpsilon = 1e-10

// RotationGate is the gate name the merge pass folds.
const RotationGate = "rz"

// RotationMerge folds contiguous rz runs on one qubit.
type RotationMerge struct{}

func (RotationMerge) Name() string { return NameMerge }

func (RotationMerge) Run(c circuit.Circuit) circuit.Circuit {
	gates := c.Gates
	out := make([]circuit.Gate, 0, len(gates))

	for i := 0; i < len(gates); {
		g := gates[i]
		if !isRotation(g) {
			out = append(out, g.Clone())
			i++
			continue
		}

		q := g.Qubits[0]
		angle := g.Params[0]
		j := i + 1
		for j < len(gates) && isRotation(gates[j]) && slices.Equal(gates[j].Qubits, g.Qubits) {
			angle += gates[j].Params[0]
			j++
		}
		if math.Abs(angle) > AngleEpsilon {
			out = append(out, circuit.NewRotation(RotationGate, angle, q))
		}
		i = j
	}
	return c.WithGates(out)
}

func isRotation(g circuit.Gate) bool {
	return g.Name == RotationGate && len(g.Qubits) == 1 && len(g.Params) > 0
}
