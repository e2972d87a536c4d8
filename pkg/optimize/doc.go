// Package optimize provides local rewrite passes that reduce the gate count
// and depth of a routed circuit.
//
// # Passes
//
// Every pass implements [Pass]: a pure function from one circuit to another.
// Passes never modify their input and never look beyond literal adjacency;
// there is no commutation analysis.
//
// [Cancellation] removes pairs of identical, immediately adjacent gates such
// as h·h or cx·cx: same name, same ordered qubits, no parameters. A
// sweep drops a pair and resumes after it; sweeps repeat until nothing is
// left to cancel, so running the pass on its own output changes nothing.
//
// [RotationMerge] folds each maximal contiguous run of rz gates on one qubit
// into a single rz with the summed angle. A run whose sum is within
// [AngleEpsilon] of zero is removed entirely. Any other gate, even on an
// unrelated qubit, ends a run.
//
// # Ordering
//
// Passes do not commute in general, so the order is part of the result.
// [Default] returns cancellation followed by rotation merging:
//
//	out := optimize.Sequence(optimize.Default()).Run(c)
//
// Passes can also be resolved by name with [Lookup] or [Resolve]:
//
//	passes, err := optimize.Resolve([]string{"merge", "cancel"})
package optimize
