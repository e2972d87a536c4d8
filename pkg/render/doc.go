// Package render draws circuits as gate dependency graphs.
//
// Every gate becomes a node. A gate has an edge from the previous gate on
// each of its qubits, labelled with the qubit, so the longest path through
// the graph is the circuit depth. Nodes that end in the same time step
// (see [metrics.Schedule]) share a rank.
//
// [ToDOT] produces Graphviz DOT text; [RenderSVG] lays it out with the
// embedded Graphviz from github.com/goccy/go-graphviz, so no external binary
// is needed.
//
//	dot := render.ToDOT(res.Circuit, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
