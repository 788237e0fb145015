//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"
)

// Dot creates graphviz dot output of the circuit. The gates are
// ranked by their evaluation level and the input and output wires are
// labeled with their argument names.
func (c *Circuit) Dot(out io.Writer) {
	fmt.Fprintf(out, "digraph %q\n{\n", c.Name)
	fmt.Fprintf(out, "  overlap=scale;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	labels := make(map[Wire]string)
	var w Wire
	for _, arg := range c.Inputs {
		for bit := 0; bit < int(arg.Type.Bits); bit++ {
			labels[w] = fmt.Sprintf("%s@%s[%d]", arg.Name, c.Parties[arg.Party], bit)
			w++
		}
	}
	w = Wire(c.NumWires - c.Outputs.Size())
	for _, arg := range c.Outputs {
		for bit := 0; bit < int(arg.Type.Bits); bit++ {
			labels[w] = fmt.Sprintf("%s@%s[%d]", arg.Name, c.Parties[arg.Party], bit)
			w++
		}
	}

	fmt.Fprintf(out, "  {\n    node [shape=plaintext];\n")
	for w := 0; w < c.NumWires; w++ {
		label, ok := labels[Wire(w)]
		if !ok {
			label = fmt.Sprintf("%d", w)
		}
		fmt.Fprintf(out, "    w%d\t[label=%q];\n", w, label)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for idx, gate := range c.Gates {
		style := ""
		if gate.Op.Nonlinear() {
			style = ",style=filled,fillcolor=\"#e0e0e0\""
		}
		fmt.Fprintf(out, "    g%d\t[label=\"%s\"%s];\n", idx, gate.Op, style)
	}
	fmt.Fprintf(out, "  }\n")

	for _, level := range c.Schedule() {
		if len(level.Nonlinear) == 0 {
			continue
		}
		fmt.Fprintf(out, "  {  rank=same")
		for _, idx := range level.Nonlinear {
			fmt.Fprintf(out, "; g%d", idx)
		}
		fmt.Fprintf(out, ";}\n")
	}

	for idx, gate := range c.Gates {
		for _, i := range gate.Inputs() {
			fmt.Fprintf(out, "  w%d -> g%d;\n", i, idx)
		}
		fmt.Fprintf(out, "  g%d -> w%d;\n", idx, gate.Output)
	}
	fmt.Fprintf(out, "}\n")
}
