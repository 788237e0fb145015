//
// gates.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"

	"github.com/markkurossi/mpcnet/circuit"
)

// Gate implements a binary gate. The B input is nil for INV gates.
type Gate struct {
	Op       circuit.Operation
	A        *Wire
	B        *Wire
	O        *Wire
	Visited  bool
	Compiled bool
	Dead     bool
}

// NewBinary creates a new binary gate.
func NewBinary(op circuit.Operation, a, b, o *Wire) *Gate {
	gate := &Gate{
		Op: op,
		A:  a,
		B:  b,
		O:  o,
	}
	a.AddOutput(gate)
	b.AddOutput(gate)
	o.SetInput(gate)

	return gate
}

// NewINV creates a new INV gate.
func NewINV(i, o *Wire) *Gate {
	gate := &Gate{
		Op: circuit.INV,
		A:  i,
		O:  o,
	}
	i.AddOutput(gate)
	o.SetInput(gate)

	return gate
}

func (g *Gate) String() string {
	if g.B == nil {
		return fmt.Sprintf("%s %x %x", g.Op, g.A.ID, g.O.ID)
	}
	return fmt.Sprintf("%s %x %x %x", g.Op, g.A.ID, g.B.ID, g.O.ID)
}

// Visit adds the gate to the compiler's pending gates if all its
// input wires are assigned.
func (g *Gate) Visit(c *Compiler) {
	if g.Visited || g.Dead || !g.A.Assigned() {
		return
	}
	if g.B != nil && !g.B.Assigned() {
		return
	}
	g.Visited = true
	c.pending = append(c.pending, g)
}

// Assign assigns the gate's output wire.
func (g *Gate) Assign(c *Compiler) {
	g.O.Assign(c)
	c.assigned = append(c.assigned, g)
}

// Compile adds the gate to the compiled circuit.
func (g *Gate) Compile(c *Compiler) {
	if g.Compiled {
		return
	}
	g.Compiled = true

	gate := circuit.Gate{
		Input0: circuit.Wire(g.A.ID),
		Output: circuit.Wire(g.O.ID),
		Op:     g.Op,
	}
	if g.B != nil {
		gate.Input1 = circuit.Wire(g.B.ID)
	}
	c.compiled = append(c.compiled, gate)
}

// ShortCircuit moves the readers of the gate's output wire to read
// the wire w. The gate is left without readers unless its output
// wire is a circuit output.
func (g *Gate) ShortCircuit(w *Wire) {
	if g.O.Output {
		return
	}
	for _, output := range g.O.Outputs {
		if output.A == g.O {
			output.A = w
		}
		if output.B == g.O {
			output.B = w
		}
		w.AddOutput(output)
	}
	g.O.Outputs = g.O.Outputs[:0]
}

// Prune marks the gate dead if its output is unused. The function
// returns true if the gate was pruned.
func (g *Gate) Prune() bool {
	if g.Dead || g.O.Output || g.O.NumOutputs() > 0 {
		return false
	}
	g.Dead = true
	g.A.RemoveOutput(g)
	if g.B != nil {
		g.B.RemoveOutput(g)
	}
	return true
}
