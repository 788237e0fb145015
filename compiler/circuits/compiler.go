//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"
	"time"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/compiler/utils"
)

// Compiler implements binary circuit compiler.
type Compiler struct {
	Params      *utils.Params
	Inputs      circuit.IO
	Outputs     circuit.IO
	InputWires  []*Wire
	OutputWires []*Wire
	Gates       []*Gate
	nextWireID  uint32
	pending     []*Gate
	assigned    []*Gate
	compiled    []circuit.Gate
	zeroWire    *Wire
	oneWire     *Wire
}

// NewCompiler creates a new circuit compiler for the specified
// circuit input and output values.
func NewCompiler(params *utils.Params, inputs, outputs circuit.IO,
	inputWires, outputWires []*Wire) (*Compiler, error) {

	if len(inputWires) == 0 {
		return nil, fmt.Errorf("no inputs defined")
	}
	if len(inputWires) != inputs.Size() {
		return nil, fmt.Errorf("invalid input wires: got %d, expected %d",
			len(inputWires), inputs.Size())
	}
	if len(outputWires) != outputs.Size() {
		return nil, fmt.Errorf("invalid output wires: got %d, expected %d",
			len(outputWires), outputs.Size())
	}
	if params == nil {
		params = utils.NewParams()
	}
	for _, w := range outputWires {
		w.Output = true
	}
	return &Compiler{
		Params:      params,
		Inputs:      inputs,
		Outputs:     outputs,
		InputWires:  inputWires,
		OutputWires: outputWires,
		Gates:       make([]*Gate, 0, 1024),
	}, nil
}

// ZeroWire returns a wire holding value 0. The wire is computed from
// the first input wire as XOR(i0, i0).
func (c *Compiler) ZeroWire() *Wire {
	if c.zeroWire == nil {
		c.zeroWire = NewWire()
		c.AddGate(NewBinary(circuit.XOR, c.InputWires[0], c.InputWires[0],
			c.zeroWire))
		c.zeroWire.Value = Zero
	}
	return c.zeroWire
}

// OneWire returns a wire holding value 1. The wire is computed from
// the first input wire as XNOR(i0, i0).
func (c *Compiler) OneWire() *Wire {
	if c.oneWire == nil {
		c.oneWire = NewWire()
		c.AddGate(NewBinary(circuit.XNOR, c.InputWires[0], c.InputWires[0],
			c.oneWire))
		c.oneWire.Value = One
	}
	return c.oneWire
}

// ConstWires returns bits number of wires holding the bits of the
// constant value in little-endian order.
func (c *Compiler) ConstWires(value []byte, bits int) []*Wire {
	result := make([]*Wire, bits)
	for i := 0; i < bits; i++ {
		if i/8 < len(value) && value[i/8]&(1<<(i%8)) != 0 {
			result[i] = c.OneWire()
		} else {
			result[i] = c.ZeroWire()
		}
	}
	return result
}

// ZeroPad pads the argument wires x and y with zero values so that
// the resulting wires have the same number of bits.
func (c *Compiler) ZeroPad(x, y []*Wire) ([]*Wire, []*Wire) {
	if len(x) == len(y) {
		return x, y
	}

	max := len(x)
	if len(y) > max {
		max = len(y)
	}

	rx := make([]*Wire, max)
	for i := 0; i < max; i++ {
		if i < len(x) {
			rx[i] = x[i]
		} else {
			rx[i] = c.ZeroWire()
		}
	}

	ry := make([]*Wire, max)
	for i := 0; i < max; i++ {
		if i < len(y) {
			ry[i] = y[i]
		} else {
			ry[i] = c.ZeroWire()
		}
	}

	return rx, ry
}

// INV creates an inverse wire inverting the input wire i's value to
// the output wire o.
func (c *Compiler) INV(i, o *Wire) {
	c.AddGate(NewBinary(circuit.XOR, i, c.OneWire(), o))
}

// ID creates an identity wire passing the input wire i's value to the
// output wire o.
func (c *Compiler) ID(i, o *Wire) {
	c.AddGate(NewBinary(circuit.XOR, i, c.ZeroWire(), o))
}

// AddGate adds a gate into the circuit.
func (c *Compiler) AddGate(gate *Gate) {
	c.Gates = append(c.Gates, gate)
}

// NextWireID returns the next unique wire ID.
func (c *Compiler) NextWireID() uint32 {
	ret := c.nextWireID
	c.nextWireID++
	return ret
}

func (c *Compiler) diagnostics(name string, start time.Time, count int) {
	if !c.Params.Diagnostics || count == 0 || len(c.Gates) == 0 {
		return
	}
	fmt.Printf(" - %-20s %12s: %d/%d (%.2f%%)\n", name+":",
		time.Since(start), count, len(c.Gates),
		float64(count)/float64(len(c.Gates))*100)
}

// ConstPropagate propagates constant wire values in the circuit and
// short circuits gates if their output does not depend on the gate's
// logical operation.
func (c *Compiler) ConstPropagate() {
	var stats circuit.Stats

	start := time.Now()

	// Fix constant wires so that the loop below does not add gates.
	zero := c.ZeroWire()
	one := c.OneWire()

	for _, g := range c.Gates {
		if g.O == zero || g.O == one {
			continue
		}
		a := g.A.Value
		b := Unknown
		if g.B != nil {
			b = g.B.Value
		}

		switch g.Op {
		case circuit.XOR:
			if a != Unknown && b != Unknown {
				g.O.Value = value(a != b)
				stats[g.Op]++
			} else if a == Zero {
				stats[g.Op]++
				g.ShortCircuit(g.B)
			} else if b == Zero {
				stats[g.Op]++
				g.ShortCircuit(g.A)
			}

		case circuit.XNOR:
			if a != Unknown && b != Unknown {
				g.O.Value = value(a == b)
				stats[g.Op]++
			} else if a == One {
				stats[g.Op]++
				g.ShortCircuit(g.B)
			} else if b == One {
				stats[g.Op]++
				g.ShortCircuit(g.A)
			}

		case circuit.AND:
			if a == Zero || b == Zero {
				g.O.Value = Zero
				stats[g.Op]++
			} else if a == One && b == One {
				g.O.Value = One
				stats[g.Op]++
			} else if a == One {
				stats[g.Op]++
				g.ShortCircuit(g.B)
			} else if b == One {
				stats[g.Op]++
				g.ShortCircuit(g.A)
			}

		case circuit.OR:
			if a == One || b == One {
				g.O.Value = One
				stats[g.Op]++
			} else if a == Zero && b == Zero {
				g.O.Value = Zero
				stats[g.Op]++
			} else if a == Zero {
				stats[g.Op]++
				g.ShortCircuit(g.B)
			} else if b == Zero {
				stats[g.Op]++
				g.ShortCircuit(g.A)
			}

		case circuit.INV:
			if a != Unknown {
				g.O.Value = value(a == Zero)
				stats[g.Op]++
			}
		}

		g.A = c.constWire(g, g.A)
		if g.B != nil {
			g.B = c.constWire(g, g.B)
		}
	}

	c.diagnostics("ConstPropagate", start, stats.Count())
}

func value(v bool) WireValue {
	if v {
		return One
	}
	return Zero
}

// constWire returns the shared constant wire for the gate input w if
// w holds a known value.
func (c *Compiler) constWire(g *Gate, w *Wire) *Wire {
	var r *Wire
	switch w.Value {
	case Zero:
		r = c.zeroWire
	case One:
		r = c.oneWire
	default:
		return w
	}
	if r == w {
		return w
	}
	w.RemoveOutput(g)
	r.AddOutput(g)
	return r
}

// Prune removes all gates whose output wires are unused.
func (c *Compiler) Prune() int {
	start := time.Now()

	n := make([]*Gate, len(c.Gates))
	nPos := len(n)

	for i := len(c.Gates) - 1; i >= 0; i-- {
		g := c.Gates[i]
		if !g.Prune() {
			nPos--
			n[nPos] = g
		}
	}
	c.diagnostics("Prune", start, nPos)
	c.Gates = n[nPos:]

	return nPos
}

// Compile compiles the circuit. The input wires get the IDs
// [0...Inputs.Size()), the output wires get the last Outputs.Size()
// IDs, and the gates are emitted in topological order.
func (c *Compiler) Compile() (*circuit.Circuit, error) {
	if len(c.pending) != 0 || len(c.assigned) != 0 || len(c.compiled) != 0 {
		return nil, fmt.Errorf("circuit already compiled")
	}
	c.pending = make([]*Gate, 0, len(c.Gates))
	c.assigned = make([]*Gate, 0, len(c.Gates))
	c.compiled = make([]circuit.Gate, 0, len(c.Gates))

	for _, w := range c.InputWires {
		if w.Output {
			return nil, fmt.Errorf("input wire used as output wire")
		}
		w.ID = c.NextWireID()
	}
	for _, w := range c.InputWires {
		w.Assign(c)
	}
	for len(c.pending) > 0 {
		gate := c.pending[0]
		c.pending = c.pending[1:]
		gate.Assign(c)
	}
	for _, w := range c.OutputWires {
		if w.Assigned() {
			return nil, fmt.Errorf("output wire already assigned")
		}
		if w.Input == nil {
			return nil, fmt.Errorf("output wire not connected")
		}
		w.ID = c.NextWireID()
	}
	for _, g := range c.Gates {
		if !g.Visited && !g.Dead {
			return nil, fmt.Errorf("gate %v not reachable from inputs", g)
		}
	}

	for _, gate := range c.assigned {
		gate.Compile(c)
	}

	result := &circuit.Circuit{
		NumWires: int(c.nextWireID),
		Inputs:   c.Inputs,
		Outputs:  c.Outputs,
		Gates:    c.compiled,
	}
	result.ComputeStats()

	return result, nil
}
