//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements boolean circuits with party annotated
// inputs and outputs.
package circuit

import (
	"fmt"
)

// Operation specifies gate function.
type Operation byte

// Gate functions.
const (
	XOR Operation = iota
	XNOR
	AND
	OR
	INV
	Count
)

// Stats holds statistics about circuit operations.
type Stats [Count]int

// Add adds the argument statistics to this statistics object.
func (stats *Stats) Add(o Stats) {
	for i := XOR; i < Count; i++ {
		stats[i] += o[i]
	}
}

// Count returns the number of gates in the statistics object.
func (stats Stats) Count() int {
	var result int
	for _, v := range stats {
		result += v
	}
	return result
}

func (stats Stats) String() string {
	var result string

	for i := XOR; i < Count; i++ {
		v := stats[i]
		if len(result) > 0 {
			result += " "
		}
		result += fmt.Sprintf("%s=%d", i, v)
	}
	return result
}

func (op Operation) String() string {
	switch op {
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case INV:
		return "INV"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Nonlinear tests if the operation is nonlinear i.e. it cannot be
// evaluated locally over XOR shares.
func (op Operation) Nonlinear() bool {
	return op == AND || op == OR
}

// Circuit specifies a boolean circuit computing a program. Input
// arguments occupy the first Inputs.Size() wires in the order they
// are listed. Output arguments occupy the last Outputs.Size() wires.
type Circuit struct {
	Name     string
	Parties  []string
	NumGates int
	NumWires int
	Inputs   IO
	Outputs  IO
	Gates    []Gate
	Stats    Stats
}

func (c *Circuit) String() string {
	return fmt.Sprintf("%s: #gates=%d (%s) #w=%d",
		c.Name, c.NumGates, c.Stats, c.NumWires)
}

// NumParties returns the number of parties in the circuit.
func (c *Circuit) NumParties() int {
	return len(c.Parties)
}

// PartyIndex returns the index of the named party.
func (c *Circuit) PartyIndex(name string) (int, bool) {
	for idx, p := range c.Parties {
		if p == name {
			return idx, true
		}
	}
	return -1, false
}

// NumNonlinear returns the number of nonlinear gates in the circuit.
func (c *Circuit) NumNonlinear() int {
	return c.Stats[AND] + c.Stats[OR]
}

// Cost computes the relative computational cost of the circuit.
func (c *Circuit) Cost() int {
	return c.NumNonlinear()*4 + c.Stats[INV] + c.Stats[XNOR]
}

// Dump prints a debug dump of the circuit.
func (c *Circuit) Dump() {
	fmt.Printf("circuit %s\n", c)
	for id, gate := range c.Gates {
		fmt.Printf("%04d\t%s\n", id, gate)
	}
}

// ComputeStats recomputes the circuit statistics from its gates.
func (c *Circuit) ComputeStats() {
	var stats Stats
	for _, g := range c.Gates {
		stats[g.Op]++
	}
	c.Stats = stats
	c.NumGates = len(c.Gates)
}

// Validate checks that the circuit is well formed: the gates are
// topologically ordered, all wires are in range, and all inputs and
// outputs refer to known parties.
func (c *Circuit) Validate() error {
	if c.NumGates != len(c.Gates) {
		return fmt.Errorf("gate count mismatch: %d != %d",
			c.NumGates, len(c.Gates))
	}
	if err := c.Inputs.validate("input", len(c.Parties)); err != nil {
		return err
	}
	if err := c.Outputs.validate("output", len(c.Parties)); err != nil {
		return err
	}
	numInputs := c.Inputs.Size()
	numOutputs := c.Outputs.Size()
	if numInputs+numOutputs > c.NumWires {
		return fmt.Errorf("too few wires: %d < %d+%d",
			c.NumWires, numInputs, numOutputs)
	}

	defined := make([]bool, c.NumWires)
	for i := 0; i < numInputs; i++ {
		defined[i] = true
	}
	for idx, g := range c.Gates {
		if g.Op >= Count {
			return fmt.Errorf("gate %d: invalid operation %v", idx, g.Op)
		}
		for _, w := range g.Inputs() {
			if int(w) >= c.NumWires {
				return fmt.Errorf("gate %d: input wire %v out of range",
					idx, w)
			}
			if !defined[w] {
				return fmt.Errorf("gate %d: input wire %v not defined",
					idx, w)
			}
		}
		if int(g.Output) >= c.NumWires {
			return fmt.Errorf("gate %d: output wire %v out of range",
				idx, g.Output)
		}
		if defined[g.Output] {
			return fmt.Errorf("gate %d: output wire %v already defined",
				idx, g.Output)
		}
		defined[g.Output] = true
	}
	for i := c.NumWires - numOutputs; i < c.NumWires; i++ {
		if !defined[i] {
			return fmt.Errorf("output wire w%d not defined", i)
		}
	}
	return nil
}

// Gate specifies a boolean gate.
type Gate struct {
	Input0 Wire
	Input1 Wire
	Output Wire
	Op     Operation
}

func (g Gate) String() string {
	return fmt.Sprintf("%v %v %v", g.Inputs(), g.Op, g.Output)
}

// Inputs returns gate input wires.
func (g Gate) Inputs() []Wire {
	switch g.Op {
	case XOR, XNOR, AND, OR:
		return []Wire{g.Input0, g.Input1}
	case INV:
		return []Wire{g.Input0}
	default:
		panic(fmt.Sprintf("unsupported gate type %s", g.Op))
	}
}

// Wire specifies a wire ID.
type Wire uint32

// ID returns the wire ID as integer.
func (w Wire) ID() int {
	return int(w)
}

func (w Wire) String() string {
	return fmt.Sprintf("w%d", w)
}
